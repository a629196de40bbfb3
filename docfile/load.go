package docfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"seehuhn.de/go/geom/vec"

	"pdfdesigner/common"
	"pdfdesigner/config"
	"pdfdesigner/content"
	"pdfdesigner/css"
	"pdfdesigner/design"
	"pdfdesigner/fonts"
	"pdfdesigner/geometry"
	"pdfdesigner/layout"
	"pdfdesigner/page"
	"pdfdesigner/style"
)

// Result is a document built from description, with pages laid out.
type Result struct {
	Name     string
	Context  *design.Context
	Document *page.Document
	Stories  []*layout.Story
	// Sources lists files read while building: description, stylesheets
	// and images.
	Sources []string
}

// Load reads description file, relative paths in it are resolved against
// its directory. Document name defaults to file name.
func Load(path string, cfg *config.DocumentConfig, log *zap.Logger) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read document description: %w", err)
	}
	res, err := Parse(data, filepath.Dir(path), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", path, err)
	}
	if res.Name == "" {
		res.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	res.Sources = append([]string{path}, res.Sources...)
	return res, nil
}

// Parse builds document from description data. Nil cfg means built-in
// document defaults.
func Parse(data []byte, dir string, cfg *config.DocumentConfig, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = defaultDocument()
	}
	desc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	b := &builder{
		log:        log.Named("docfile"),
		root:       log,
		cfg:        cfg,
		dir:        dir,
		desc:       desc,
		loaded:     make(map[string]bool),
		elements:   make(map[string]content.Element),
		containers: make(map[string]*layout.Container),
	}
	return b.build()
}

func defaultDocument() *config.DocumentConfig {
	return &config.DocumentConfig{
		PageSize:     "Letter",
		Orientation:  "portrait",
		Margins:      config.MarginsConfig{Top: "1in", Right: "1in", Bottom: "1in", Left: "1in"},
		Axis:         "up",
		DefaultStyle: style.DefaultStyleName,
		Jumplines:    true,
	}
}

type builder struct {
	log  *zap.Logger
	root *zap.Logger
	cfg  *config.DocumentConfig
	dir  string
	desc *Description

	sheet     *style.Stylesheet
	fonts     *fonts.Registry
	pageRules []css.PageRule
	loaded    map[string]bool
	sources   []string

	ctx        *design.Context
	doc        *page.Document
	elements   map[string]content.Element
	containers map[string]*layout.Container
}

func (b *builder) build() (*Result, error) {
	if err := b.loadStyles(); err != nil {
		return nil, err
	}
	if err := b.registerFonts(); err != nil {
		return nil, err
	}

	axis, opts, err := b.pageSetup()
	if err != nil {
		return nil, err
	}
	defaultStyle := b.cfg.DefaultStyle
	if b.desc.DefaultStyle != "" {
		defaultStyle = b.desc.DefaultStyle
	}
	if _, err := b.sheet.Get(defaultStyle, false); err != nil {
		return nil, fmt.Errorf("default style: %w", err)
	}

	b.doc = page.NewDocument(b.root, append(opts, page.WithAxis(axis))...)
	b.ctx = design.New(b.root,
		design.WithStylesheet(b.sheet),
		design.WithDefaultStyle(defaultStyle),
		design.WithPages(b.doc),
		design.WithFonts(b.fonts),
		design.WithAxis(axis),
	)

	pages := max(b.desc.Pages, 1)
	for _, cs := range b.desc.Containers {
		pages = max(pages, cs.Page)
	}
	for range pages {
		b.doc.AddPage()
	}

	for _, cs := range b.desc.Containers {
		if err := b.container(cs); err != nil {
			return nil, err
		}
	}
	n := b.doc.ResolveEdges()

	res := &Result{Name: b.desc.Name, Context: b.ctx, Document: b.doc}
	for _, ss := range b.desc.Stories {
		s, err := b.story(ss)
		if err != nil {
			return nil, err
		}
		res.Stories = append(res.Stories, s)
	}
	res.Sources = b.sources

	b.log.Debug("Document built",
		zap.String("name", res.Name),
		zap.Int("pages", b.doc.Len()),
		zap.Int("containers", len(b.containers)),
		zap.Int("stories", len(res.Stories)),
		zap.Int("resolved", n))
	return res, nil
}

// resolve makes path relative to dir absolute.
func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// LoadStylesheets merges CSS files into the default stylesheet the same
// way descriptions do, imports included.
func LoadStylesheets(log *zap.Logger, paths ...string) (*style.Stylesheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{log: log.Named("docfile"), root: log, loaded: make(map[string]bool)}
	b.sheet = style.Default()
	b.fonts = fonts.NewRegistry(log)
	for _, path := range paths {
		if err := b.loadCSS(path); err != nil {
			return nil, err
		}
	}
	return b.sheet, nil
}

func (b *builder) loadStyles() error {
	b.sheet = style.Default()
	b.fonts = fonts.NewRegistry(b.root)
	if b.cfg.StylesheetPath != "" {
		if err := b.loadCSS(b.cfg.StylesheetPath); err != nil {
			return err
		}
	}
	if b.desc.Stylesheet != "" {
		if err := b.loadCSS(resolve(b.dir, b.desc.Stylesheet)); err != nil {
			return err
		}
	}
	return nil
}

// loadCSS merges stylesheet file, imported files first. Every file is
// loaded once, so import cycles end.
func (b *builder) loadCSS(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if b.loaded[path] {
		return nil
	}
	b.loaded[path] = true

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: unable to read stylesheet: %w", common.ErrConfiguration, err)
	}
	b.sources = append(b.sources, path)

	sheet := css.NewParser(b.root).Parse(data, path)
	for _, w := range sheet.Warnings {
		b.log.Warn("Stylesheet", zap.String("file", path), zap.String("warning", w))
	}

	dir := filepath.Dir(path)
	for _, u := range sheet.Imports() {
		if strings.Contains(u, "://") {
			b.log.Warn("Remote stylesheet ignored", zap.String("file", path), zap.String("url", u))
			continue
		}
		if err := b.loadCSS(resolve(dir, filepath.FromSlash(u))); err != nil {
			return fmt.Errorf("stylesheet %q: %w", path, err)
		}
	}
	if err := b.fonts.RegisterCSS(sheet.FontFaces(), dir); err != nil {
		return fmt.Errorf("stylesheet %q: %w", path, err)
	}
	if err := b.sheet.LoadCSS(sheet, b.root); err != nil {
		return fmt.Errorf("stylesheet %q: %w", path, err)
	}
	b.pageRules = append(b.pageRules, sheet.Pages()...)
	return nil
}

func (b *builder) registerFonts() error {
	var errs []error
	for _, fs := range b.desc.Fonts {
		defs := make([]fonts.Definition, 0, len(fs.Fonts))
		for _, d := range fs.Fonts {
			d.Path = resolve(b.dir, d.Path)
			defs = append(defs, d)
		}
		errs = append(errs, b.fonts.RegisterFamily(fs.Family, defs...))
	}
	return errors.Join(errs...)
}

func (b *builder) container(cs ContainerSpec) error {
	if _, exists := b.containers[cs.Name]; exists {
		return fmt.Errorf("%w: container %q defined more than once", common.ErrConflict, cs.Name)
	}

	var opts []layout.ContainerOption
	if cs.Anchor != "" {
		a, err := geometry.ParseAnchor(cs.Anchor)
		if err != nil {
			return fmt.Errorf("container %q: %w", cs.Name, err)
		}
		opts = append(opts, layout.WithAnchor(a))
	}
	if cs.Style != "" {
		opts = append(opts, layout.WithStyle(design.StyleNamed(cs.Style)))
	}
	if len(cs.At) == 2 {
		opts = append(opts, layout.WithAnchorCoordinate(float64(cs.At[0]), float64(cs.At[1])))
	}
	if len(cs.Corners) > 0 {
		points := make([]vec.Vec2, 0, len(cs.Corners))
		for _, pt := range cs.Corners {
			points = append(points, vec.Vec2{X: float64(pt[0]), Y: float64(pt[1])})
		}
		opts = append(opts, layout.WithTransformCoordinates(points...))
	}
	if w, ok := cs.Width.Points(); ok {
		opts = append(opts, layout.WithWidth(w))
	}
	if h, ok := cs.Height.Points(); ok {
		opts = append(opts, layout.WithHeight(h))
	}
	if cs.Layer != 0 {
		opts = append(opts, layout.WithLayer(cs.Layer))
	}

	c, err := layout.NewContainer(b.ctx, cs.Name, opts...)
	if err != nil {
		return err
	}
	// content capacity depends on the page, so place first
	if err := b.doc.Place(c, max(cs.Page, 1)); err != nil {
		return fmt.Errorf("container %q: %w", cs.Name, err)
	}
	for _, es := range cs.Content {
		e, err := b.element(es)
		if err != nil {
			return fmt.Errorf("container %q: %w", cs.Name, err)
		}
		if _, exists := b.elements[e.Name()]; exists {
			return fmt.Errorf("%w: container %q: content element %q defined more than once",
				common.ErrConflict, cs.Name, e.Name())
		}
		if err := c.AddContentElement(e); err != nil {
			return err
		}
		b.elements[e.Name()] = e
	}
	b.containers[cs.Name] = c
	return nil
}

func (b *builder) element(es ElementSpec) (content.Element, error) {
	switch {
	case es.Ref != "":
		e, ok := b.elements[es.Ref]
		if !ok {
			return nil, fmt.Errorf("%w: no content element named %q", common.ErrNotFound, es.Ref)
		}
		return e, nil
	case es.Paragraph != nil:
		p := es.Paragraph
		return content.NewParagraph(b.ctx, p.Name, p.Text,
			content.WithStyle(design.StyleNamed(p.Style)),
			content.WithBullet(p.Bullet),
			content.WithAlignment(p.Alignment))
	case es.Image != nil:
		img := es.Image
		path := resolve(b.dir, img.Path)
		w, _ := img.Width.Points()
		h, _ := img.Height.Points()
		e, err := content.LoadImage(b.ctx, img.Name, path,
			content.WithStyle(design.StyleNamed(img.Style)),
			content.WithDPI(img.DPI),
			content.WithSize(w, h))
		if err != nil {
			return nil, err
		}
		b.sources = append(b.sources, path)
		return e, nil
	case es.Spacer != nil:
		sp := es.Spacer
		return content.NewSpacer(b.ctx, sp.Name, float64(sp.Height), content.WithStyle(design.StyleNamed(sp.Style)))
	}
	return nil, fmt.Errorf("%w: empty content entry", common.ErrConfiguration)
}

func (b *builder) story(ss StorySpec) (*layout.Story, error) {
	cs := make([]*layout.Container, 0, len(ss.Containers))
	for _, name := range ss.Containers {
		c, ok := b.containers[name]
		if !ok {
			return nil, fmt.Errorf("%w: story %q: no container named %q", common.ErrNotFound, ss.Name, name)
		}
		cs = append(cs, c)
	}
	jumplines := b.cfg.Jumplines
	if ss.Jumplines != nil {
		jumplines = *ss.Jumplines
	}

	s, err := layout.NewStory(b.ctx, ss.Name, layout.WithContainers(cs...), layout.WithJumplines(jumplines))
	if err != nil {
		return nil, err
	}

	var policy []layout.AddOption
	switch ss.OnDuplicate {
	case "overwrite":
		policy = append(policy, layout.WithOverwrite(true))
	case "fail":
		policy = append(policy, layout.WithDuplicate(false))
	}
	for _, es := range ss.Content {
		e, err := b.element(es)
		if err != nil {
			return nil, fmt.Errorf("story %q: %w", ss.Name, err)
		}
		if err := s.AddContentElement(e, policy...); err != nil {
			return nil, err
		}
	}
	return s, nil
}
