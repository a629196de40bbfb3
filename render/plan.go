// Package render produces page map handed over to PDF renderer: resolved
// geometry of every container together with renderer style properties and
// content, and keeps produced maps in a plan store.
package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/rect"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/layout"
	"pdfdesigner/page"
)

// Plan is the page map. Settings are renderer wide properties keyed by
// renderer names.
type Plan struct {
	ID       string         `yaml:"id" ion:"id"`
	Name     string         `yaml:"name" ion:"name"`
	Axis     string         `yaml:"axis" ion:"axis"`
	Settings map[string]any `yaml:"settings,omitempty" ion:"settings,omitempty"`
	Pages    []PagePlan     `yaml:"pages" ion:"pages"`
	Stories  []StoryPlan    `yaml:"stories,omitempty" ion:"stories,omitempty"`
}

// Rect is PDF rectangle with normalized corners.
type Rect struct {
	LLx float64 `yaml:"llx" ion:"llx"`
	LLy float64 `yaml:"lly" ion:"lly"`
	URx float64 `yaml:"urx" ion:"urx"`
	URy float64 `yaml:"ury" ion:"ury"`
}

func fromRect(r rect.Rect) Rect {
	return Rect{LLx: r.LLx, LLy: r.LLy, URx: r.URx, URy: r.URy}
}

type PagePlan struct {
	Number      int             `yaml:"number" ion:"number"`
	Size        string          `yaml:"size" ion:"size"`
	Orientation string          `yaml:"orientation" ion:"orientation"`
	MediaBox    Rect            `yaml:"media_box" ion:"media_box"`
	LiveArea    Rect            `yaml:"live_area" ion:"live_area"`
	Containers  []ContainerPlan `yaml:"containers,omitempty" ion:"containers,omitempty"`
}

// ContainerPlan describes container, Box is nil when some edge is still
// unresolved.
type ContainerPlan struct {
	ID         string         `yaml:"id" ion:"id"`
	Name       string         `yaml:"name" ion:"name"`
	Layer      int            `yaml:"layer" ion:"layer"`
	Anchor     string         `yaml:"anchor" ion:"anchor"`
	Box        *Rect          `yaml:"box,omitempty" ion:"box,omitempty"`
	Style      string         `yaml:"style" ion:"style"`
	Properties map[string]any `yaml:"properties,omitempty" ion:"properties,omitempty"`
	Elements   []ElementPlan  `yaml:"elements,omitempty" ion:"elements,omitempty"`
}

type ElementPlan struct {
	ID          string  `yaml:"id" ion:"id"`
	Name        string  `yaml:"name" ion:"name"`
	Kind        string  `yaml:"kind" ion:"kind"`
	Style       string  `yaml:"style,omitempty" ion:"style,omitempty"`
	Flowable    bool    `yaml:"flowable" ion:"flowable"`
	Text        string  `yaml:"text,omitempty" ion:"text,omitempty"`
	Bullet      string  `yaml:"bullet,omitempty" ion:"bullet,omitempty"`
	Source      string  `yaml:"source,omitempty" ion:"source,omitempty"`
	Format      string  `yaml:"format,omitempty" ion:"format,omitempty"`
	Width       float64 `yaml:"width,omitempty" ion:"width,omitempty"`
	Height      float64 `yaml:"height,omitempty" ion:"height,omitempty"`
	DuplicateOf string  `yaml:"duplicate_of,omitempty" ion:"duplicate_of,omitempty"`
}

type StoryPlan struct {
	ID         string         `yaml:"id" ion:"id"`
	Name       string         `yaml:"name" ion:"name"`
	Containers []string       `yaml:"containers,omitempty" ion:"containers,omitempty"`
	Pages      []int          `yaml:"pages,omitempty" ion:"pages,omitempty"`
	Jumplines  []JumplinePlan `yaml:"jumplines,omitempty" ion:"jumplines,omitempty"`
	Elements   []ElementPlan  `yaml:"elements,omitempty" ion:"elements,omitempty"`
}

type JumplinePlan struct {
	Container   string `yaml:"container" ion:"container"`
	ContinuedOn int    `yaml:"continued_on" ion:"continued_on"`
}

// Build collects page map of the document. Containers on a page are
// ordered by layer, placement order is kept within a layer.
func Build(name string, doc *page.Document, stories ...*layout.Story) (*Plan, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document to build page map from", common.ErrConfiguration)
	}
	p := &Plan{
		ID:   uuid.Must(uuid.NewV7()).String(),
		Name: name,
		Axis: doc.Axis().String(),
	}
	for _, pg := range doc.Pages() {
		live, _ := pg.LiveArea().Rect()
		pp := PagePlan{
			Number:      pg.Number(),
			Size:        pg.Size().Name,
			Orientation: pg.Orientation().String(),
			MediaBox:    fromRect(pg.MediaBox()),
			LiveArea:    fromRect(live),
		}
		cs := pg.Containers()
		slices.SortStableFunc(cs, func(a, b *layout.Container) int { return cmp.Compare(a.Layer(), b.Layer()) })
		for _, c := range cs {
			pp.Containers = append(pp.Containers, containerPlan(c))
		}
		p.Pages = append(p.Pages, pp)
	}
	for _, s := range stories {
		if s == nil {
			return nil, fmt.Errorf("%w: nil story", common.ErrType)
		}
		p.Stories = append(p.Stories, storyPlan(s))
	}
	return p, nil
}

func containerPlan(c *layout.Container) ContainerPlan {
	cp := ContainerPlan{
		ID:         c.ID().String(),
		Name:       c.Name(),
		Layer:      c.Layer(),
		Anchor:     c.Anchor().String(),
		Style:      c.Style().Name(),
		Properties: c.Style().RendererProperties(),
	}
	if r, ok := c.Box().Rect(); ok {
		box := fromRect(r)
		cp.Box = &box
	}
	for _, e := range c.Elements() {
		cp.Elements = append(cp.Elements, elementPlan(e))
	}
	return cp
}

func storyPlan(s *layout.Story) StoryPlan {
	sp := StoryPlan{ID: s.ID().String(), Name: s.Name()}
	for _, c := range s.Containers() {
		sp.Containers = append(sp.Containers, c.Name())
		if n, ok := s.PageOf(c); ok && !slices.Contains(sp.Pages, n) {
			sp.Pages = append(sp.Pages, n)
		}
	}
	for _, j := range s.Jumplines() {
		sp.Jumplines = append(sp.Jumplines, JumplinePlan{Container: j.Container.Name(), ContinuedOn: j.ContinuedOn})
	}
	for _, e := range s.Elements() {
		sp.Elements = append(sp.Elements, elementPlan(e))
	}
	return sp
}

func elementPlan(e content.Element) ElementPlan {
	ep := ElementPlan{
		ID:       e.ID().String(),
		Name:     e.Name(),
		Flowable: e.IsFlowable(),
	}
	if s := e.Style(); s != nil {
		ep.Style = s.Name()
	}
	if layout.IsDuplicate(e) {
		ep.DuplicateOf = layout.Unwrap(e).ID().String()
	}
	switch v := layout.Unwrap(e).(type) {
	case *content.Paragraph:
		ep.Kind = "paragraph"
		ep.Text = v.Text()
		ep.Bullet = v.Bullet()
	case *content.Image:
		ep.Kind = "image"
		ep.Source = v.Source()
		ep.Format = v.Info().Format
		ep.Width, ep.Height = v.Size()
	case *content.Spacer:
		ep.Kind = "spacer"
		ep.Height = v.Height()
	default:
		ep.Kind = fmt.Sprintf("%T", v)
	}
	return ep
}
