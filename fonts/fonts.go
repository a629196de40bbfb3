// Package fonts keeps TrueType/OpenType font definitions grouped into
// families the external renderer registers before drawing.
package fonts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/css"
)

// Variant is the face a font file contains within its family.
type Variant int

const (
	Normal Variant = iota
	Bold
	Italic
	BoldItalic
)

var variantNames = [...]string{"normal", "bold", "italic", "bold-italic"}

func (v Variant) IsValid() bool { return v >= Normal && v <= BoldItalic }

func (v Variant) String() string {
	if !v.IsValid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// RendererKey returns the key renderer uses when registering font family.
func (v Variant) RendererKey() string {
	if v == BoldItalic {
		return "boldItalic"
	}
	return v.String()
}

// ParseVariant accepts "bold-italic", "BOLD_ITALIC", "boldItalic" and alike.
func ParseVariant(s string) (Variant, error) {
	n := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range variantNames {
		if strings.ReplaceAll(name, "-", "") == n {
			return Variant(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: unknown font variant %q", common.ErrType, s)
}

func (v Variant) MarshalText() ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: invalid font variant %d", common.ErrType, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) (err error) {
	*v, err = ParseVariant(string(text))
	return err
}

// variantFromCSS maps @font-face font-style and font-weight descriptors.
func variantFromCSS(style, weight string) Variant {
	italic := style == "italic" || style == "oblique"
	bold := weight == "bold" || weight == "bolder"
	if n, err := strconv.Atoi(weight); err == nil {
		bold = n >= 600
	}
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Normal
}

// Definition describes single font file.
type Definition struct {
	Name    string  `yaml:"name"`
	Path    string  `yaml:"path"`
	Variant Variant `yaml:"variant"`
}

// Family is a set of definitions, at most one per variant.
type Family struct {
	Name  string
	Fonts map[Variant]Definition
}

// RendererProperties returns font names keyed by renderer variant keys.
func (f *Family) RendererProperties() map[string]string {
	out := make(map[string]string, len(f.Fonts))
	for v, d := range f.Fonts {
		out[v.RendererKey()] = d.Name
	}
	return out
}

// Definitions returns family members in variant order.
func (f *Family) Definitions() []Definition {
	out := make([]Definition, 0, len(f.Fonts))
	for v := Normal; v <= BoldItalic; v++ {
		if d, ok := f.Fonts[v]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Registry holds registered font families.
type Registry struct {
	families map[string]*Family
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{families: make(map[string]*Family), log: log.Named("fonts")}
}

// RegisterFamily validates definitions and registers them as family,
// replacing previously registered family with the same name.
func (r *Registry) RegisterFamily(family string, defs ...Definition) error {
	if strings.TrimSpace(family) == "" {
		return fmt.Errorf("%w: font family name is empty", common.ErrConfiguration)
	}
	if len(defs) == 0 {
		return fmt.Errorf("%w: font family %q has no fonts", common.ErrConfiguration, family)
	}

	f := &Family{Name: family, Fonts: make(map[Variant]Definition, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("%w: font family %q: font name is empty", common.ErrConfiguration, family)
		}
		if !d.Variant.IsValid() {
			return fmt.Errorf("%w: font %q: invalid variant %d", common.ErrType, d.Name, int(d.Variant))
		}
		if err := checkFontFile(d.Path); err != nil {
			return fmt.Errorf("font %q: %w", d.Name, err)
		}
		if prev, exists := f.Fonts[d.Variant]; exists {
			return fmt.Errorf("%w: font family %q: %s variant defined by both %q and %q",
				common.ErrConflict, family, d.Variant, prev.Name, d.Name)
		}
		f.Fonts[d.Variant] = d
	}

	if _, exists := r.families[family]; exists {
		r.log.Warn("Replacing font family", zap.String("family", family))
	}
	r.families[family] = f
	r.log.Debug("Font family registered", zap.String("family", family), zap.Int("fonts", len(f.Fonts)))
	return nil
}

// RegisterCSS registers @font-face declarations grouped by font family.
// Relative sources are resolved against baseDir. Font name is derived from
// source file name.
func (r *Registry) RegisterCSS(faces []css.FontFace, baseDir string) error {
	grouped := make(map[string][]Definition)
	var order []string
	for _, ff := range faces {
		src := ff.URL()
		if src == "" {
			return fmt.Errorf("%w: @font-face %q has no usable src", common.ErrConfiguration, ff.Family)
		}
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, filepath.FromSlash(src))
		}
		if _, seen := grouped[ff.Family]; !seen {
			order = append(order, ff.Family)
		}
		grouped[ff.Family] = append(grouped[ff.Family], Definition{
			Name:    strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
			Path:    src,
			Variant: variantFromCSS(ff.Style, ff.Weight),
		})
	}

	var errs []error
	for _, family := range order {
		errs = append(errs, r.RegisterFamily(family, grouped[family]...))
	}
	return errors.Join(errs...)
}

// Family returns registered family.
func (r *Registry) Family(name string) (*Family, bool) {
	f, ok := r.families[name]
	return f, ok
}

// Families returns registered family names in natural order.
func (r *Registry) Families() []string {
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return names
}

func checkFontFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: unable to open font file: %w", common.ErrConfiguration, err)
	}
	defer f.Close()

	// enough for any matcher
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unable to read font file: %w", common.ErrConfiguration, err)
	}
	head = head[:n]

	if filetype.Is(head, "ttf") || filetype.Is(head, "otf") {
		return nil
	}
	kind, _ := filetype.Match(head)
	return fmt.Errorf("%w: %s is not a TrueType or OpenType font (detected %q)", common.ErrType, path, kind.Extension)
}
