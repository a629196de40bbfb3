package style

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gosimple/slug"

	"pdfdesigner/common"
)

// Identifier normalizes style name so that "Heading 1", "heading1" and
// "HEADING_1" refer to the same style.
func Identifier(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(slug.Make(name))
}

// Style is a named set of property values.
type Style struct {
	name    string
	basedOn string
	props   map[string]any
}

// Option configures Style on creation.
type Option func(*Style) error

// With sets property value.
func With(name string, value any) Option {
	return func(s *Style) error {
		return s.Set(name, value)
	}
}

// BasedOn copies all property values of base. Put it before any With
// option, otherwise it overwrites them.
func BasedOn(base *Style) Option {
	return func(s *Style) error {
		if base == nil {
			return fmt.Errorf("%w: style %q based on nothing", common.ErrConfiguration, s.name)
		}
		s.basedOn = base.name
		maps.Copy(s.props, base.props)
		return nil
	}
}

func defaults() map[string]any {
	props := make(map[string]any, len(properties))
	for _, p := range properties {
		props[p.Name] = p.Default
	}
	return props
}

// New creates style with default property values, modified by options.
func New(name string, opts ...Option) (*Style, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: style name is empty", common.ErrConfiguration)
	}
	s := &Style{name: name, props: defaults()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("style %q: %w", name, err)
		}
	}
	return s, nil
}

// MustNew is New for statically known styles, panics on error.
func MustNew(name string, opts ...Option) *Style {
	s, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromStyle returns new style with properties copied from base.
func FromStyle(name string, base *Style) (*Style, error) {
	return New(name, BasedOn(base))
}

func (s *Style) Name() string           { return s.name }
func (s *Style) BasedOnName() string    { return s.basedOn }
func (s *Style) IdentifierName() string { return Identifier(s.name) }

// Clone returns independent copy of the style under new name.
func (s *Style) Clone(name string) *Style {
	return &Style{name: name, basedOn: s.basedOn, props: maps.Clone(s.props)}
}

// Set validates and stores property value.
func (s *Style) Set(name string, value any) error {
	p, ok := LookupProperty(name)
	if !ok {
		return fmt.Errorf("%w: unknown style property %q", common.ErrNotFound, name)
	}
	v, err := p.Validate(value)
	if err != nil {
		return err
	}
	s.props[p.Name] = v
	return nil
}

// Get returns property value.
func (s *Style) Get(name string) (any, error) {
	p, ok := LookupProperty(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown style property %q", common.ErrNotFound, name)
	}
	return s.props[p.Name], nil
}

func (s *Style) number(name string) float64 {
	f, _ := s.props[name].(float64)
	return f
}

func (s *Style) flag(name string) bool {
	b, _ := s.props[name].(bool)
	return b
}

func (s *Style) text(name string) string {
	str, _ := s.props[name].(string)
	return str
}

func (s *Style) FontName() string         { return s.text("font_name") }
func (s *Style) FontSize() float64        { return s.number("font_size") }
func (s *Style) Leading() float64         { return s.number("leading") }
func (s *Style) LeftIndent() float64      { return s.number("left_indent") }
func (s *Style) RightIndent() float64     { return s.number("right_indent") }
func (s *Style) FirstLineIndent() float64 { return s.number("first_line_indent") }
func (s *Style) SpaceBefore() float64     { return s.number("space_before") }
func (s *Style) SpaceAfter() float64      { return s.number("space_after") }
func (s *Style) Alignment() string        { return s.text("alignment") }
func (s *Style) TextColor() string        { return s.text("text_color") }
func (s *Style) AllowWidows() bool        { return s.flag("allow_widows") }
func (s *Style) AllowOrphans() bool       { return s.flag("allow_orphans") }

// TextTransformation returns "UPPERCASE", "LOWERCASE" or empty string.
func (s *Style) TextTransformation() string { return s.text("text_transformation") }

// KeepTogether reports whether content using this style must not be split
// between containers.
func (s *Style) KeepTogether() bool { return s.flag("keep_together") }

// Properties returns copy of all property values keyed by property name.
func (s *Style) Properties() map[string]any {
	return maps.Clone(s.props)
}

// Overrides returns names of properties whose values differ from the
// defaults, in table order.
func (s *Style) Overrides() []string {
	var names []string
	for _, p := range properties {
		if s.props[p.Name] != p.Default {
			names = append(names, p.Name)
		}
	}
	return names
}

// RendererProperties returns property values keyed by renderer names,
// converted where renderer expects it. Layout only properties are skipped.
func (s *Style) RendererProperties() map[string]any {
	out := make(map[string]any, len(properties))
	for _, p := range properties {
		if p.Renderer == "" {
			continue
		}
		v := s.props[p.Name]
		if p.Convert != nil && v != nil {
			v = p.Convert(v)
		}
		out[p.Renderer] = v
	}
	return out
}

func (s *Style) String() string {
	var sb strings.Builder
	sb.WriteString("Style(" + s.name)
	if s.basedOn != "" {
		sb.WriteString(", based on " + s.basedOn)
	}
	names := s.Overrides()
	slices.Sort(names)
	for _, n := range names {
		fmt.Fprintf(&sb, ", %s=%v", n, s.props[n])
	}
	sb.WriteString(")")
	return sb.String()
}
