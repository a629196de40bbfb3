// Package style defines paragraph styles, the table of style properties they
// carry, and stylesheets grouping styles under identifier-normalized names.
package style

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pdfdesigner/common"
)

// Kind is the value domain of a style property.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindChoice
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	case KindColor:
		return "color"
	default:
		return "string"
	}
}

// Property describes a single style property.
type Property struct {
	// Name used in designs, e.g. "font_size".
	Name string
	// Renderer is the key the external renderer expects, empty when the
	// property is consumed by layout only.
	Renderer string
	Kind     Kind
	Default  any
	// Choices lists allowed values of KindChoice properties, upper case.
	Choices []string
	// Nullable properties accept nil.
	Nullable bool
	// Convert transforms the value handed to the renderer.
	Convert func(any) any
}

// CSSName returns the vendor CSS property name, e.g. "-pdf-font-size".
func (p Property) CSSName() string {
	return "-pdf-" + strings.ReplaceAll(p.Name, "_", "-")
}

var colorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|[A-Za-z]+)$`)

// Validate checks v against property domain and returns normalized value:
// numbers become float64, choices become upper case.
func (p Property) Validate(v any) (any, error) {
	if v == nil {
		if p.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: property %s cannot be empty", common.ErrType, p.Name)
	}

	switch p.Kind {
	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindChoice:
		if s, ok := v.(string); ok {
			u := strings.ToUpper(s)
			if slices.Contains(p.Choices, u) {
				return u, nil
			}
			return nil, fmt.Errorf("%w: property %s value %q is not one of [%s]", common.ErrType, p.Name, s, strings.Join(p.Choices, ", "))
		}
	case KindColor:
		if s, ok := v.(string); ok && colorRe.MatchString(s) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: property %s expects %s, got %T (%v)", common.ErrType, p.Name, p.Kind, v, v)
}

func lowercase(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}

const baseFontName = "Helvetica"

var properties = []Property{
	{Name: "font_name", Renderer: "fontName", Kind: KindString, Default: baseFontName},
	{Name: "font_size", Renderer: "fontSize", Kind: KindNumber, Default: 10.0},
	{Name: "leading", Renderer: "leading", Kind: KindNumber, Default: 12.0},
	{Name: "left_indent", Renderer: "leftIndent", Kind: KindNumber, Default: 0.0},
	{Name: "right_indent", Renderer: "rightIndent", Kind: KindNumber, Default: 0.0},
	{Name: "first_line_indent", Renderer: "firstLineIndent", Kind: KindNumber, Default: 0.0},
	{Name: "alignment", Renderer: "alignment", Kind: KindChoice, Default: "LEFT", Choices: []string{"LEFT", "CENTER", "RIGHT", "JUSTIFY"}},
	{Name: "space_before", Renderer: "spaceBefore", Kind: KindNumber, Default: 0.0},
	{Name: "space_after", Renderer: "spaceAfter", Kind: KindNumber, Default: 0.0},
	{Name: "bullet_font_name", Renderer: "bulletFontName", Kind: KindString, Default: baseFontName},
	{Name: "bullet_font_size", Renderer: "bulletFontSize", Kind: KindNumber, Default: 10.0},
	{Name: "bullet_indent", Renderer: "bulletIndent", Kind: KindNumber, Default: 0.0},
	{Name: "bullet_color", Renderer: "bulletColor", Kind: KindColor, Default: "BLACK", Nullable: true},
	{Name: "bullet_offset_y", Renderer: "bulletOffsetY", Kind: KindNumber, Default: 0.0},
	{Name: "bullet_direction", Renderer: "bulletDir", Kind: KindChoice, Default: "LTR", Choices: []string{"LTR", "RTL", "CJK"}},
	{Name: "bullet_dedent", Renderer: "bulletDedent", Kind: KindChoice, Default: "AUTO", Choices: []string{"AUTO"}, Convert: lowercase},
	{Name: "bullet_start", Renderer: "bulletStart", Kind: KindString, Nullable: true},
	{Name: "text_color", Renderer: "textColor", Kind: KindColor, Default: "BLACK", Nullable: true},
	{Name: "background_color", Renderer: "backColor", Kind: KindColor, Nullable: true},
	{Name: "word_wrap", Renderer: "wordWrap", Kind: KindChoice, Choices: []string{"CJK", "LTR", "RTL"}, Nullable: true},
	{Name: "border_width", Renderer: "borderWidth", Kind: KindNumber, Default: 0.0},
	{Name: "border_padding", Renderer: "borderPadding", Kind: KindNumber, Default: 0.0},
	{Name: "border_color", Renderer: "borderColor", Kind: KindColor, Nullable: true},
	{Name: "border_radius", Renderer: "borderRadius", Kind: KindNumber, Default: 0.0},
	{Name: "allow_widows", Renderer: "allowWidows", Kind: KindBool, Default: true},
	{Name: "allow_orphans", Renderer: "allowOrphans", Kind: KindBool, Default: false},
	{Name: "text_transformation", Renderer: "textTransform", Kind: KindChoice, Choices: []string{"UPPERCASE", "LOWERCASE"}, Nullable: true, Convert: lowercase},
	{Name: "split_long_words", Renderer: "splitLongWords", Kind: KindBool, Default: true},
	{Name: "underline_proportion", Renderer: "underlineProportion", Kind: KindNumber, Default: 0.0},
	{Name: "bullet_anchor", Renderer: "bulletAnchor", Kind: KindChoice, Default: "START", Choices: []string{"START", "MIDDLE", "END"}, Convert: lowercase},
	{Name: "justify_last_line", Renderer: "justifyLastLine", Kind: KindBool, Default: false},
	{Name: "justify_line_breaks", Renderer: "justifyBreaks", Kind: KindBool, Default: false},
	{Name: "space_shrinkage", Renderer: "spaceShrinkage", Kind: KindNumber, Default: 0.05},
	{Name: "rule_above_thickness", Kind: KindNumber, Default: 0.0},
	{Name: "rule_above_color", Kind: KindColor, Nullable: true},
	{Name: "rule_above_padding", Kind: KindNumber, Default: 12.0},
	{Name: "rule_below_thickness", Kind: KindNumber, Default: 0.0},
	{Name: "rule_below_color", Kind: KindColor, Nullable: true},
	{Name: "rule_below_padding", Kind: KindNumber, Default: 12.0},
	{Name: "keep_together", Kind: KindBool, Default: false},
}

var propertyIndex = func() map[string]int {
	idx := make(map[string]int, len(properties))
	for i, p := range properties {
		idx[p.Name] = i
	}
	return idx
}()

func normalizePropertyName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// LookupProperty finds property by name, case insensitive, dashes and
// underscores are interchangeable.
func LookupProperty(name string) (Property, bool) {
	i, ok := propertyIndex[normalizePropertyName(name)]
	if !ok {
		return Property{}, false
	}
	return properties[i], true
}

// Properties returns all known properties in table order.
func Properties() []Property {
	return slices.Clone(properties)
}
