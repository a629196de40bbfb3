package style

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/css"
	"pdfdesigner/units"
)

// Medium is the CSS media type page layout evaluates @media blocks against.
const Medium = "print"

const basedOnProperty = "-pdf-based-on"

// LoadCSS merges rules of parsed CSS into the stylesheet. Each rule selects
// a style by its class or element name. Missing styles are created based on
// the style named by "-pdf-based-on" or on the default style. Later rules
// override earlier ones. All invalid declarations are reported together,
// valid ones are applied regardless.
func (ss *Stylesheet) LoadCSS(sheet *css.Stylesheet, log *zap.Logger) (err error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("styles")

	for _, rule := range sheet.Rules(Medium) {
		name := rule.Selector.Name()

		s, _ := ss.Get(name, true)
		if s == nil {
			base, e := ss.cssBase(rule)
			if e != nil {
				err = multierr.Append(err, e)
				continue
			}
			if base != nil {
				s = base.Clone(name)
				s.basedOn = base.name
			} else {
				s = MustNew(name)
			}
			log.Debug("New style from CSS", zap.String("style", name), zap.String("based on", s.basedOn))
		}

		// font size first: em and percent units of other properties depend on it
		if v, ok := rule.Property("font-size"); ok {
			err = multierr.Append(err, applyCSS(s, "font-size", v))
		}
		for prop, v := range rule.Properties {
			if prop == "font-size" || prop == basedOnProperty {
				continue
			}
			err = multierr.Append(err, applyCSS(s, prop, v))
		}
		ss.put(s)
	}
	return err
}

func (ss *Stylesheet) cssBase(rule css.Rule) (*Style, error) {
	if v, ok := rule.Property(basedOnProperty); ok {
		base, err := ss.Get(v.Keyword, false)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", rule.Selector.Raw, err)
		}
		return base, nil
	}
	base, _ := ss.Get(DefaultStyleName, true)
	return base, nil
}

// standard CSS properties understood in addition to "-pdf-" ones
var cssAliases = map[string]string{
	"font-family":       "font_name",
	"font-size":         "font_size",
	"line-height":       "leading",
	"text-align":        "alignment",
	"text-indent":       "first_line_indent",
	"margin-left":       "left_indent",
	"margin-right":      "right_indent",
	"margin-top":        "space_before",
	"margin-bottom":     "space_after",
	"color":             "text_color",
	"background-color":  "background_color",
	"border-width":      "border_width",
	"border-color":      "border_color",
	"border-radius":     "border_radius",
	"padding":           "border_padding",
	"text-transform":    "text_transformation",
	"break-inside":      "keep_together",
	"page-break-inside": "keep_together",
}

func applyCSS(s *Style, prop string, v css.Value) error {
	var (
		p  Property
		ok bool
	)
	if name, found := strings.CutPrefix(prop, "-pdf-"); found {
		p, ok = LookupProperty(name)
	} else if name, found := cssAliases[prop]; found {
		p, ok = LookupProperty(name)
	} else {
		// not ours, browsers' leftovers are fine
		return nil
	}
	if !ok {
		return fmt.Errorf("style %q: %w: unknown property %q", s.name, common.ErrNotFound, prop)
	}

	val, err := cssValue(s, p, prop, v)
	if err == nil {
		err = s.Set(p.Name, val)
	}
	if err != nil {
		return fmt.Errorf("style %q, property %s: %w", s.name, prop, err)
	}
	return nil
}

func cssValue(s *Style, p Property, prop string, v css.Value) (any, error) {
	if p.Nullable && v.Keyword == "none" {
		return nil, nil
	}

	switch prop {
	case "font-family":
		family, _, _ := strings.Cut(v.Raw, ",")
		return strings.Trim(strings.TrimSpace(family), `"'`), nil
	case "text-align":
		switch v.Keyword {
		case "start":
			return "LEFT", nil
		case "end":
			return "RIGHT", nil
		}
	case "line-height":
		if v.IsNumeric() && v.Unit == "" {
			return v.Value * s.FontSize(), nil
		}
	case "break-inside", "page-break-inside":
		return v.Keyword == "avoid", nil
	}

	switch p.Kind {
	case KindNumber:
		return cssLength(v, s.FontSize())
	case KindBool:
		switch v.Keyword {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		if v.IsNumeric() {
			return v.Value != 0, nil
		}
		return nil, fmt.Errorf("%w: %q is not a boolean", common.ErrType, v.Raw)
	default:
		// keywords are lowercased by the parser, font names are not
		return strings.Trim(strings.TrimSpace(v.Raw), `"'`), nil
	}
}

// cssLength converts CSS length to points, em and percent are relative to
// the font size.
func cssLength(v css.Value, fontSize float64) (float64, error) {
	if !v.IsNumeric() {
		return 0, fmt.Errorf("%w: %q is not a length", common.ErrType, v.Raw)
	}
	switch v.Unit {
	case "em":
		return v.Value * fontSize, nil
	case "%":
		return v.Value * fontSize / 100, nil
	}
	return units.FromUnit(v.Value, v.Unit)
}

// CSS renders the stylesheet as CSS which LoadCSS reads back: one class rule
// per style listing properties that differ from the defaults.
func (ss *Stylesheet) CSS() *css.Stylesheet {
	out := &css.Stylesheet{}
	for _, s := range ss.Styles() {
		props := make(map[string]css.Value)
		if s.basedOn != "" {
			props[basedOnProperty] = css.Value{Raw: strconv.Quote(s.basedOn), Keyword: s.basedOn}
		}
		for _, name := range s.Overrides() {
			p, _ := LookupProperty(name)
			props[p.CSSName()] = cssFormat(s.props[name])
		}
		id := s.IdentifierName()
		out.Items = append(out.Items, css.Item{Rule: &css.Rule{
			Selector:   css.Selector{Raw: "." + id, Class: id},
			Properties: props,
		}})
	}
	return out
}

func cssFormat(v any) css.Value {
	switch t := v.(type) {
	case nil:
		return css.Value{Raw: "none", Keyword: "none"}
	case float64:
		return css.Value{Raw: strconv.FormatFloat(t, 'f', -1, 64), Value: t}
	case bool:
		s := strconv.FormatBool(t)
		return css.Value{Raw: s, Keyword: s}
	case string:
		if strings.ContainsAny(t, " ,'\"") || t == "" {
			return css.Value{Raw: strconv.Quote(t), Keyword: t}
		}
		return css.Value{Raw: t, Keyword: t}
	}
	return css.Value{Raw: fmt.Sprint(v)}
}
