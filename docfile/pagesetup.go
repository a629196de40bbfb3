package docfile

import (
	"fmt"
	"strings"

	"pdfdesigner/common"
	"pdfdesigner/css"
	"pdfdesigner/geometry"
	"pdfdesigner/page"
	"pdfdesigner/units"
)

// pageSetup merges page settings: configuration first, then @page rules of
// stylesheets, then the description itself.
func (b *builder) pageSetup() (geometry.Axis, []page.Option, error) {
	axisName := b.cfg.Axis
	if b.desc.Axis != "" {
		axisName = b.desc.Axis
	}
	axis, err := geometry.ParseAxis(axisName)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}

	sizeName, orientName := b.cfg.PageSize, b.cfg.Orientation
	margins, err := configMargins(b.cfg.Margins.Top, b.cfg.Margins.Right, b.cfg.Margins.Bottom, b.cfg.Margins.Left)
	if err != nil {
		return 0, nil, err
	}

	for _, rule := range b.pageRules {
		if v, ok := rule.Properties["size"]; ok {
			for f := range strings.FieldsSeq(v.Raw) {
				switch strings.ToLower(f) {
				case "portrait", "landscape":
					orientName = f
				default:
					sizeName = f
				}
			}
		}
		if err := cssMargins(&margins, rule.Properties); err != nil {
			return 0, nil, fmt.Errorf("@page: %w", err)
		}
	}

	if b.desc.Page.Size != "" {
		sizeName = b.desc.Page.Size
	}
	if b.desc.Page.Orientation != "" {
		orientName = b.desc.Page.Orientation
	}
	if m := b.desc.Page.Margins; m != nil {
		for _, side := range []struct {
			l *Length
			v *float64
		}{{m.Top, &margins.Top}, {m.Right, &margins.Right}, {m.Bottom, &margins.Bottom}, {m.Left, &margins.Left}} {
			if pt, ok := side.l.Points(); ok {
				*side.v = pt
			}
		}
	}

	size, ok := units.LookupPageSize(sizeName)
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown page size %q, try [%s]",
			common.ErrConfiguration, sizeName, strings.Join(units.PageSizeNames(), ", "))
	}
	orientation, err := units.ParseOrientation(orientName)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return axis, []page.Option{
		page.WithPageSize(size),
		page.WithOrientation(orientation),
		page.WithMargins(margins),
	}, nil
}

func configMargins(top, right, bottom, left string) (page.Margins, error) {
	var m page.Margins
	for _, side := range []struct {
		s string
		v *float64
	}{{top, &m.Top}, {right, &m.Right}, {bottom, &m.Bottom}, {left, &m.Left}} {
		v, err := units.ParseLength(side.s)
		if err != nil {
			return m, fmt.Errorf("%w: page margins: %w", common.ErrConfiguration, err)
		}
		*side.v = v
	}
	return m, nil
}

// cssMargins applies margin shorthand (one to four lengths) and
// margin-<side> properties.
func cssMargins(m *page.Margins, props map[string]css.Value) error {
	if v, ok := props["margin"]; ok {
		var vals []float64
		for f := range strings.FieldsSeq(v.Raw) {
			pt, err := units.ParseLength(f)
			if err != nil {
				return fmt.Errorf("%w: margin: %w", common.ErrConfiguration, err)
			}
			vals = append(vals, pt)
		}
		switch len(vals) {
		case 1:
			*m = page.UniformMargins(vals[0])
		case 2:
			*m = page.Margins{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			*m = page.Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		case 4:
			*m = page.Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		default:
			return fmt.Errorf("%w: margin: bad value %q", common.ErrConfiguration, v.Raw)
		}
	}
	for name, dst := range map[string]*float64{
		"margin-top":    &m.Top,
		"margin-right":  &m.Right,
		"margin-bottom": &m.Bottom,
		"margin-left":   &m.Left,
	} {
		v, ok := props[name]
		if !ok {
			continue
		}
		pt, err := units.ParseLength(v.Raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", common.ErrConfiguration, name, err)
		}
		*dst = pt
	}
	return nil
}
