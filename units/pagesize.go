package units

import (
	"fmt"
	"slices"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// Orientation of the page.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation accepts "portrait" and "landscape" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("unknown page orientation %q", s)
}

// PageSize is a named media size in points, always stored in portrait form.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// Oriented returns page dimensions for requested orientation.
func (ps PageSize) Oriented(o Orientation) PageSize {
	w, h := min(ps.Width, ps.Height), max(ps.Width, ps.Height)
	if o == Landscape {
		w, h = h, w
	}
	return PageSize{Name: ps.Name, Width: w, Height: h}
}

// Rect returns media box with lower left corner at origin.
func (ps PageSize) Rect() rect.Rect {
	return rect.Rect{URx: ps.Width, URy: ps.Height}
}

func (ps PageSize) String() string {
	return fmt.Sprintf("%s (%gx%gpt)", ps.Name, ps.Width, ps.Height)
}

var (
	Letter      = PageSize{"Letter", 8.5 * Inch, 11 * Inch}
	Legal       = PageSize{"Legal", 8.5 * Inch, 14 * Inch}
	Tabloid     = PageSize{"Tabloid", 11 * Inch, 17 * Inch}
	JuniorLegal = PageSize{"JuniorLegal", 5 * Inch, 8 * Inch}
	Memo        = PageSize{"Memo", 5.5 * Inch, 8.5 * Inch}

	A0  = PageSize{"A0", 841 * MM, 1189 * MM}
	A1  = PageSize{"A1", 594 * MM, 841 * MM}
	A2  = PageSize{"A2", 420 * MM, 594 * MM}
	A3  = PageSize{"A3", 297 * MM, 420 * MM}
	A4  = PageSize{"A4", 210 * MM, 297 * MM}
	A5  = PageSize{"A5", 140 * MM, 210 * MM}
	A6  = PageSize{"A6", 105 * MM, 148 * MM}
	A7  = PageSize{"A7", 74 * MM, 105 * MM}
	A8  = PageSize{"A8", 52 * MM, 74 * MM}
	A9  = PageSize{"A9", 37 * MM, 52 * MM}
	A10 = PageSize{"A10", 26 * MM, 37 * MM}

	B0  = PageSize{"B0", 1000 * MM, 1414 * MM}
	B1  = PageSize{"B1", 707 * MM, 1000 * MM}
	B2  = PageSize{"B2", 500 * MM, 707 * MM}
	B3  = PageSize{"B3", 353 * MM, 500 * MM}
	B4  = PageSize{"B4", 250 * MM, 353 * MM}
	B5  = PageSize{"B5", 176 * MM, 250 * MM}
	B6  = PageSize{"B6", 125 * MM, 176 * MM}
	B7  = PageSize{"B7", 88 * MM, 125 * MM}
	B8  = PageSize{"B8", 62 * MM, 88 * MM}
	B9  = PageSize{"B9", 44 * MM, 62 * MM}
	B10 = PageSize{"B10", 31 * MM, 44 * MM}

	C0  = PageSize{"C0", 917 * MM, 1297 * MM}
	C1  = PageSize{"C1", 648 * MM, 917 * MM}
	C2  = PageSize{"C2", 458 * MM, 648 * MM}
	C3  = PageSize{"C3", 324 * MM, 458 * MM}
	C4  = PageSize{"C4", 229 * MM, 324 * MM}
	C5  = PageSize{"C5", 162 * MM, 229 * MM}
	C6  = PageSize{"C6", 114 * MM, 162 * MM}
	C7  = PageSize{"C7", 81 * MM, 114 * MM}
	C8  = PageSize{"C8", 57 * MM, 81 * MM}
	C9  = PageSize{"C9", 40 * MM, 57 * MM}
	C10 = PageSize{"C10", 28 * MM, 40 * MM}
)

var pageSizes = map[string]PageSize{}

func init() {
	for _, ps := range []PageSize{
		Letter, Legal, Tabloid, JuniorLegal, Memo,
		A0, A1, A2, A3, A4, A5, A6, A7, A8, A9, A10,
		B0, B1, B2, B3, B4, B5, B6, B7, B8, B9, B10,
		C0, C1, C2, C3, C4, C5, C6, C7, C8, C9, C10,
	} {
		pageSizes[normalizeSizeName(ps.Name)] = ps
	}
}

func normalizeSizeName(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
}

// LookupPageSize finds standard page size by name, "junior_legal",
// "Junior Legal" and "JuniorLegal" are the same size.
func LookupPageSize(name string) (PageSize, bool) {
	ps, ok := pageSizes[normalizeSizeName(name)]
	return ps, ok
}

// PageSizeNames returns sorted list of known page size names.
func PageSizeNames() []string {
	names := make([]string, 0, len(pageSizes))
	for _, ps := range pageSizes {
		names = append(names, ps.Name)
	}
	slices.Sort(names)
	return names
}
