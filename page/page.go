package page

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/rect"

	"pdfdesigner/geometry"
	"pdfdesigner/layout"
	"pdfdesigner/units"
)

// Margins are distances from media box edges to the live area, in points.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// UniformMargins returns the same margin on all sides.
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

func (m Margins) String() string {
	return fmt.Sprintf("%g %g %g %g", m.Top, m.Right, m.Bottom, m.Left)
}

// Page is a single sheet of the document with containers placed on it.
type Page struct {
	number      int
	axis        geometry.Axis
	size        units.PageSize
	orientation units.Orientation
	margins     Margins
	// placement order
	containers []*layout.Container
}

func (p *Page) Number() int                    { return p.number }
func (p *Page) Size() units.PageSize           { return p.size }
func (p *Page) Orientation() units.Orientation { return p.orientation }
func (p *Page) Margins() Margins               { return p.margins }
func (p *Page) MediaBox() rect.Rect            { return p.size.Rect() }
func (p *Page) Containers() []*layout.Container {
	return slices.Clone(p.containers)
}

// LiveArea returns page area inside the margins in document axis
// coordinates.
func (p *Page) LiveArea() geometry.BoundingBox {
	top, bottom := p.size.Height-p.margins.Top, p.margins.Bottom
	if p.axis == geometry.YDown {
		top, bottom = p.margins.Top, p.size.Height-p.margins.Bottom
	}
	return geometry.NewBoundingBox(p.margins.Left, top, p.size.Width-p.margins.Right, bottom)
}

func (p *Page) LiveAreaWidth() float64 {
	return max(0, p.size.Width-p.margins.Left-p.margins.Right)
}

func (p *Page) LiveAreaHeight() float64 {
	return max(0, p.size.Height-p.margins.Top-p.margins.Bottom)
}

// AvailableWidth returns horizontal space of container placed on this
// page, which is the width of the box layout pass gives it.
func (p *Page) AvailableWidth(id uuid.UUID) (float64, bool) {
	bb, ok := p.slotOf(id)
	if !ok {
		return 0, false
	}
	return bb.Width()
}

// AvailableHeight returns vertical space of container placed on this page,
// which is the height of the box layout pass gives it.
func (p *Page) AvailableHeight(id uuid.UUID) (float64, bool) {
	bb, ok := p.slotOf(id)
	if !ok {
		return 0, false
	}
	return bb.Height()
}

func (p *Page) slotOf(id uuid.UUID) (geometry.BoundingBox, bool) {
	for c, bb := range p.slots {
		if c.ID() == id {
			return bb, true
		}
	}
	return geometry.BoundingBox{}, false
}

// slots yields containers in placement order with boxes layout pass gives
// them. Containers without position are stacked: each starts at the lowest
// bottom edge of containers placed before it.
func (p *Page) slots(yield func(*layout.Container, geometry.BoundingBox) bool) {
	dir := p.axis.Dir()
	cursor := p.LiveArea().Y0.Value
	for _, c := range p.containers {
		bb := p.slot(c, cursor)
		if !yield(c, bb) {
			return
		}
		if y, ok := bb.Y1.Get(); ok && dir*(y-cursor) > 0 {
			cursor = y
		}
	}
}

// slot resolves box of a single container. Anchored container without
// explicit size gets the space between its anchor point and the live area
// edges, centered anchors take the same distance on both sides.
func (p *Page) slot(c *layout.Container, cursor float64) geometry.BoundingBox {
	bb := c.Box()
	if bb.Resolved() {
		return bb
	}
	live := p.LiveArea()
	dir := p.axis.Dir()

	at, ok := c.AnchorPoint()
	if !ok {
		w := c.ExplicitWidth().Or(p.LiveAreaWidth())
		h := c.ExplicitHeight().Or(max(0, dir*(live.Y1.Value-cursor)))
		return geometry.NewBoundingBox(live.X0.Value, cursor, live.X0.Value+w, cursor+dir*h)
	}

	a := c.Anchor()
	w, h := c.ExplicitWidth(), c.ExplicitHeight()
	if !w.Valid {
		w = geometry.Of(extent(a.IsLeft(), a.IsRight(), at.X, live.X0.Value, live.X1.Value, 1))
	}
	if !h.Valid {
		h = geometry.Of(extent(a.IsTop(), a.IsBottom(), at.Y, live.Y0.Value, live.Y1.Value, dir))
	}
	resolved, err := geometry.Resolve(a, p.axis, at, w, h)
	if err != nil {
		return bb
	}
	return resolved
}

// extent measures space from v to the [from, to] range ends along dir.
// Leading anchors extend towards to, trailing ones towards from.
func extent(leading, trailing bool, v, from, to, dir float64) float64 {
	switch {
	case leading:
		return max(0, dir*(to-v))
	case trailing:
		return max(0, dir*(v-from))
	}
	return max(0, 2*min(dir*(to-v), dir*(v-from)))
}

func (p *Page) remove(id uuid.UUID) {
	p.containers = slices.DeleteFunc(p.containers, func(c *layout.Container) bool { return c.ID() == id })
}

func (p *Page) String() string {
	return fmt.Sprintf("Page %d: %s %s, margins %s, %d containers",
		p.number, p.size, p.orientation, p.margins, len(p.containers))
}
