// Package page keeps pages of a document and placement of containers on
// them. Document serves layout objects as their page locator.
package page

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/design"
	"pdfdesigner/geometry"
	"pdfdesigner/layout"
	"pdfdesigner/units"
	"pdfdesigner/utils/debug"
)

// Document is an ordered set of pages, numbered from 1.
type Document struct {
	log   *zap.Logger
	setup setup
	pages []*Page
	// container id -> page number
	placed map[uuid.UUID]int
}

type setup struct {
	axis        geometry.Axis
	size        units.PageSize
	orientation units.Orientation
	margins     Margins
}

// Option changes document defaults or, passed to AddPage, a single page.
type Option func(*setup)

func WithPageSize(ps units.PageSize) Option      { return func(s *setup) { s.size = ps } }
func WithOrientation(o units.Orientation) Option { return func(s *setup) { s.orientation = o } }
func WithMargins(m Margins) Option               { return func(s *setup) { s.margins = m } }

// WithAxis sets vertical axis direction, it should match design context.
func WithAxis(axis geometry.Axis) Option { return func(s *setup) { s.axis = axis } }

// NewDocument creates empty document, pages are Letter portrait with one
// inch margins unless configured otherwise.
func NewDocument(log *zap.Logger, opts ...Option) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{
		log:    log.Named("page"),
		setup:  setup{size: units.Letter, margins: UniformMargins(units.Inch)},
		placed: make(map[uuid.UUID]int),
	}
	for _, opt := range opts {
		opt(&d.setup)
	}
	return d
}

func (d *Document) Axis() geometry.Axis { return d.setup.axis }
func (d *Document) Len() int            { return len(d.pages) }
func (d *Document) Pages() []*Page      { return slices.Clone(d.pages) }

// AddPage appends page using document defaults changed by opts.
func (d *Document) AddPage(opts ...Option) *Page {
	s := d.setup
	for _, opt := range opts {
		opt(&s)
	}
	p := &Page{
		number:      len(d.pages) + 1,
		axis:        d.setup.axis,
		size:        s.size.Oriented(s.orientation),
		orientation: s.orientation,
		margins:     s.margins,
	}
	d.pages = append(d.pages, p)
	d.log.Debug("Page added", zap.Int("number", p.number), zap.Stringer("size", p.size), zap.Stringer("margins", p.margins))
	return p
}

// PageAt returns page by its 1-based number.
func (d *Document) PageAt(n int) (*Page, bool) {
	if n < 1 || n > len(d.pages) {
		return nil, false
	}
	return d.pages[n-1], true
}

func (d *Document) Page(n int) (design.Page, bool) {
	p, ok := d.PageAt(n)
	if !ok {
		return nil, false
	}
	return p, true
}

// Place puts container on page n, moving it from the page it was placed
// on before.
func (d *Document) Place(c *layout.Container, n int) error {
	if c == nil {
		return fmt.Errorf("%w: nil container", common.ErrType)
	}
	p, ok := d.PageAt(n)
	if !ok {
		return fmt.Errorf("%w: page %d does not exist, document has %d pages", common.ErrNotFound, n, len(d.pages))
	}
	if old, ok := d.placed[c.ID()]; ok {
		d.pages[old-1].remove(c.ID())
	}
	p.containers = append(p.containers, c)
	d.placed[c.ID()] = n
	d.log.Debug("Container placed", zap.String("container", c.Name()), zap.Int("page", n))
	return nil
}

// PageNumber returns page of container, or of the first container holding
// content element with given id.
func (d *Document) PageNumber(id uuid.UUID) (int, bool) {
	if n, ok := d.placed[id]; ok {
		return n, true
	}
	if cs := d.ContainersOf(id, true); len(cs) > 0 {
		return d.placed[cs[0].ID()], true
	}
	return 0, false
}

// PageNumbers returns all pages object with given id appears on, in
// ascending order.
func (d *Document) PageNumbers(id uuid.UUID) []int {
	if n, ok := d.placed[id]; ok {
		return []int{n}
	}
	var out []int
	for _, c := range d.ContainersOf(id, false) {
		if n := d.placed[c.ID()]; !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// ContainersOf returns placed containers holding content element, in page
// and placement order.
func (d *Document) ContainersOf(elementID uuid.UUID, firstOnly bool) []*layout.Container {
	var out []*layout.Container
	for _, p := range d.pages {
		for _, c := range p.containers {
			if c.Contains(elementID) {
				out = append(out, c)
				if firstOnly {
					return out
				}
			}
		}
	}
	return out
}

// Component finds placed container or content element by id.
func (d *Document) Component(id uuid.UUID) (any, bool) {
	for _, p := range d.pages {
		for _, c := range p.containers {
			if c.ID() == id {
				return c, true
			}
			for _, e := range c.Elements() {
				if e.ID() == id {
					return e, true
				}
			}
		}
	}
	return nil, false
}

// Element is Component narrowed to content elements.
func (d *Document) Element(id uuid.UUID) (content.Element, bool) {
	v, ok := d.Component(id)
	if !ok {
		return nil, false
	}
	e, ok := v.(content.Element)
	return e, ok
}

// ResolveEdges is the layout pass: unresolved container edges are filled
// from the live area. Anchored containers extend from their anchor point to
// the live area edges, containers without position are stacked from the top
// of the live area in placement order. Returns number of containers whose
// box changed.
func (d *Document) ResolveEdges() int {
	changed := 0
	for _, p := range d.pages {
		for c, bb := range p.slots {
			if bb == c.Box() {
				continue
			}
			c.SetBox(bb)
			changed++
			d.log.Debug("Container edges resolved", zap.String("container", c.Name()), zap.Int("page", p.number), zap.Stringer("box", bb))
		}
	}
	return changed
}

func (d *Document) String() string {
	tw := debug.NewTreeWriter()
	tw.Fields(0, "Document", "pages", len(d.pages), "axis", d.setup.axis)
	for _, p := range d.pages {
		tw.Line(1, "%s", p)
		for _, c := range p.containers {
			tw.Fields(2, c.Name(), "box", c.Box(), "layer", c.Layer())
		}
	}
	return tw.String()
}
