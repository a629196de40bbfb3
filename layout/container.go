// Package layout places content on pages: containers are rectangular
// regions holding content elements, stories chain containers and content
// that flows through them.
package layout

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"seehuhn.de/go/geom/vec"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/design"
	"pdfdesigner/geometry"
	"pdfdesigner/style"
	"pdfdesigner/utils/debug"
)

// Container is a rectangular region of a page holding content elements.
type Container struct {
	ctx    *design.Context
	log    *zap.Logger
	id     uuid.UUID
	name   string
	anchor geometry.Anchor
	// anchor position, nil when placed by corners or not placed at all
	at     *vec.Vec2
	width  geometry.Optional
	height geometry.Optional
	box    geometry.BoundingBox
	layer  int
	style  *style.Style

	contents *ordered[uuid.UUID, content.Element]
}

type containerConfig struct {
	contents      []content.Element
	hasContents   bool
	style         design.StyleRef
	anchor        geometry.Anchor
	anchorAt      *vec.Vec2
	width, height geometry.Optional
	transform     []vec.Vec2
	layer         int
}

// ContainerOption configures Container created by NewContainer.
type ContainerOption func(*containerConfig)

// WithContents adds initial content, at least one element is required.
func WithContents(elems ...content.Element) ContainerOption {
	return func(c *containerConfig) { c.contents, c.hasContents = elems, true }
}

func WithStyle(ref design.StyleRef) ContainerOption {
	return func(c *containerConfig) { c.style = ref }
}

// WithAnchor selects point of the container anchor coordinate refers to,
// default is top left corner.
func WithAnchor(a geometry.Anchor) ContainerOption {
	return func(c *containerConfig) { c.anchor = a }
}

func WithAnchorCoordinate(x, y float64) ContainerOption {
	return func(c *containerConfig) { c.anchorAt = &vec.Vec2{X: x, Y: y} }
}

func WithWidth(w float64) ContainerOption {
	return func(c *containerConfig) { c.width = geometry.Of(w) }
}

func WithHeight(h float64) ContainerOption {
	return func(c *containerConfig) { c.height = geometry.Of(h) }
}

// WithTransformCoordinates gives container corners explicitly, see
// SetTransformCoordinates.
func WithTransformCoordinates(points ...vec.Vec2) ContainerOption {
	return func(c *containerConfig) { c.transform = points }
}

// WithLayer sets z-order, higher layers are drawn later.
func WithLayer(layer int) ContainerOption {
	return func(c *containerConfig) { c.layer = layer }
}

// NewContainer creates container. Geometry is resolved immediately when
// anchor coordinate or transform coordinates are given, giving both is an
// error.
func NewContainer(ctx *design.Context, name string, opts ...ContainerOption) (*Container, error) {
	cfg := containerConfig{anchor: geometry.TopLeft}
	for _, opt := range opts {
		opt(&cfg)
	}

	if ctx == nil {
		return nil, fmt.Errorf("%w: container %q: no design context", common.ErrConfiguration, name)
	}
	if cfg.transform != nil && cfg.anchorAt != nil {
		return nil, fmt.Errorf("%w: container %q cannot have both transform coordinates and anchor coordinate",
			common.ErrConfiguration, name)
	}
	if !cfg.anchor.IsValid() {
		return nil, fmt.Errorf("%w: container %q: invalid anchor %d", common.ErrType, name, int(cfg.anchor))
	}
	s, err := ctx.ResolveStyle(cfg.style)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", name, err)
	}

	c := &Container{
		ctx:      ctx,
		log:      ctx.Logger("layout"),
		id:       uuid.Must(uuid.NewV7()),
		name:     name,
		anchor:   cfg.anchor,
		width:    cfg.width,
		height:   cfg.height,
		layer:    cfg.layer,
		style:    s,
		contents: newOrdered[uuid.UUID, content.Element](),
	}

	switch {
	case cfg.transform != nil:
		err = c.SetTransformCoordinates(cfg.transform...)
	case cfg.anchorAt != nil:
		err = c.SetTransformCoordinates(*cfg.anchorAt)
	}
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", name, err)
	}

	if cfg.hasContents {
		if err := c.AddContents(cfg.contents...); err != nil {
			return nil, fmt.Errorf("container %q: %w", name, err)
		}
	}
	c.log.Debug("Container created", zap.String("name", name), zap.Stringer("box", c.box), zap.Int("elements", c.Len()))
	return c, nil
}

func (c *Container) ID() uuid.UUID                     { return c.id }
func (c *Container) Name() string                      { return c.name }
func (c *Container) SetName(name string)               { c.name = name }
func (c *Container) Anchor() geometry.Anchor           { return c.anchor }
func (c *Container) Layer() int                        { return c.layer }
func (c *Container) Style() *style.Style               { return c.style }
func (c *Container) Len() int                          { return c.contents.Len() }
func (c *Container) Elements() []content.Element       { return c.contents.Values() }
func (c *Container) Box() geometry.BoundingBox         { return c.box }
func (c *Container) ExplicitWidth() geometry.Optional  { return c.width }
func (c *Container) ExplicitHeight() geometry.Optional { return c.height }

// AnchorPoint returns position given for container anchor.
func (c *Container) AnchorPoint() (vec.Vec2, bool) {
	if c.at == nil {
		return vec.Vec2{}, false
	}
	return *c.at, true
}

// SetBox replaces bounding box, used by layout pass filling unresolved
// edges. Anchor point is kept.
func (c *Container) SetBox(bb geometry.BoundingBox) { c.box = bb }

func (c *Container) SetStyle(ref design.StyleRef) error {
	s, err := c.ctx.ResolveStyle(ref)
	if err != nil {
		return fmt.Errorf("container %q: %w", c.name, err)
	}
	c.style = s
	return nil
}

// Width returns explicit width, width of the box when both side edges are
// known, or horizontal space available at container position on its page.
// It is not cached, placement may change.
func (c *Container) Width() (float64, bool) {
	if c.width.Valid {
		return c.width.Value, true
	}
	if w, ok := c.box.Width(); ok {
		return w, true
	}
	p, _, ok := c.ctx.Page(c.id)
	if !ok {
		return 0, false
	}
	return p.AvailableWidth(c.id)
}

// Height returns explicit height, height of the box when both top and
// bottom edges are known, or vertical space available at container
// position on its page.
func (c *Container) Height() (float64, bool) {
	if c.height.Valid {
		return c.height.Value, true
	}
	if h, ok := c.box.Height(); ok {
		return h, true
	}
	p, _, ok := c.ctx.Page(c.id)
	if !ok {
		return 0, false
	}
	return p.AvailableHeight(c.id)
}

func (c *Container) Dimensions() (w, h float64, ok bool) {
	w, wok := c.Width()
	h, hok := c.Height()
	return w, h, wok && hok
}

// PageNumber returns the page container is placed on.
func (c *Container) PageNumber() (int, bool) {
	_, n, ok := c.ctx.Page(c.id)
	return n, ok
}

// Origin returns position of container anchor.
func (c *Container) Origin() (vec.Vec2, bool) {
	if c.at != nil {
		return *c.at, true
	}
	return c.box.Origin(c.anchor)
}

func (c *Container) Center() (vec.Vec2, bool) { return c.box.Center() }

// SetTransformCoordinates positions container. A single point is the
// anchor position, edges are resolved using explicit width and height. Two
// points are diagonal corners. Four points are corners in top left, top
// right, bottom left, bottom right order, only the diagonal ones are used.
func (c *Container) SetTransformCoordinates(points ...vec.Vec2) error {
	switch len(points) {
	case 1:
		bb, err := geometry.Resolve(c.anchor, c.ctx.Axis, points[0], c.width, c.height)
		if err != nil {
			return err
		}
		at := points[0]
		c.box, c.at = bb, &at
	case 2:
		c.box, c.at = geometry.FromCorners(c.ctx.Axis, points[0], points[1]), nil
	case 4:
		c.box, c.at = geometry.FromCorners(c.ctx.Axis, points[0], points[3]), nil
	default:
		return fmt.Errorf("%w: expected 1, 2 or 4 coordinate pairs, got %d", common.ErrConfiguration, len(points))
	}
	return nil
}

// AddContentElement appends element. Element which cannot flow must fit
// into container dimensions, otherwise nothing is changed. Adding element
// already present moves it to the end.
func (c *Container) AddContentElement(e content.Element) error {
	if e == nil {
		return fmt.Errorf("%w: nil content element", common.ErrType)
	}
	if !e.IsFlowable() {
		w, h, ok := c.Dimensions()
		if !ok {
			return fmt.Errorf("%w: %s will not fit in container %q with unknown dimensions",
				common.ErrCapacity, e.Name(), c.name)
		}
		if !content.WillFit(e, w, h) {
			return fmt.Errorf("%w: %s will not fit in container %q with dimensions %gx%g",
				common.ErrCapacity, e.Name(), c.name, w, h)
		}
	}
	c.contents.Push(e.ID(), e)
	return nil
}

// AddContents adds elements in order, stopping at first failure.
func (c *Container) AddContents(elems ...content.Element) error {
	if len(elems) == 0 {
		return fmt.Errorf("%w: no content elements to add", common.ErrConfiguration)
	}
	for _, e := range elems {
		if err := c.AddContentElement(e); err != nil {
			return err
		}
	}
	return nil
}

// RemoveContentElement returns removed element. Missing element is
// reported as (nil, nil) when failSilently is set.
func (c *Container) RemoveContentElement(e content.Element, failSilently bool) (content.Element, error) {
	if e != nil {
		if removed, ok := c.contents.Delete(e.ID()); ok {
			return removed, nil
		}
	}
	if failSilently {
		return nil, nil
	}
	name := "<nil>"
	if e != nil {
		name = e.Name()
	}
	return nil, fmt.Errorf("%w: content element %s not found in container %q", common.ErrNotFound, name, c.name)
}

func (c *Container) ClearContentElements() {
	c.contents = newOrdered[uuid.UUID, content.Element]()
}

// Contains accepts content element, its name or its id.
func (c *Container) Contains(x any) bool {
	switch v := x.(type) {
	case content.Element:
		return v != nil && c.contents.Has(v.ID())
	case uuid.UUID:
		return c.contents.Has(v)
	case string:
		for _, e := range c.contents.Values() {
			if e.Name() == v {
				return true
			}
		}
	}
	return false
}

func (c *Container) String() string {
	tw := debug.NewTreeWriter()
	c.dump(tw, 0)
	return tw.String()
}

func (c *Container) dump(tw *debug.TreeWriter, depth int) {
	w, h := "auto", "auto"
	if c.width.Valid {
		w = fmt.Sprint(c.width.Value)
	}
	if c.height.Valid {
		h = fmt.Sprint(c.height.Value)
	}
	tw.Fields(depth, "Container "+c.name,
		"anchor", c.anchor, "box", c.box, "width", w, "height", h, "layer", c.layer, "style", c.style.Name())
	for _, e := range c.contents.Values() {
		tw.Line(depth+1, "%v", e)
		if p, ok := e.(*content.Paragraph); ok {
			tw.TextBlock(depth+2, "text", p.Text())
		}
	}
}
