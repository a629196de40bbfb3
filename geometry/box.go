package geometry

import (
	"fmt"
	"math"
	"strconv"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"pdfdesigner/common"
)

// Optional is a float value which may be absent: unresolved box edges,
// unspecified width or height.
type Optional struct {
	Value float64
	Valid bool
}

// None is an absent value.
var None = Optional{}

// Of returns present value v.
func Of(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// Get returns value and presence flag.
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

// Or returns value if present and def otherwise.
func (o Optional) Or(def float64) float64 {
	if o.Valid {
		return o.Value
	}
	return def
}

func (o Optional) String() string {
	if !o.Valid {
		return "<nil>"
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// BoundingBox is a region described by its four edges. Y0 is always the top
// edge and Y1 the bottom one, regardless of axis direction.
type BoundingBox struct {
	X0, Y0, X1, Y1 Optional
}

// NewBoundingBox returns fully resolved box.
func NewBoundingBox(x0, y0, x1, y1 float64) BoundingBox {
	return BoundingBox{X0: Of(x0), Y0: Of(y0), X1: Of(x1), Y1: Of(y1)}
}

// Resolved reports whether all four edges are known.
func (bb BoundingBox) Resolved() bool {
	return bb.X0.Valid && bb.Y0.Valid && bb.X1.Valid && bb.Y1.Valid
}

// IsZero reports whether no edge is known.
func (bb BoundingBox) IsZero() bool {
	return !bb.X0.Valid && !bb.Y0.Valid && !bb.X1.Valid && !bb.Y1.Valid
}

func (bb BoundingBox) Width() (float64, bool) {
	if !bb.X0.Valid || !bb.X1.Valid {
		return 0, false
	}
	return math.Abs(bb.X1.Value - bb.X0.Value), true
}

func (bb BoundingBox) Height() (float64, bool) {
	if !bb.Y0.Valid || !bb.Y1.Valid {
		return 0, false
	}
	return math.Abs(bb.Y0.Value - bb.Y1.Value), true
}

// Rect converts resolved box to PDF rectangle with normalized corners.
func (bb BoundingBox) Rect() (rect.Rect, bool) {
	if !bb.Resolved() {
		return rect.Rect{}, false
	}
	return rect.Rect{
		LLx: min(bb.X0.Value, bb.X1.Value),
		LLy: min(bb.Y0.Value, bb.Y1.Value),
		URx: max(bb.X0.Value, bb.X1.Value),
		URy: max(bb.Y0.Value, bb.Y1.Value),
	}, true
}

// Origin returns position of the anchor point on a resolved box.
func (bb BoundingBox) Origin(a Anchor) (vec.Vec2, bool) {
	if !bb.Resolved() || !a.IsValid() {
		return vec.Vec2{}, false
	}
	var p vec.Vec2
	switch {
	case a.IsLeft():
		p.X = bb.X0.Value
	case a.IsRight():
		p.X = bb.X1.Value
	default:
		p.X = (bb.X0.Value + bb.X1.Value) / 2
	}
	switch {
	case a.IsTop():
		p.Y = bb.Y0.Value
	case a.IsBottom():
		p.Y = bb.Y1.Value
	default:
		p.Y = (bb.Y0.Value + bb.Y1.Value) / 2
	}
	return p, true
}

// Center returns the middle point of a resolved box.
func (bb BoundingBox) Center() (vec.Vec2, bool) {
	return bb.Origin(MiddleCenter)
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("((%s,%s),(%s,%s))", bb.X0, bb.Y0, bb.X1, bb.Y1)
}

// Resolve computes bounding box edges from anchor placed at point at, using
// optional width and height. Edges which cannot be derived from the inputs
// are left unresolved for the layout pass.
//
// Horizontal edges grow to the right. Vertical edges follow the axis: for
// YUp the bottom edge is below the top one (y1 = y0 - height), for YDown it
// is the other way around.
func Resolve(a Anchor, axis Axis, at vec.Vec2, width, height Optional) (BoundingBox, error) {
	if !a.IsValid() {
		return BoundingBox{}, fmt.Errorf("%w: %d is not a valid anchor", common.ErrType, int(a))
	}

	var bb BoundingBox
	switch {
	case a.IsLeft():
		bb.X0 = Of(at.X)
		if width.Valid {
			bb.X1 = Of(at.X + width.Value)
		}
	case a.IsRight():
		bb.X1 = Of(at.X)
		if width.Valid {
			bb.X0 = Of(at.X - width.Value)
		}
	default:
		if width.Valid {
			bb.X0 = Of(at.X - width.Value/2)
			bb.X1 = Of(at.X + width.Value/2)
		}
	}

	dir := axis.Dir()
	switch {
	case a.IsTop():
		bb.Y0 = Of(at.Y)
		if height.Valid {
			bb.Y1 = Of(at.Y + dir*height.Value)
		}
	case a.IsBottom():
		bb.Y1 = Of(at.Y)
		if height.Valid {
			bb.Y0 = Of(at.Y - dir*height.Value)
		}
	default:
		if height.Valid {
			bb.Y0 = Of(at.Y - dir*height.Value/2)
			bb.Y1 = Of(at.Y + dir*height.Value/2)
		}
	}
	return bb, nil
}

// FromCorners builds resolved box from two diagonal corners given in any
// order. The top edge is picked according to the axis.
func FromCorners(axis Axis, p, q vec.Vec2) BoundingBox {
	top, bottom := max(p.Y, q.Y), min(p.Y, q.Y)
	if axis == YDown {
		top, bottom = bottom, top
	}
	return NewBoundingBox(min(p.X, q.X), top, max(p.X, q.X), bottom)
}
