// Package geometry resolves symbolic anchor points into bounding box edges.
package geometry

import (
	"fmt"
	"strings"

	"pdfdesigner/common"
)

// Anchor is the reference point of a region used to resolve its coordinates.
type Anchor int

const (
	TopLeft Anchor = iota
	TopCenter
	TopRight
	MiddleLeft
	MiddleCenter
	MiddleRight
	BottomLeft
	BottomCenter
	BottomRight
)

var anchorNames = []string{
	"top-left", "top-center", "top-right",
	"middle-left", "middle-center", "middle-right",
	"bottom-left", "bottom-center", "bottom-right",
}

// AnchorNames returns list of possible string values of Anchor.
func AnchorNames() []string {
	return append([]string(nil), anchorNames...)
}

// Anchors returns all valid anchors.
func Anchors() []Anchor {
	return []Anchor{TopLeft, TopCenter, TopRight, MiddleLeft, MiddleCenter, MiddleRight, BottomLeft, BottomCenter, BottomRight}
}

func (a Anchor) IsValid() bool {
	return a >= TopLeft && a <= BottomRight
}

func (a Anchor) String() string {
	if !a.IsValid() {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// ParseAnchor converts string into Anchor. Case is ignored and underscores
// are accepted in place of dashes, so "TOP_LEFT" is the same as "top-left".
func ParseAnchor(name string) (Anchor, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, v := range anchorNames {
		if v == n {
			return Anchor(i), nil
		}
	}
	return TopLeft, fmt.Errorf("%w: %s is not a valid anchor, try [%s]", common.ErrType, name, strings.Join(anchorNames, ", "))
}

func (a Anchor) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d is not a valid anchor", common.ErrType, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Anchor) UnmarshalText(text []byte) error {
	v, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Horizontal groups.

func (a Anchor) IsLeft() bool   { return a.IsValid() && a%3 == 0 }
func (a Anchor) IsCenter() bool { return a.IsValid() && a%3 == 1 }
func (a Anchor) IsRight() bool  { return a.IsValid() && a%3 == 2 }

// Vertical groups.

func (a Anchor) IsTop() bool    { return a >= TopLeft && a <= TopRight }
func (a Anchor) IsMiddle() bool { return a >= MiddleLeft && a <= MiddleRight }
func (a Anchor) IsBottom() bool { return a >= BottomLeft && a <= BottomRight }

func filter(pred func(Anchor) bool) []Anchor {
	var out []Anchor
	for _, a := range Anchors() {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

func LeftAnchors() []Anchor   { return filter(Anchor.IsLeft) }
func CenterAnchors() []Anchor { return filter(Anchor.IsCenter) }
func RightAnchors() []Anchor  { return filter(Anchor.IsRight) }
func TopAnchors() []Anchor    { return filter(Anchor.IsTop) }
func MiddleAnchors() []Anchor { return filter(Anchor.IsMiddle) }
func BottomAnchors() []Anchor { return filter(Anchor.IsBottom) }
