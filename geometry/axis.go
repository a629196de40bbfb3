package geometry

import (
	"fmt"
	"strings"
)

// Axis selects direction of the vertical axis.
type Axis int

const (
	// YUp is native PDF space: origin in the lower left corner of the page,
	// height subtracts downward.
	YUp Axis = iota
	// YDown is screen space: origin in the upper left corner.
	YDown
)

// Dir is the sign of the step from the top edge to the bottom edge.
func (ax Axis) Dir() float64 {
	if ax == YDown {
		return 1
	}
	return -1
}

func (ax Axis) String() string {
	if ax == YDown {
		return "down"
	}
	return "up"
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up", "y-up":
		return YUp, nil
	case "down", "y-down":
		return YDown, nil
	}
	return YUp, fmt.Errorf("unknown y axis direction %q", s)
}

func (ax Axis) MarshalText() ([]byte, error) {
	return []byte(ax.String()), nil
}

func (ax *Axis) UnmarshalText(text []byte) error {
	v, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*ax = v
	return nil
}
