// Package units defines typographic length units and standard page sizes.
// All lengths are expressed in PDF points (1/72 inch).
package units

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	Point = 1.0
	Pica  = 12.0
	Inch  = 72.0
	CM    = Inch * 0.3937
	MM    = CM * 0.1
	// CSS reference pixel at 96 dpi.
	Pixel = Inch / 96
)

var suffixes = map[string]float64{
	"":   Point,
	"pt": Point,
	"pc": Pica,
	"in": Inch,
	"cm": CM,
	"mm": MM,
	"px": Pixel,
}

// FromUnit converts value expressed in named unit to points.
func FromUnit(value float64, unit string) (float64, error) {
	k, ok := suffixes[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("unknown length unit %q", unit)
	}
	return value * k, nil
}

// ParseLength parses lengths like "72", "1in", "2.5 cm" or "-3pc" and returns
// value in points.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}
	end := len(s)
	for i, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+' {
			end = i
			break
		}
	}
	num, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, fmt.Errorf("bad length %q: %w", s, err)
	}
	v, err := FromUnit(num, s[end:])
	if err != nil {
		return 0, fmt.Errorf("bad length %q: %w", s, err)
	}
	return v, nil
}

// FormatLength renders points value using requested unit, suitable for ParseLength.
func FormatLength(points float64, unit string) string {
	k, ok := suffixes[strings.ToLower(unit)]
	if !ok || k == 0 {
		k, unit = Point, "pt"
	}
	return strconv.FormatFloat(points/k, 'f', -1, 64) + unit
}
