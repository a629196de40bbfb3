// Package common keeps enumerations and errors shared by configuration and
// layout packages, so that neither has to import the other.
package common

import (
	"fmt"
	"strings"
)

// Format of produced page map.
type OutputFmt int

const (
	OutputFmtYaml OutputFmt = iota
	OutputFmtIon
	OutputFmtXml
)

var outputFmtNames = []string{"yaml", "ion", "xml"}

// OutputFmtNames returns list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	return append([]string(nil), outputFmtNames...)
}

func (o OutputFmt) String() string {
	if o < 0 || int(o) >= len(outputFmtNames) {
		return fmt.Sprintf("OutputFmt(%d)", int(o))
	}
	return outputFmtNames[o]
}

// ParseOutputFmt converts string into OutputFmt, case insensitive.
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if strings.EqualFold(n, name) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is not a valid OutputFmt, try [%s]", name, strings.Join(outputFmtNames, ", "))
}

func (o OutputFmt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OutputFmt) UnmarshalText(text []byte) error {
	v, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtIon:
		return ".ion"
	case OutputFmtXml:
		return ".xml"
	default:
		return ".yaml"
	}
}
