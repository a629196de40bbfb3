// Package docfile reads YAML document descriptions and builds pages,
// containers and stories out of them.
package docfile

import (
	"bytes"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"pdfdesigner/common"
	"pdfdesigner/fonts"
	"pdfdesigner/units"
)

// Length is a distance in points. In YAML it may carry unit: 72, 1in, 2.5cm.
type Length float64

func (l *Length) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: length must be scalar", common.ErrType, value.Line)
	}
	v, err := units.ParseLength(value.Value)
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", common.ErrType, value.Line, err)
	}
	*l = Length(v)
	return nil
}

func (l Length) MarshalYAML() (any, error) {
	return float64(l), nil
}

// Points returns value of optional length.
func (l *Length) Points() (float64, bool) {
	if l == nil {
		return 0, false
	}
	return float64(*l), true
}

type (
	// Description is the top level of the document file.
	Description struct {
		Name         string          `yaml:"name"`
		Stylesheet   string          `yaml:"stylesheet,omitempty"`
		DefaultStyle string          `yaml:"default_style,omitempty"`
		Axis         string          `yaml:"y_axis,omitempty"`
		Page         PageSpec        `yaml:"page,omitempty"`
		Pages        int             `yaml:"pages,omitempty"`
		Fonts        []FontSpec      `yaml:"fonts,omitempty"`
		Containers   []ContainerSpec `yaml:"containers"`
		Stories      []StorySpec     `yaml:"stories,omitempty"`
	}

	// PageSpec overrides page setup from configuration, empty fields are
	// left alone.
	PageSpec struct {
		Size        string       `yaml:"size,omitempty"`
		Orientation string       `yaml:"orientation,omitempty"`
		Margins     *MarginsSpec `yaml:"margins,omitempty"`
	}

	MarginsSpec struct {
		Top    *Length `yaml:"top,omitempty"`
		Right  *Length `yaml:"right,omitempty"`
		Bottom *Length `yaml:"bottom,omitempty"`
		Left   *Length `yaml:"left,omitempty"`
	}

	FontSpec struct {
		Family string             `yaml:"family"`
		Fonts  []fonts.Definition `yaml:"fonts"`
	}

	// ContainerSpec describes container geometry and content. At most one
	// of At and Corners may be given: At is the anchor point, Corners are
	// transform coordinates.
	ContainerSpec struct {
		Name    string        `yaml:"name"`
		Page    int           `yaml:"page,omitempty"`
		Anchor  string        `yaml:"anchor,omitempty"`
		At      []Length      `yaml:"at,omitempty"`
		Corners [][]Length    `yaml:"corners,omitempty"`
		Width   *Length       `yaml:"width,omitempty"`
		Height  *Length       `yaml:"height,omitempty"`
		Layer   int           `yaml:"layer,omitempty"`
		Style   string        `yaml:"style,omitempty"`
		Content []ElementSpec `yaml:"content,omitempty"`
	}

	StorySpec struct {
		Name       string   `yaml:"name"`
		Containers []string `yaml:"containers"`
		Jumplines  *bool    `yaml:"jumplines,omitempty"`
		// OnDuplicate is one of duplicate (default), overwrite or fail.
		OnDuplicate string        `yaml:"on_duplicate,omitempty"`
		Content     []ElementSpec `yaml:"content,omitempty"`
	}

	// ElementSpec holds exactly one element kind. Ref names element
	// already created by a container, it is only meaningful in stories.
	ElementSpec struct {
		Ref       string         `yaml:"ref,omitempty"`
		Paragraph *ParagraphSpec `yaml:"paragraph,omitempty"`
		Image     *ImageSpec     `yaml:"image,omitempty"`
		Spacer    *SpacerSpec    `yaml:"spacer,omitempty"`
	}

	ParagraphSpec struct {
		Name      string `yaml:"name,omitempty"`
		Text      string `yaml:"text"`
		Style     string `yaml:"style,omitempty"`
		Bullet    string `yaml:"bullet,omitempty"`
		Alignment string `yaml:"alignment,omitempty"`
	}

	ImageSpec struct {
		Name   string  `yaml:"name,omitempty"`
		Path   string  `yaml:"path"`
		Style  string  `yaml:"style,omitempty"`
		Width  *Length `yaml:"width,omitempty"`
		Height *Length `yaml:"height,omitempty"`
		DPI    float64 `yaml:"dpi,omitempty"`
	}

	SpacerSpec struct {
		Name   string `yaml:"name,omitempty"`
		Height Length `yaml:"height"`
		Style  string `yaml:"style,omitempty"`
	}
)

// Decode parses description rejecting unknown fields.
func Decode(data []byte) (*Description, error) {
	var d Description
	if err := decodeStrict(data, &d); err != nil {
		return nil, fmt.Errorf("%w: unable to decode document description: %w", common.ErrConfiguration, err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

func (d *Description) validate() error {
	if d.Pages < 0 {
		return fmt.Errorf("%w: negative number of pages %d", common.ErrConfiguration, d.Pages)
	}
	for i, cs := range d.Containers {
		if strings.TrimSpace(cs.Name) == "" {
			return fmt.Errorf("%w: container #%d has no name", common.ErrConfiguration, i+1)
		}
		if cs.Page < 0 {
			return fmt.Errorf("%w: container %q: bad page %d", common.ErrConfiguration, cs.Name, cs.Page)
		}
		if len(cs.At) != 0 && len(cs.At) != 2 {
			return fmt.Errorf("%w: container %q: anchor point needs x and y", common.ErrConfiguration, cs.Name)
		}
		for _, pt := range cs.Corners {
			if len(pt) != 2 {
				return fmt.Errorf("%w: container %q: corner needs x and y", common.ErrConfiguration, cs.Name)
			}
		}
		for _, es := range cs.Content {
			if es.Ref != "" {
				return fmt.Errorf("%w: container %q: element references are allowed in stories only",
					common.ErrConfiguration, cs.Name)
			}
			if err := es.validate(); err != nil {
				return fmt.Errorf("container %q: %w", cs.Name, err)
			}
		}
	}
	for i, ss := range d.Stories {
		if strings.TrimSpace(ss.Name) == "" {
			return fmt.Errorf("%w: story #%d has no name", common.ErrConfiguration, i+1)
		}
		switch ss.OnDuplicate {
		case "", "duplicate", "overwrite", "fail":
		default:
			return fmt.Errorf("%w: story %q: unknown duplicate policy %q", common.ErrConfiguration, ss.Name, ss.OnDuplicate)
		}
		for _, es := range ss.Content {
			if err := es.validate(); err != nil {
				return fmt.Errorf("story %q: %w", ss.Name, err)
			}
		}
	}
	return nil
}

func (es ElementSpec) validate() error {
	n := 0
	if es.Ref != "" {
		n++
	}
	if es.Paragraph != nil {
		n++
	}
	if es.Image != nil {
		n++
	}
	if es.Spacer != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: content entry must have exactly one of ref, paragraph, image or spacer, got %d",
			common.ErrConfiguration, n)
	}
	return nil
}
