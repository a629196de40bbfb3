package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/amazon-ion/ion-go/ion"
	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"pdfdesigner/common"
)

// Encode writes plan in requested format.
func Encode(w io.Writer, p *Plan, format common.OutputFmt) error {
	switch format {
	case common.OutputFmtYaml:
		return EncodeYAML(w, p)
	case common.OutputFmtIon:
		return EncodeIon(w, p)
	case common.OutputFmtXml:
		return EncodeXML(w, p)
	}
	return fmt.Errorf("%w: unsupported page map format %s", common.ErrType, format)
}

func EncodeYAML(w io.Writer, p *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("unable to encode page map as yaml: %w", err)
	}
	return enc.Close()
}

// EncodeIon writes Ion text representation.
func EncodeIon(w io.Writer, p *Plan) error {
	data, err := ion.MarshalText(p)
	if err != nil {
		return fmt.Errorf("unable to encode page map as ion: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// EncodeXML writes plan as XML document, numbers are written in shortest
// form.
func EncodeXML(w io.Writer, p *Plan) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("page-map")
	root.CreateAttr("id", p.ID)
	root.CreateAttr("name", p.Name)
	root.CreateAttr("axis", p.Axis)
	if len(p.Settings) > 0 {
		xmlProperties(root.CreateElement("settings"), "setting", p.Settings)
	}

	for _, pp := range p.Pages {
		pe := root.CreateElement("page")
		pe.CreateAttr("number", strconv.Itoa(pp.Number))
		pe.CreateAttr("size", pp.Size)
		pe.CreateAttr("orientation", pp.Orientation)
		xmlRect(pe.CreateElement("media-box"), pp.MediaBox)
		xmlRect(pe.CreateElement("live-area"), pp.LiveArea)
		for _, cp := range pp.Containers {
			ce := pe.CreateElement("container")
			ce.CreateAttr("id", cp.ID)
			ce.CreateAttr("name", cp.Name)
			ce.CreateAttr("layer", strconv.Itoa(cp.Layer))
			ce.CreateAttr("anchor", cp.Anchor)
			ce.CreateAttr("style", cp.Style)
			if cp.Box != nil {
				xmlRect(ce.CreateElement("box"), *cp.Box)
			}
			if len(cp.Properties) > 0 {
				xmlProperties(ce.CreateElement("properties"), "property", cp.Properties)
			}
			for _, ep := range cp.Elements {
				xmlElement(ce, ep)
			}
		}
	}

	for _, sp := range p.Stories {
		se := root.CreateElement("story")
		se.CreateAttr("id", sp.ID)
		se.CreateAttr("name", sp.Name)
		for _, name := range sp.Containers {
			se.CreateElement("container").CreateAttr("ref", name)
		}
		for _, j := range sp.Jumplines {
			je := se.CreateElement("jumpline")
			je.CreateAttr("container", j.Container)
			je.CreateAttr("continued-on", strconv.Itoa(j.ContinuedOn))
		}
		for _, ep := range sp.Elements {
			xmlElement(se, ep)
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to encode page map as xml: %w", err)
	}
	return nil
}

func xmlProperties(e *etree.Element, tag string, props map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(props)) {
		v := props[k]
		if v == nil {
			continue
		}
		pr := e.CreateElement(tag)
		pr.CreateAttr("name", k)
		pr.CreateAttr("value", xmlValue(v))
	}
}

func xmlRect(e *etree.Element, r Rect) {
	e.CreateAttr("llx", xmlNumber(r.LLx))
	e.CreateAttr("lly", xmlNumber(r.LLy))
	e.CreateAttr("urx", xmlNumber(r.URx))
	e.CreateAttr("ury", xmlNumber(r.URy))
}

func xmlElement(parent *etree.Element, ep ElementPlan) {
	e := parent.CreateElement(ep.Kind)
	e.CreateAttr("id", ep.ID)
	e.CreateAttr("name", ep.Name)
	if ep.Style != "" {
		e.CreateAttr("style", ep.Style)
	}
	e.CreateAttr("flowable", strconv.FormatBool(ep.Flowable))
	if ep.DuplicateOf != "" {
		e.CreateAttr("duplicate-of", ep.DuplicateOf)
	}
	if ep.Bullet != "" {
		e.CreateAttr("bullet", ep.Bullet)
	}
	if ep.Source != "" {
		e.CreateAttr("source", ep.Source)
	}
	if ep.Format != "" {
		e.CreateAttr("format", ep.Format)
	}
	if ep.Width != 0 {
		e.CreateAttr("width", xmlNumber(ep.Width))
	}
	if ep.Height != 0 {
		e.CreateAttr("height", xmlNumber(ep.Height))
	}
	if ep.Text != "" {
		e.SetText(ep.Text)
	}
}

func xmlNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func xmlValue(v any) string {
	switch n := v.(type) {
	case float64:
		return xmlNumber(n)
	case string:
		return n
	}
	return fmt.Sprint(v)
}
