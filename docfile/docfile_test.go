package docfile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/geometry"
	"pdfdesigner/layout"
	"pdfdesigner/units"
)

const brochure = `
name: brochure
pages: 2
containers:
  - name: header
    at: [1in, 720]
    width: 6.5in
    height: 100
    content:
      - paragraph: {name: title, text: "Spring Catalog", style: Title}
  - name: body
    content:
      - paragraph: {name: body-text, text: "Lorem ipsum dolor sit amet."}
  - name: side
    page: 2
    layer: 1
    corners: [[300, 500], [500, 300]]
    content:
      - spacer: {name: gap, height: 24pt}
stories:
  - name: main
    containers: [body, side]
    content:
      - ref: title
      - ref: body-text
      - paragraph: {name: closing, text: "See you soon", bullet: "-"}
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func elementNames(elems []content.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Name())
	}
	return out
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "brochure.yaml", brochure)

	res, err := Load(path, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Name != "brochure" {
		t.Errorf("Name = %q", res.Name)
	}
	if diff := cmp.Diff([]string{path}, res.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}

	doc := res.Document
	if doc.Len() != 2 {
		t.Fatalf("pages = %d, want 2", doc.Len())
	}
	p1, _ := doc.PageAt(1)
	p2, _ := doc.PageAt(2)
	if got := len(p1.Containers()); got != 2 {
		t.Errorf("page 1 containers = %d, want 2", got)
	}

	boxes := map[string]geometry.BoundingBox{
		"header": geometry.NewBoundingBox(72, 720, 540, 620),
		"body":   geometry.NewBoundingBox(72, 620, 540, 72),
	}
	for _, c := range p1.Containers() {
		if want := boxes[c.Name()]; c.Box() != want {
			t.Errorf("%s box = %v, want %v", c.Name(), c.Box(), want)
		}
	}
	side := p2.Containers()[0]
	if want := geometry.NewBoundingBox(300, 500, 500, 300); side.Box() != want {
		t.Errorf("side box = %v, want %v", side.Box(), want)
	}
	if side.Layer() != 1 {
		t.Errorf("side layer = %d", side.Layer())
	}

	if len(res.Stories) != 1 {
		t.Fatalf("stories = %d, want 1", len(res.Stories))
	}
	s := res.Stories[0]
	want := []string{"body-text", "gap", "title", "body-text_1", "closing"}
	if diff := cmp.Diff(want, elementNames(s.Elements())); diff != "" {
		t.Errorf("story elements mismatch (-want +got):\n%s", diff)
	}
	jl := s.Jumplines()
	if len(jl) != 1 || jl[0].Container.Name() != "body" || jl[0].ContinuedOn != 2 {
		t.Errorf("Jumplines() = %v", jl)
	}

	title, err := s.GetContentElement("title", false)
	if err != nil {
		t.Fatalf("GetContentElement: %v", err)
	}
	if title.Style().Name() != "Title" {
		t.Errorf("title style = %q", title.Style().Name())
	}
	closing, _ := s.GetContentElement("closing", false)
	if p, ok := closing.(*content.Paragraph); !ok || p.Bullet() != "-" {
		t.Errorf("closing = %#v", closing)
	}
	if n, ok := doc.PageNumber(title.ID()); !ok || n != 1 {
		t.Errorf("title page = %d, %v", n, ok)
	}
}

func TestParseDefaultsFromConfig(t *testing.T) {
	cfg := defaultDocument()
	cfg.PageSize = "A5"
	cfg.Orientation = "landscape"
	cfg.Margins.Top = "10mm"
	cfg.Axis = "down"
	cfg.Jumplines = false

	res, err := Parse([]byte(`
containers:
  - name: only
stories:
  - name: s
    containers: [only]
`), "", cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := res.Document.PageAt(1)
	if p.Size().Name != "A5" || p.Orientation() != units.Landscape {
		t.Errorf("page = %v", p)
	}
	if p.Size().Width < p.Size().Height {
		t.Errorf("landscape page is taller than wide: %v", p.Size())
	}
	if got := p.Margins().Top; math.Abs(got-10*units.MM) > 1e-9 {
		t.Errorf("top margin = %g", got)
	}
	if res.Document.Axis() != geometry.YDown || res.Context.Axis != geometry.YDown {
		t.Errorf("axis = %v / %v", res.Document.Axis(), res.Context.Axis)
	}
	if res.Stories[0].ShowJumplines() {
		t.Error("jumplines should be off by configuration")
	}
}

func TestStylesheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.css", `
@import "base.css";
@page { size: A4 landscape; margin: 36pt; }
.Sidebar { -pdf-based-on: normal; font-size: 9pt; break-inside: avoid; }
`)
	// import cycle back to main.css must end
	writeFile(t, dir, "base.css", `
@import "main.css";
.Note { font-size: 8pt; }
`)
	path := writeFile(t, dir, "doc.yaml", `
stylesheet: main.css
default_style: Note
page:
  margins: {left: 1in}
containers:
  - name: side
    style: Sidebar
    content:
      - paragraph: {name: p, text: "small print"}
`)

	res, err := Load(path, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Sources) != 3 {
		t.Errorf("Sources = %v", res.Sources)
	}

	ss := res.Context.Stylesheet
	sidebar, err := ss.Get("Sidebar", false)
	if err != nil {
		t.Fatalf("Sidebar: %v", err)
	}
	if sidebar.FontSize() != 9 || !sidebar.KeepTogether() {
		t.Errorf("Sidebar font size %g, keep together %v", sidebar.FontSize(), sidebar.KeepTogether())
	}
	note, err := ss.Get("Note", false)
	if err != nil || note.FontSize() != 8 {
		t.Errorf("Note = %v, %v", note, err)
	}

	p, _ := res.Document.PageAt(1)
	if p.Size().Name != "A4" || p.Orientation() != units.Landscape {
		t.Errorf("page = %v", p)
	}
	if got := p.Margins(); got.Top != 36 || got.Right != 36 || got.Left != 72 {
		t.Errorf("margins = %v", got)
	}

	side := p.Containers()[0]
	if side.Style().Name() != "Sidebar" {
		t.Errorf("container style = %q", side.Style().Name())
	}
	if e := side.Elements()[0]; e.Style().Name() != "Note" {
		t.Errorf("paragraph style = %q, want default Note", e.Style().Name())
	}
}

func TestImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 144, 72))
	for x := range 144 {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "doc.yaml", `
containers:
  - name: c
    content:
      - image: {name: logo, path: logo.png, width: 1in}
`)

	res, err := Load(path, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, _ := res.Document.PageAt(1)
	logo, ok := p.Containers()[0].Elements()[0].(*content.Image)
	if !ok {
		t.Fatalf("element is %T", p.Containers()[0].Elements()[0])
	}
	if w, h := logo.Size(); w != 72 || h != 36 {
		t.Errorf("Size() = %g x %g, want 72 x 36", w, h)
	}
	if logo.Source() != filepath.Join(dir, "logo.png") {
		t.Errorf("Source() = %q", logo.Source())
	}
	if len(res.Sources) != 2 || res.Sources[1] != logo.Source() {
		t.Errorf("Sources = %v", res.Sources)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown field", "containers: []\ncolour: red\n", common.ErrConfiguration},
		{"bad length", "containers:\n  - name: c\n    width: 3 parsecs\n", common.ErrConfiguration},
		{"nameless container", "containers:\n  - page: 1\n", common.ErrConfiguration},
		{"half anchor point", "containers:\n  - name: c\n    at: [1]\n", common.ErrConfiguration},
		{"two kinds", "containers:\n  - name: c\n    content:\n      - spacer: {height: 1}\n        paragraph: {text: x}\n", common.ErrConfiguration},
		{"ref in container", "containers:\n  - name: c\n    content:\n      - ref: x\n", common.ErrConfiguration},
		{"bad policy", "containers: []\nstories:\n  - name: s\n    on_duplicate: merge\n", common.ErrConfiguration},
		{"duplicate container", "containers:\n  - name: c\n  - name: c\n", common.ErrConflict},
		{"duplicate element", "containers:\n  - name: a\n    content: [{spacer: {name: s, height: 1}}]\n  - name: b\n    content: [{spacer: {name: s, height: 1}}]\n", common.ErrConflict},
		{"unknown container", "containers: []\nstories:\n  - name: s\n    containers: [nope]\n", common.ErrNotFound},
		{"unknown ref", "containers: []\nstories:\n  - name: s\n    content: [{ref: nope}]\n", common.ErrNotFound},
		{"unknown style", "containers:\n  - name: c\n    style: Fancy\n", common.ErrNotFound},
		{"unknown default style", "default_style: Fancy\ncontainers: []\n", common.ErrNotFound},
		{"unknown anchor", "containers:\n  - name: c\n    anchor: upside\n", common.ErrType},
		{"unknown page size", "page: {size: Napkin}\ncontainers: []\n", common.ErrConfiguration},
		{"conflicting geometry", "containers:\n  - name: c\n    at: [0, 0]\n    corners: [[0, 0], [1, 1]]\n", common.ErrConfiguration},
		{"missing stylesheet", "stylesheet: nope.css\ncontainers: []\n", common.ErrConfiguration},
		{"strict story", "containers:\n  - name: c\n    content: [{spacer: {name: s, height: 1}}]\nstories:\n  - name: s\n    containers: [c]\n    on_duplicate: fail\n    content: [{ref: s}]\n", common.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), t.TempDir(), nil, zaptest.NewLogger(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStoryOverwrite(t *testing.T) {
	res, err := Parse([]byte(`
containers:
  - name: c
    content: [{paragraph: {name: p, text: first}}]
stories:
  - name: s
    containers: [c]
    on_duplicate: overwrite
    content: [{paragraph: {name: p, text: second}}]
`), "", nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := res.Stories[0]
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	e := layout.Unwrap(s.Elements()[0])
	if p := e.(*content.Paragraph); p.RawText() != "second" {
		t.Errorf("text = %q", p.RawText())
	}
}

func TestLength(t *testing.T) {
	var v struct {
		A Length  `yaml:"a"`
		B *Length `yaml:"b"`
		C *Length `yaml:"c"`
	}
	if err := decodeStrict([]byte("a: 2.5cm\nb: 3pc\n"), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(float64(v.A)-2.5*units.CM) > 1e-9 {
		t.Errorf("a = %g", float64(v.A))
	}
	if b, ok := v.B.Points(); !ok || b != 36 {
		t.Errorf("b = %g, %v", b, ok)
	}
	if _, ok := v.C.Points(); ok {
		t.Error("c should be unset")
	}
	if err := decodeStrict([]byte("a: [1, 2]\n"), &v); !errors.Is(err, common.ErrType) {
		t.Errorf("sequence as length: %v", err)
	}
}
