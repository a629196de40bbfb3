package page

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/design"
	"pdfdesigner/geometry"
	"pdfdesigner/layout"
	"pdfdesigner/units"
)

func newDocument(t *testing.T, axis geometry.Axis, pages int) (*Document, *design.Context) {
	t.Helper()
	log := zaptest.NewLogger(t)
	doc := NewDocument(log, WithAxis(axis), WithMargins(UniformMargins(72)))
	for range pages {
		doc.AddPage()
	}
	return doc, design.New(log, design.WithPages(doc), design.WithAxis(axis))
}

func container(t *testing.T, ctx *design.Context, name string, opts ...layout.ContainerOption) *layout.Container {
	t.Helper()
	c, err := layout.NewContainer(ctx, name, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPages(t *testing.T) {
	doc := NewDocument(zaptest.NewLogger(t))
	p1 := doc.AddPage()
	p2 := doc.AddPage(WithPageSize(units.A4), WithOrientation(units.Landscape), WithMargins(UniformMargins(36)))

	if p1.Number() != 1 || p2.Number() != 2 || doc.Len() != 2 {
		t.Fatalf("numbers = %d, %d, len = %d", p1.Number(), p2.Number(), doc.Len())
	}
	if diff := cmp.Diff(rect.Rect{URx: 612, URy: 792}, p1.MediaBox()); diff != "" {
		t.Errorf("Letter media box mismatch (-want +got):\n%s", diff)
	}
	if p1.LiveAreaWidth() != 468 || p1.LiveAreaHeight() != 648 {
		t.Errorf("Letter live area = %v x %v", p1.LiveAreaWidth(), p1.LiveAreaHeight())
	}
	if want := geometry.NewBoundingBox(72, 720, 540, 72); p1.LiveArea() != want {
		t.Errorf("LiveArea() = %v, want %v", p1.LiveArea(), want)
	}
	if p2.Size().Width <= p2.Size().Height || p2.Orientation() != units.Landscape {
		t.Errorf("landscape page size = %v", p2.Size())
	}
	if _, ok := doc.PageAt(3); ok {
		t.Error("PageAt(3) found page")
	}
	if _, ok := doc.Page(0); ok {
		t.Error("Page(0) found page")
	}
}

func TestLiveAreaYDown(t *testing.T) {
	doc, _ := newDocument(t, geometry.YDown, 1)
	p, _ := doc.PageAt(1)
	if want := geometry.NewBoundingBox(72, 72, 540, 720); p.LiveArea() != want {
		t.Errorf("LiveArea() = %v, want %v", p.LiveArea(), want)
	}
}

func TestPlace(t *testing.T) {
	doc, ctx := newDocument(t, geometry.YUp, 2)
	para, err := content.NewParagraph(ctx, "p", "hello")
	if err != nil {
		t.Fatal(err)
	}
	header := container(t, ctx, "header", layout.WithHeight(100))
	body := container(t, ctx, "body", layout.WithContents(para))
	spill := container(t, ctx, "spill", layout.WithContents(para))

	if err := doc.Place(nil, 1); !errors.Is(err, common.ErrType) {
		t.Errorf("Place(nil): err = %v", err)
	}
	if err := doc.Place(body, 5); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Place on missing page: err = %v", err)
	}
	for _, step := range []struct {
		c *layout.Container
		n int
	}{{header, 1}, {body, 1}, {spill, 2}} {
		if err := doc.Place(step.c, step.n); err != nil {
			t.Fatal(err)
		}
	}

	// derived dimensions come from the page
	if w, h, ok := body.Dimensions(); !ok || w != 468 || h != 548 {
		t.Errorf("body Dimensions() = %v, %v, %v", w, h, ok)
	}
	if n, ok := doc.PageNumber(para.ID()); !ok || n != 1 {
		t.Errorf("PageNumber(element) = %v, %v", n, ok)
	}
	if diff := cmp.Diff([]int{1, 2}, doc.PageNumbers(para.ID())); diff != "" {
		t.Errorf("PageNumbers() mismatch (-want +got):\n%s", diff)
	}
	if cs := doc.ContainersOf(para.ID(), true); len(cs) != 1 || cs[0] != body {
		t.Errorf("ContainersOf(first) = %v", cs)
	}
	if cs := doc.ContainersOf(para.ID(), false); len(cs) != 2 {
		t.Errorf("ContainersOf(all) = %d containers", len(cs))
	}
	if v, ok := doc.Component(header.ID()); !ok || v != any(header) {
		t.Errorf("Component(header) = %v, %v", v, ok)
	}
	if e, ok := doc.Element(para.ID()); !ok || e != content.Element(para) {
		t.Errorf("Element(p) = %v, %v", e, ok)
	}
	if _, ok := doc.Component(uuid.New()); ok {
		t.Error("Component(random) found something")
	}

	// moving container
	if err := doc.Place(body, 2); err != nil {
		t.Fatal(err)
	}
	p1, _ := doc.PageAt(1)
	if len(p1.Containers()) != 1 {
		t.Errorf("page 1 keeps %d containers after move", len(p1.Containers()))
	}
	if n, _ := body.PageNumber(); n != 2 {
		t.Errorf("body page = %d", n)
	}
}

func TestAvailableHeight(t *testing.T) {
	doc, ctx := newDocument(t, geometry.YUp, 2)
	top := container(t, ctx, "top", layout.WithAnchorCoordinate(72, 500))
	bottom := container(t, ctx, "bottom", layout.WithAnchor(geometry.BottomLeft), layout.WithAnchorCoordinate(72, 100))
	middle := container(t, ctx, "middle", layout.WithAnchor(geometry.MiddleCenter), layout.WithAnchorCoordinate(306, 500), layout.WithWidth(100))
	right := container(t, ctx, "right", layout.WithAnchor(geometry.TopRight), layout.WithAnchorCoordinate(400, 700))
	fixed := container(t, ctx, "fixed", layout.WithTransformCoordinates(vec.Vec2{X: 72, Y: 300}, vec.Vec2{X: 200, Y: 200}))
	header := container(t, ctx, "header", layout.WithHeight(100))
	loose := container(t, ctx, "loose")
	for _, step := range []struct {
		c *layout.Container
		n int
	}{{top, 1}, {bottom, 1}, {middle, 1}, {right, 1}, {fixed, 1}, {header, 2}, {loose, 2}} {
		if err := doc.Place(step.c, step.n); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		c    *layout.Container
		w, h float64
		box  geometry.BoundingBox
	}{
		{top, 468, 428, geometry.NewBoundingBox(72, 500, 540, 72)},
		{bottom, 468, 620, geometry.NewBoundingBox(72, 720, 540, 100)},
		{middle, 100, 440, geometry.NewBoundingBox(256, 720, 356, 280)},
		{right, 328, 628, geometry.NewBoundingBox(72, 700, 400, 72)},
		{fixed, 128, 100, geometry.NewBoundingBox(72, 300, 200, 200)},
		{header, 468, 100, geometry.NewBoundingBox(72, 720, 540, 620)},
		{loose, 468, 548, geometry.NewBoundingBox(72, 620, 540, 72)},
	}
	for _, tc := range cases {
		if w, h, ok := tc.c.Dimensions(); !ok || w != tc.w || h != tc.h {
			t.Errorf("%s before pass: Dimensions() = %v x %v, %v, want %v x %v", tc.c.Name(), w, h, ok, tc.w, tc.h)
		}
	}
	if p, _ := doc.PageAt(1); p != nil {
		if _, ok := p.AvailableHeight(uuid.New()); ok {
			t.Error("AvailableHeight of unplaced container")
		}
	}

	// the pass agrees with what containers reported before it
	doc.ResolveEdges()
	for _, tc := range cases {
		if tc.c.Box() != tc.box {
			t.Errorf("%s box = %v, want %v", tc.c.Name(), tc.c.Box(), tc.box)
		}
		if w, h, _ := tc.c.Dimensions(); w != tc.w || h != tc.h {
			t.Errorf("%s after pass: Dimensions() = %v x %v, want %v x %v", tc.c.Name(), w, h, tc.w, tc.h)
		}
	}
	if o, ok := middle.Origin(); !ok || o != (vec.Vec2{X: 306, Y: 500}) {
		t.Errorf("middle Origin() = %v, %v", o, ok)
	}
	if o, ok := bottom.Origin(); !ok || o != (vec.Vec2{X: 72, Y: 100}) {
		t.Errorf("bottom Origin() = %v, %v", o, ok)
	}
}

func TestAvailableHeightYDown(t *testing.T) {
	doc, ctx := newDocument(t, geometry.YDown, 1)
	bottom := container(t, ctx, "bottom", layout.WithAnchor(geometry.BottomCenter), layout.WithAnchorCoordinate(306, 600), layout.WithWidth(100))
	middle := container(t, ctx, "middle", layout.WithAnchor(geometry.MiddleLeft), layout.WithAnchorCoordinate(72, 200))
	for _, c := range []*layout.Container{bottom, middle} {
		if err := doc.Place(c, 1); err != nil {
			t.Fatal(err)
		}
	}
	if h, ok := bottom.Height(); !ok || h != 528 {
		t.Errorf("bottom Height() = %v, %v", h, ok)
	}
	if h, ok := middle.Height(); !ok || h != 256 {
		t.Errorf("middle Height() = %v, %v", h, ok)
	}
	doc.ResolveEdges()
	if want := geometry.NewBoundingBox(256, 72, 356, 600); bottom.Box() != want {
		t.Errorf("bottom box = %v, want %v", bottom.Box(), want)
	}
	if want := geometry.NewBoundingBox(72, 72, 540, 328); middle.Box() != want {
		t.Errorf("middle box = %v, want %v", middle.Box(), want)
	}
}

func TestCapacityOfAnchoredContainer(t *testing.T) {
	doc, ctx := newDocument(t, geometry.YUp, 1)
	c := container(t, ctx, "footer", layout.WithAnchor(geometry.BottomLeft), layout.WithAnchorCoordinate(72, 650))
	if err := doc.Place(c, 1); err != nil {
		t.Fatal(err)
	}
	fits, err := content.NewSpacer(ctx, "fits", 70)
	if err != nil {
		t.Fatal(err)
	}
	tall, err := content.NewSpacer(ctx, "tall", 71)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AddContentElement(fits); err != nil {
		t.Errorf("AddContentElement(fits): %v", err)
	}
	if err := c.AddContentElement(tall); !errors.Is(err, common.ErrCapacity) {
		t.Errorf("AddContentElement(tall): err = %v", err)
	}
}

func TestResolveEdges(t *testing.T) {
	for _, tc := range []struct {
		name  string
		axis  geometry.Axis
		first geometry.BoundingBox
		rest  geometry.BoundingBox
	}{
		{"up", geometry.YUp, geometry.NewBoundingBox(72, 720, 540, 620), geometry.NewBoundingBox(72, 620, 540, 72)},
		{"down", geometry.YDown, geometry.NewBoundingBox(72, 72, 540, 172), geometry.NewBoundingBox(72, 172, 540, 720)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, ctx := newDocument(t, tc.axis, 1)
			first := container(t, ctx, "first", layout.WithHeight(100))
			rest := container(t, ctx, "rest")
			done := container(t, ctx, "done", layout.WithTransformCoordinates(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 10}))
			for _, c := range []*layout.Container{first, rest, done} {
				if err := doc.Place(c, 1); err != nil {
					t.Fatal(err)
				}
			}
			doneBox := done.Box()

			if n := doc.ResolveEdges(); n != 2 {
				t.Errorf("ResolveEdges() = %d", n)
			}
			if first.Box() != tc.first {
				t.Errorf("first = %v, want %v", first.Box(), tc.first)
			}
			if rest.Box() != tc.rest {
				t.Errorf("rest = %v, want %v", rest.Box(), tc.rest)
			}
			if done.Box() != doneBox {
				t.Errorf("resolved box changed to %v", done.Box())
			}
			if n := doc.ResolveEdges(); n != 0 {
				t.Errorf("second pass changed %d containers", n)
			}
		})
	}
}

func TestResolvePartialEdges(t *testing.T) {
	doc, ctx := newDocument(t, geometry.YUp, 1)
	right := container(t, ctx, "right", layout.WithAnchor(geometry.BottomRight), layout.WithAnchorCoordinate(540, 72), layout.WithWidth(100))
	if err := doc.Place(right, 1); err != nil {
		t.Fatal(err)
	}
	doc.ResolveEdges()
	if want := geometry.NewBoundingBox(440, 720, 540, 72); right.Box() != want {
		t.Errorf("Box() = %v, want %v", right.Box(), want)
	}
	if !strings.Contains(doc.String(), "right: box=((440,720),(540,72))") {
		t.Errorf("String() = %q", doc.String())
	}
}
