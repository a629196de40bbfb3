package design

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"pdfdesigner/common"
	"pdfdesigner/geometry"
	"pdfdesigner/style"
)

type fakePage struct{ width, height float64 }

func (p fakePage) LiveAreaWidth() float64                    { return p.width }
func (p fakePage) AvailableWidth(uuid.UUID) (float64, bool)  { return p.width, true }
func (p fakePage) AvailableHeight(uuid.UUID) (float64, bool) { return p.height, true }

type fakePages map[uuid.UUID]int

func (f fakePages) PageNumber(id uuid.UUID) (int, bool) {
	n, ok := f[id]
	return n, ok
}

func (f fakePages) PageNumbers(id uuid.UUID) []int {
	if n, ok := f[id]; ok {
		return []int{n}
	}
	return nil
}

func (f fakePages) Page(n int) (Page, bool) { return fakePage{width: 100 * float64(n), height: 50}, n > 0 }

func TestNewDefaults(t *testing.T) {
	c := New(zaptest.NewLogger(t))
	if c.Stylesheet == nil || c.Fonts == nil {
		t.Fatal("defaults are not set")
	}
	if c.Axis != geometry.YUp || c.DefaultStyle != style.DefaultStyleName {
		t.Errorf("unexpected defaults: %v %q", c.Axis, c.DefaultStyle)
	}

	ss := style.NewStylesheet("mine", nil, style.MustNew("body"))
	c = New(nil, WithStylesheet(ss), WithDefaultStyle("body"), WithAxis(geometry.YDown))
	if c.Stylesheet != ss || c.Axis != geometry.YDown || c.Log == nil {
		t.Error("options are not applied")
	}
}

func TestResolveStyle(t *testing.T) {
	c := New(zaptest.NewLogger(t))

	s, err := c.ResolveStyle(StyleRef{})
	if err != nil || s.Name() != "normal" {
		t.Errorf("default: %v, %v", s, err)
	}
	s, err = c.ResolveStyle(StyleNamed("heading 2"))
	if err != nil || s.Name() != "Heading2" {
		t.Errorf("by name: %v, %v", s, err)
	}
	own := style.MustNew("own")
	if s, err := c.ResolveStyle(StyleOf(own)); err != nil || s != own {
		t.Errorf("direct: %v, %v", s, err)
	}
	if _, err := c.ResolveStyle(StyleNamed("nope")); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	c.DefaultStyle = "gone"
	if _, err := c.ResolveStyle(StyleRef{}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing default: err = %v", err)
	}
	var nilCtx *Context
	if _, err := nilCtx.ResolveStyle(StyleNamed("x")); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("nil context: err = %v", err)
	}
}

func TestStyleRef(t *testing.T) {
	if !(StyleRef{}).IsZero() || StyleNamed("a").IsZero() {
		t.Error("IsZero")
	}
	if got := StyleOf(style.MustNew("Title")).String(); got != "Title" {
		t.Errorf("String() = %q", got)
	}
	if got := (StyleRef{}).String(); got != "<default>" {
		t.Errorf("String() = %q", got)
	}
}

func TestContextPage(t *testing.T) {
	placed, loose := uuid.New(), uuid.New()
	c := New(nil, WithPages(fakePages{placed: 2}))

	p, n, ok := c.Page(placed)
	if !ok || n != 2 || p.LiveAreaWidth() != 200 {
		t.Errorf("Page(placed) = %v, %d, %v", p, n, ok)
	}
	if _, _, ok := c.Page(loose); ok {
		t.Error("Page(loose) found")
	}
	if _, _, ok := New(nil).Page(placed); ok {
		t.Error("page found without locator")
	}
}
