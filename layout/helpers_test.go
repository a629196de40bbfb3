package layout

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"pdfdesigner/content"
	"pdfdesigner/design"
	"pdfdesigner/style"
)

type fakePage struct {
	width  float64
	height map[uuid.UUID]float64
}

func (p *fakePage) LiveAreaWidth() float64 { return p.width }

func (p *fakePage) AvailableWidth(id uuid.UUID) (float64, bool) {
	_, ok := p.height[id]
	return p.width, ok
}

func (p *fakePage) AvailableHeight(id uuid.UUID) (float64, bool) {
	h, ok := p.height[id]
	return h, ok
}

// fakePages places objects on pages by hand.
type fakePages struct {
	placed map[uuid.UUID]int
	pages  map[int]*fakePage
}

func newFakePages() *fakePages {
	return &fakePages{placed: make(map[uuid.UUID]int), pages: make(map[int]*fakePage)}
}

func (f *fakePages) place(id uuid.UUID, page int, width, height float64) {
	p, ok := f.pages[page]
	if !ok {
		p = &fakePage{height: make(map[uuid.UUID]float64)}
		f.pages[page] = p
	}
	p.width = width
	p.height[id] = height
	f.placed[id] = page
}

func (f *fakePages) PageNumber(id uuid.UUID) (int, bool) {
	n, ok := f.placed[id]
	return n, ok
}

func (f *fakePages) PageNumbers(id uuid.UUID) []int {
	if n, ok := f.placed[id]; ok {
		return []int{n}
	}
	return nil
}

func (f *fakePages) Page(n int) (design.Page, bool) {
	p, ok := f.pages[n]
	return p, ok
}

func testContext(t *testing.T) (*design.Context, *fakePages) {
	t.Helper()
	pages := newFakePages()
	return design.New(zaptest.NewLogger(t), design.WithPages(pages)), pages
}

func paragraph(t *testing.T, ctx *design.Context, name string) *content.Paragraph {
	t.Helper()
	p, err := content.NewParagraph(ctx, name, "text of "+name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func keptParagraph(t *testing.T, ctx *design.Context, name string) *content.Paragraph {
	t.Helper()
	kept := style.MustNew("kept", style.With("keep_together", true))
	p, err := content.NewParagraph(ctx, name, "text of "+name, content.WithStyle(design.StyleOf(kept)))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func spacer(t *testing.T, ctx *design.Context, name string, h float64) *content.Spacer {
	t.Helper()
	s, err := content.NewSpacer(ctx, name, h)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func names(elems []content.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Name())
	}
	return out
}
