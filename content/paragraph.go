package content

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"pdfdesigner/design"
	"pdfdesigner/style"
)

// Paragraph is a block of text drawn with single style.
type Paragraph struct {
	Base
	text   string
	bullet string
}

func NewParagraph(ctx *design.Context, name, text string, opts ...Option) (*Paragraph, error) {
	o := collect(opts)
	b, err := newBase(ctx, name, o.style)
	if err != nil {
		return nil, err
	}
	p := &Paragraph{Base: b, text: text, bullet: o.bullet}
	if o.alignment != "" {
		s := p.style.Clone(p.style.Name())
		if err := s.Set("alignment", o.alignment); err != nil {
			return nil, fmt.Errorf("paragraph %q: %w", p.name, err)
		}
		p.style = s
	}
	ctx.Logger("content").Debug("Paragraph created", zap.String("name", p.name), zap.String("style", p.style.Name()))
	return p, nil
}

// RawText returns text as given.
func (p *Paragraph) RawText() string { return p.text }
func (p *Paragraph) Bullet() string  { return p.bullet }

// Text returns text with style text transformation applied.
func (p *Paragraph) Text() string {
	switch p.style.TextTransformation() {
	case "UPPERCASE":
		return cases.Upper(language.Und).String(p.text)
	case "LOWERCASE":
		return cases.Lower(language.Und).String(p.text)
	}
	return p.text
}

// RequiredHeight estimates height of paragraph kept together. Glyph
// metrics belong to renderer, so average advance of half em for narrow and
// full em for wide East Asian characters is assumed.
func (p *Paragraph) RequiredHeight(w float64) (float64, bool) {
	if p.IsFlowable() {
		return 0, false
	}
	s := p.style
	avail := w - s.LeftIndent() - s.RightIndent()
	if avail <= 0 {
		return 0, false
	}

	size := s.FontSize()
	lines, x := 1, s.FirstLineIndent()
	for _, r := range p.Text() {
		if r == '\n' {
			lines++
			x = 0
			continue
		}
		adv := size / 2
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			adv = size
		}
		if x+adv > avail && x > 0 {
			lines++
			x = 0
		}
		x += adv
	}

	h := float64(lines)*s.Leading() + s.SpaceBefore() + s.SpaceAfter()
	return math.Ceil(h*100) / 100, true
}

func (p *Paragraph) String() string {
	return fmt.Sprintf("Paragraph(%s, style=%s)", p.name, styleName(p.style))
}

func styleName(s *style.Style) string {
	if s == nil {
		return "<none>"
	}
	return s.Name()
}
