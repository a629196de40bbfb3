package design

import "pdfdesigner/style"

// StyleRef refers to a style either by name, resolved against the context
// stylesheet, or directly.
type StyleRef struct {
	name  string
	style *style.Style
}

func StyleNamed(name string) StyleRef  { return StyleRef{name: name} }
func StyleOf(s *style.Style) StyleRef  { return StyleRef{style: s} }
func (r StyleRef) IsZero() bool        { return r.name == "" && r.style == nil }
func (r StyleRef) Style() *style.Style { return r.style }

// Name returns referenced style name.
func (r StyleRef) Name() string {
	if r.style != nil {
		return r.style.Name()
	}
	return r.name
}

func (r StyleRef) String() string {
	if r.IsZero() {
		return "<default>"
	}
	return r.Name()
}
