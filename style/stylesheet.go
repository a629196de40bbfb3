package style

import (
	"fmt"

	"pdfdesigner/common"
)

// Stylesheet is an ordered collection of styles looked up by identifier
// normalized name.
type Stylesheet struct {
	name    string
	basedOn string
	styles  map[string]*Style
	order   []string
}

// NewStylesheet creates stylesheet. When base is not nil its styles are
// copied first, then styles are added replacing copies with the same name.
func NewStylesheet(name string, base *Stylesheet, styles ...*Style) *Stylesheet {
	ss := &Stylesheet{name: name, styles: make(map[string]*Style)}
	if base != nil {
		ss.basedOn = base.name
		for _, s := range base.Styles() {
			ss.put(s.Clone(s.name))
		}
	}
	for _, s := range styles {
		ss.put(s)
	}
	return ss
}

func (ss *Stylesheet) Name() string        { return ss.name }
func (ss *Stylesheet) BasedOnName() string { return ss.basedOn }
func (ss *Stylesheet) Len() int            { return len(ss.order) }

func (ss *Stylesheet) put(s *Style) {
	id := s.IdentifierName()
	if _, exists := ss.styles[id]; !exists {
		ss.order = append(ss.order, id)
	}
	ss.styles[id] = s
}

// Styles returns styles in insertion order.
func (ss *Stylesheet) Styles() []*Style {
	out := make([]*Style, 0, len(ss.order))
	for _, id := range ss.order {
		out = append(out, ss.styles[id])
	}
	return out
}

// Has reports whether style with the name is present.
func (ss *Stylesheet) Has(name string) bool {
	_, ok := ss.styles[Identifier(name)]
	return ok
}

// Add stores style. Replacing existing style with the same name is an error
// unless overwrite is set, replaced style keeps its position.
func (ss *Stylesheet) Add(s *Style, overwrite bool) error {
	if s == nil {
		return fmt.Errorf("%w: nil style", common.ErrType)
	}
	if ss.Has(s.name) && !overwrite {
		return fmt.Errorf("%w: style %q already exists in stylesheet %q", common.ErrConflict, s.name, ss.name)
	}
	ss.put(s)
	return nil
}

// AddStyles adds styles one by one, stopping on first error.
func (ss *Stylesheet) AddStyles(overwrite bool, styles ...*Style) error {
	for _, s := range styles {
		if err := ss.Add(s, overwrite); err != nil {
			return err
		}
	}
	return nil
}

// Get returns named style. Missing style is reported as (nil, nil) when
// failSilently is set and as lookup error otherwise.
func (ss *Stylesheet) Get(name string, failSilently bool) (*Style, error) {
	if s, ok := ss.styles[Identifier(name)]; ok {
		return s, nil
	}
	if failSilently {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: style %q not found in stylesheet %q", common.ErrNotFound, name, ss.name)
}

// Remove deletes named style and returns it, nil if it was not present.
func (ss *Stylesheet) Remove(name string) *Style {
	id := Identifier(name)
	s, ok := ss.styles[id]
	if !ok {
		return nil
	}
	delete(ss.styles, id)
	for i, v := range ss.order {
		if v == id {
			ss.order = append(ss.order[:i], ss.order[i+1:]...)
			break
		}
	}
	return s
}
