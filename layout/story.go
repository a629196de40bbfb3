package layout

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/content"
	"pdfdesigner/design"
	"pdfdesigner/utils/debug"
)

// Story is an ordered chain of containers together with content flowing
// through them, possibly across pages.
type Story struct {
	ctx       *design.Context
	log       *zap.Logger
	id        uuid.UUID
	name      string
	jumplines bool

	containers *ordered[uuid.UUID, *Container]
	pages      map[uuid.UUID]int

	contents *ordered[uuid.UUID, content.Element]
	// element replacing entry in place is known by its own id too
	aliases map[uuid.UUID]uuid.UUID
	// original id -> number of its duplicates present
	dupCounts map[uuid.UUID]int
	// duplicate id -> original id
	dupOriginal map[uuid.UUID]uuid.UUID
}

type storyConfig struct {
	containers []*Container
	contents   []content.Element
	jumplines  bool
}

// StoryOption configures Story created by NewStory.
type StoryOption func(*storyConfig)

func WithContainers(cs ...*Container) StoryOption {
	return func(c *storyConfig) { c.containers = append(c.containers, cs...) }
}

func WithContent(elems ...content.Element) StoryOption {
	return func(c *storyConfig) { c.contents = append(c.contents, elems...) }
}

// WithJumplines controls "continued on page" markers, they are on by
// default.
func WithJumplines(show bool) StoryOption {
	return func(c *storyConfig) { c.jumplines = show }
}

// NewStory creates story adding containers first, their content included,
// then standalone content.
func NewStory(ctx *design.Context, name string, opts ...StoryOption) (*Story, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: story %q: no design context", common.ErrConfiguration, name)
	}
	cfg := storyConfig{jumplines: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Story{
		ctx:         ctx,
		log:         ctx.Logger("layout"),
		id:          uuid.Must(uuid.NewV7()),
		name:        name,
		jumplines:   cfg.jumplines,
		containers:  newOrdered[uuid.UUID, *Container](),
		pages:       make(map[uuid.UUID]int),
		contents:    newOrdered[uuid.UUID, content.Element](),
		aliases:     make(map[uuid.UUID]uuid.UUID),
		dupCounts:   make(map[uuid.UUID]int),
		dupOriginal: make(map[uuid.UUID]uuid.UUID),
	}
	if len(cfg.containers) > 0 {
		if err := s.AddContainers(cfg.containers...); err != nil {
			return nil, fmt.Errorf("story %q: %w", name, err)
		}
	}
	if len(cfg.contents) > 0 {
		if err := s.AddContentElements(cfg.contents); err != nil {
			return nil, fmt.Errorf("story %q: %w", name, err)
		}
	}
	return s, nil
}

func (s *Story) ID() uuid.UUID                   { return s.id }
func (s *Story) Name() string                    { return s.name }
func (s *Story) SetName(name string)             { s.name = name }
func (s *Story) ShowJumplines() bool             { return s.jumplines }
func (s *Story) SetShowJumplines(show bool)      { s.jumplines = show }
func (s *Story) Containers() []*Container        { return s.containers.Values() }
func (s *Story) Elements() []content.Element     { return s.contents.Values() }
func (s *Story) Len() int                        { return s.contents.Len() }
func (s *Story) DuplicateCount(id uuid.UUID) int { return s.dupCounts[id] }

// AddContainer registers container, records its page and adds its content
// in container order. Registered container only gets its page refreshed.
func (s *Story) AddContainer(c *Container) error {
	if c == nil {
		return fmt.Errorf("%w: nil container", common.ErrType)
	}
	s.refreshPage(c)
	if s.containers.Has(c.id) {
		return nil
	}
	s.containers.Set(c.id, c)
	s.log.Debug("Container added to story", zap.String("story", s.name), zap.String("container", c.name), zap.Int("page", s.pages[c.id]))

	if c.Len() > 0 {
		return s.AddContentElements(c.Elements())
	}
	return nil
}

func (s *Story) AddContainers(cs ...*Container) error {
	if len(cs) == 0 {
		return fmt.Errorf("%w: no containers to add", common.ErrConfiguration)
	}
	for _, c := range cs {
		if err := s.AddContainer(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Story) refreshPage(c *Container) {
	if n, ok := c.PageNumber(); ok {
		s.pages[c.id] = n
	} else {
		delete(s.pages, c.id)
	}
}

// RefreshPages queries page numbers of all containers again, placement
// may change after containers were added.
func (s *Story) RefreshPages() {
	for _, c := range s.containers.Values() {
		s.refreshPage(c)
	}
}

// PageOf returns page number recorded for container.
func (s *Story) PageOf(c *Container) (int, bool) {
	if c == nil {
		return 0, false
	}
	n, ok := s.pages[c.id]
	return n, ok
}

// Jumpline tells that content of a container continues on another page.
type Jumpline struct {
	Container   *Container
	ContinuedOn int
}

// Jumplines returns markers for every container but the last one whose
// successor page is known, nothing when jumplines are off.
func (s *Story) Jumplines() []Jumpline {
	if !s.jumplines {
		return nil
	}
	cs := s.containers.Values()
	var out []Jumpline
	for i := 0; i+1 < len(cs); i++ {
		if n, ok := s.pages[cs[i+1].id]; ok {
			out = append(out, Jumpline{Container: cs[i], ContinuedOn: n})
		}
	}
	return out
}

type addConfig struct {
	overwrite bool
	duplicate bool
}

// AddOption selects what happens when added element is already present.
type AddOption func(*addConfig)

// WithOverwrite replaces present element in place.
func WithOverwrite(overwrite bool) AddOption {
	return func(c *addConfig) { c.overwrite = overwrite }
}

// WithDuplicate adds present element again as a distinct renamed entry,
// this is the default.
func WithDuplicate(duplicate bool) AddOption {
	return func(c *addConfig) { c.duplicate = duplicate }
}

// AddContentElement appends element. When element is already present,
// by id or by name, overwrite replaces existing entry keeping its position,
// duplicate adds new entry named name_N, and with neither conflict error is
// returned leaving story unchanged.
func (s *Story) AddContentElement(e content.Element, opts ...AddOption) error {
	if e == nil {
		return fmt.Errorf("%w: nil content element", common.ErrType)
	}
	cfg := addConfig{duplicate: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	existing, present := s.entryID(e)
	switch {
	case !present:
		s.contents.Set(e.ID(), e)
	case cfg.overwrite:
		s.contents.Set(existing, e)
		if e.ID() != existing {
			s.aliases[e.ID()] = existing
		}
	case cfg.duplicate:
		if orig, ok := s.dupOriginal[existing]; ok {
			existing = orig
		}
		d := s.newDuplicate(existing, e)
		s.contents.Set(d.id, d)
		s.dupCounts[existing]++
		s.dupOriginal[d.id] = existing
		s.log.Debug("Duplicate content element", zap.String("story", s.name), zap.String("name", d.name))
	default:
		return fmt.Errorf("%w: content element %q already exists in story %q, neither overwrite nor duplicate is allowed",
			common.ErrConflict, e.Name(), s.name)
	}
	return nil
}

// AddContentElements adds elements in order, stopping at first failure.
func (s *Story) AddContentElements(elems []content.Element, opts ...AddOption) error {
	if len(elems) == 0 {
		return fmt.Errorf("%w: no content elements to add", common.ErrConfiguration)
	}
	for _, e := range elems {
		if err := s.AddContentElement(e, opts...); err != nil {
			return err
		}
	}
	return nil
}

func (s *Story) newDuplicate(original uuid.UUID, e content.Element) *duplicate {
	base := e.Name()
	if orig, ok := s.contents.Get(original); ok {
		base = orig.Name()
	}
	n := s.dupCounts[original] + 1
	for s.elementByName(content.IncrementName(base, n)) != nil {
		n++
	}
	return &duplicate{Element: Unwrap(e), id: uuid.Must(uuid.NewV7()), name: content.IncrementName(base, n)}
}

// entryID finds the entry element is stored under.
func (s *Story) entryID(e content.Element) (uuid.UUID, bool) {
	if s.contents.Has(e.ID()) {
		return e.ID(), true
	}
	if id, ok := s.aliases[e.ID()]; ok && s.contents.Has(id) {
		return id, true
	}
	if found := s.elementByName(e.Name()); found != nil {
		return found.ID(), true
	}
	return uuid.Nil, false
}

func (s *Story) elementByName(name string) content.Element {
	for _, e := range s.contents.Values() {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// resolveContent turns id, name or element into entry id.
func (s *Story) resolveContent(ref any) (uuid.UUID, bool, error) {
	switch v := ref.(type) {
	case uuid.UUID:
		if s.contents.Has(v) {
			return v, true, nil
		}
		if id, ok := s.aliases[v]; ok && s.contents.Has(id) {
			return id, true, nil
		}
		return uuid.Nil, false, nil
	case string:
		if e := s.elementByName(v); e != nil {
			id, _ := s.entryID(e)
			return id, true, nil
		}
		return uuid.Nil, false, nil
	case content.Element:
		if v == nil {
			return uuid.Nil, false, nil
		}
		id, ok := s.entryID(v)
		return id, ok, nil
	}
	return uuid.Nil, false, fmt.Errorf("%w: content element reference must be id, name or element, got %T", common.ErrType, ref)
}

// GetContentElement finds element by id, name or element itself.
func (s *Story) GetContentElement(ref any, failSilently bool) (content.Element, error) {
	id, ok, err := s.resolveContent(ref)
	if err != nil {
		return nil, err
	}
	if ok {
		e, _ := s.contents.Get(id)
		return e, nil
	}
	if failSilently {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: content element %v not found in story %q", common.ErrNotFound, ref, s.name)
}

// RemoveContentElement removes element given by id, name or element
// itself and returns it, nil when it is not present. With removeDuplicates
// all duplicates of the element are removed first.
func (s *Story) RemoveContentElement(ref any, removeDuplicates bool) (content.Element, error) {
	id, ok, err := s.resolveContent(ref)
	if err != nil || !ok {
		return nil, err
	}

	if removeDuplicates && s.dupCounts[id] > 0 {
		for _, dupID := range s.contents.Keys() {
			if s.dupOriginal[dupID] == id {
				if _, err := s.RemoveContentElement(dupID, false); err != nil {
					return nil, err
				}
			}
		}
	}

	if orig, isDuplicate := s.dupOriginal[id]; isDuplicate {
		s.dupCounts[orig]--
		if s.dupCounts[orig] <= 0 {
			delete(s.dupCounts, orig)
		}
		delete(s.dupOriginal, id)
	}
	for alias, target := range s.aliases {
		if target == id {
			delete(s.aliases, alias)
		}
	}
	removed, _ := s.contents.Delete(id)
	return removed, nil
}

// RemoveContentElements removes elements one by one, stopping at first
// failure.
func (s *Story) RemoveContentElements(elems []content.Element, removeDuplicates bool) error {
	for _, e := range elems {
		if _, err := s.RemoveContentElement(e, removeDuplicates); err != nil {
			return err
		}
	}
	return nil
}

func (s *Story) resolveContainer(ref any) (*Container, error) {
	switch v := ref.(type) {
	case uuid.UUID:
		c, _ := s.containers.Get(v)
		return c, nil
	case string:
		for _, c := range s.containers.Values() {
			if c.name == v {
				return c, nil
			}
		}
		return nil, nil
	case *Container:
		if v != nil && s.containers.Has(v.id) {
			return v, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("%w: container reference must be id, name or container, got %T", common.ErrType, ref)
}

// GetContainer finds container by id, name or container itself.
func (s *Story) GetContainer(ref any, failSilently bool) (*Container, error) {
	c, err := s.resolveContainer(ref)
	if err != nil {
		return nil, err
	}
	if c == nil && !failSilently {
		return nil, fmt.Errorf("%w: container %v not found in story %q", common.ErrNotFound, ref, s.name)
	}
	return c, nil
}

// RemoveContainer unregisters container and, with removeContents, its
// content elements. Duplicates of that content stay.
func (s *Story) RemoveContainer(ref any, removeContents bool) (*Container, error) {
	c, err := s.resolveContainer(ref)
	if err != nil || c == nil {
		return nil, err
	}
	if removeContents {
		if err := s.RemoveContentElements(c.Elements(), false); err != nil {
			return nil, err
		}
	}
	delete(s.pages, c.id)
	s.containers.Delete(c.id)
	return c, nil
}

// Contains accepts id, name, container or content element.
func (s *Story) Contains(x any) bool {
	switch v := x.(type) {
	case *Container:
		return v != nil && s.containers.Has(v.id)
	case uuid.UUID:
		if s.containers.Has(v) {
			return true
		}
	case string:
		if c, _ := s.resolveContainer(v); c != nil {
			return true
		}
	case content.Element:
	default:
		return false
	}
	_, ok, _ := s.resolveContent(x)
	return ok
}

func (s *Story) String() string {
	tw := debug.NewTreeWriter()
	tw.Fields(0, "Story "+s.name, "containers", s.containers.Len(), "elements", s.contents.Len(), "jumplines", s.jumplines)
	for _, c := range s.containers.Values() {
		page := "?"
		if n, ok := s.pages[c.id]; ok {
			page = fmt.Sprint(n)
		}
		tw.Line(1, "page %s", page)
		c.dump(tw, 2)
	}
	if s.contents.Len() > 0 {
		tw.Line(1, "Contents")
		for _, e := range s.contents.Values() {
			line := fmt.Sprint(e)
			if orig, ok := s.dupOriginal[e.ID()]; ok {
				line += " duplicates " + orig.String()
			}
			tw.Line(2, "%s", line)
		}
	}
	return tw.String()
}

// duplicate is another entry of the same element under its own identity.
type duplicate struct {
	content.Element
	id   uuid.UUID
	name string
}

func (d *duplicate) ID() uuid.UUID             { return d.id }
func (d *duplicate) Name() string              { return d.name }
func (d *duplicate) SetName(name string)       { d.name = name }
func (d *duplicate) Original() content.Element { return d.Element }

func (d *duplicate) String() string {
	return fmt.Sprintf("%v as %s", d.Element, d.name)
}

// Unwrap returns element duplicate entry refers to, or element itself.
func Unwrap(e content.Element) content.Element {
	if d, ok := e.(*duplicate); ok {
		return d.Element
	}
	return e
}

// IsDuplicate reports whether element is a duplicate entry.
func IsDuplicate(e content.Element) bool {
	_, ok := e.(*duplicate)
	return ok
}
