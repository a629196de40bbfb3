// Package design holds the state shared by everything that takes part in
// composing a document: the stylesheet, the default style, the page layout
// service and registered fonts.
package design

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfdesigner/common"
	"pdfdesigner/fonts"
	"pdfdesigner/geometry"
	"pdfdesigner/style"
)

// Page is the part of a page layout needs when deriving container
// dimensions.
type Page interface {
	// LiveAreaWidth is the width of the page area inside margins.
	LiveAreaWidth() float64
	// AvailableWidth is the horizontal space left for the container at its
	// position, false when it cannot be determined.
	AvailableWidth(container uuid.UUID) (float64, bool)
	// AvailableHeight is the vertical space left for the container at its
	// position, false when it cannot be determined.
	AvailableHeight(container uuid.UUID) (float64, bool)
}

// PageLocator answers where containers and content elements are placed.
type PageLocator interface {
	// PageNumber returns the first page the object with id is placed on.
	PageNumber(id uuid.UUID) (int, bool)
	// PageNumbers returns all pages the object with id is placed on.
	PageNumbers(id uuid.UUID) []int
	Page(number int) (Page, bool)
}

// Context is passed to every constructor instead of package level
// registries.
type Context struct {
	Stylesheet *style.Stylesheet
	// DefaultStyle names the style used when none is given.
	DefaultStyle string
	// Pages may be nil, dimensions depending on pages are unknown then.
	Pages PageLocator
	Fonts *fonts.Registry
	Axis  geometry.Axis
	Log   *zap.Logger
}

// Option modifies Context created by New.
type Option func(*Context)

func WithStylesheet(ss *style.Stylesheet) Option { return func(c *Context) { c.Stylesheet = ss } }
func WithDefaultStyle(name string) Option        { return func(c *Context) { c.DefaultStyle = name } }
func WithPages(pages PageLocator) Option         { return func(c *Context) { c.Pages = pages } }
func WithFonts(r *fonts.Registry) Option         { return func(c *Context) { c.Fonts = r } }
func WithAxis(axis geometry.Axis) Option         { return func(c *Context) { c.Axis = axis } }

// New creates Context with default stylesheet, empty font registry and PDF
// native y-up axis.
func New(log *zap.Logger, opts ...Option) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Context{
		DefaultStyle: style.DefaultStyleName,
		Axis:         geometry.YUp,
		Log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Stylesheet == nil {
		c.Stylesheet = style.Default()
	}
	if c.Fonts == nil {
		c.Fonts = fonts.NewRegistry(log)
	}
	return c
}

// Logger returns named logger, never nil.
func (c *Context) Logger(name string) *zap.Logger {
	if c == nil || c.Log == nil {
		return zap.NewNop()
	}
	return c.Log.Named(name)
}

// Page returns the first page object with id is placed on and its number.
func (c *Context) Page(id uuid.UUID) (Page, int, bool) {
	if c == nil || c.Pages == nil {
		return nil, 0, false
	}
	n, ok := c.Pages.PageNumber(id)
	if !ok {
		return nil, 0, false
	}
	p, ok := c.Pages.Page(n)
	return p, n, ok
}

// ResolveStyle turns reference into style. Zero reference means the
// default style.
func (c *Context) ResolveStyle(ref StyleRef) (*style.Style, error) {
	if ref.style != nil {
		return ref.style, nil
	}
	if c == nil || c.Stylesheet == nil {
		return nil, fmt.Errorf("%w: no stylesheet to resolve style %q", common.ErrConfiguration, ref.name)
	}
	name := ref.name
	if name == "" {
		name = c.DefaultStyle
	}
	return c.Stylesheet.Get(name, false)
}
