// Package content defines elements placed into containers and stories.
// Elements only know how much room they need, drawing them is up to the
// renderer.
package content

import (
	"fmt"

	"github.com/google/uuid"

	"pdfdesigner/design"
	"pdfdesigner/style"
)

// Element is the capability set layout relies on.
type Element interface {
	ID() uuid.UUID
	Name() string
	SetName(name string)
	Style() *style.Style
	// IsFlowable reports whether element may be split between containers.
	IsFlowable() bool
	// RequiredWidth returns minimal width in points, false when element has
	// no such requirement.
	RequiredWidth() (float64, bool)
	// RequiredHeight returns height needed to draw element completely at
	// given width, false when it is unknown or irrelevant.
	RequiredHeight(width float64) (float64, bool)
}

// WillFit reports whether element fits into width x height box.
func WillFit(e Element, width, height float64) bool {
	if w, ok := e.RequiredWidth(); ok && width < w {
		return false
	}
	if h, ok := e.RequiredHeight(width); ok && height < h {
		return false
	}
	return true
}

// IncrementName returns name of n-th duplicate.
func IncrementName(name string, n int) string {
	return fmt.Sprintf("%s_%d", name, n)
}

// Base carries identity and style, element types embed it.
type Base struct {
	id    uuid.UUID
	name  string
	style *style.Style
}

func newBase(ctx *design.Context, name string, ref design.StyleRef) (Base, error) {
	s, err := ctx.ResolveStyle(ref)
	if err != nil {
		return Base{}, fmt.Errorf("element %q: %w", name, err)
	}
	b := Base{id: uuid.Must(uuid.NewV7()), name: name, style: s}
	if b.name == "" {
		b.name = b.id.String()
	}
	return b, nil
}

func (b *Base) ID() uuid.UUID                  { return b.id }
func (b *Base) Name() string                   { return b.name }
func (b *Base) SetName(name string)            { b.name = name }
func (b *Base) Style() *style.Style            { return b.style }
func (b *Base) IsFlowable() bool               { return b.style != nil && !b.style.KeepTogether() }
func (b *Base) RequiredWidth() (float64, bool) { return 0, false }

func (b *Base) RequiredHeight(float64) (float64, bool) { return 0, false }

// SetStyle resolves and applies style.
func (b *Base) SetStyle(ctx *design.Context, ref design.StyleRef) error {
	s, err := ctx.ResolveStyle(ref)
	if err != nil {
		return fmt.Errorf("element %q: %w", b.name, err)
	}
	b.style = s
	return nil
}

type options struct {
	style     design.StyleRef
	bullet    string
	alignment string
	dpi       float64
	width     float64
	height    float64
	source    string
}

// Option configures element on creation, options not applicable to
// element kind are ignored.
type Option func(*options)

func WithStyle(ref design.StyleRef) Option { return func(o *options) { o.style = ref } }

// WithBullet sets paragraph bullet text.
func WithBullet(bullet string) Option { return func(o *options) { o.bullet = bullet } }

// WithAlignment overrides alignment of paragraph style, style itself is not
// modified.
func WithAlignment(alignment string) Option { return func(o *options) { o.alignment = alignment } }

// WithDPI sets image resolution used when image does not specify its own.
func WithDPI(dpi float64) Option { return func(o *options) { o.dpi = dpi } }

// WithSize scales image to width x height points, zero dimension keeps
// aspect ratio.
func WithSize(width, height float64) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithSource records where image data came from.
func WithSource(source string) Option { return func(o *options) { o.source = source } }

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
