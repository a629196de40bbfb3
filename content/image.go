package content

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"pdfdesigner/design"
	"pdfdesigner/utils/images"
)

// Image is a picture of fixed size, it never flows.
type Image struct {
	Base
	data   []byte
	info   *images.Info
	source string
	width  float64
	height float64
}

// NewImage measures image data. Its size in points comes from WithSize,
// otherwise from pixel dimensions and resolution.
func NewImage(ctx *design.Context, name string, data []byte, opts ...Option) (*Image, error) {
	o := collect(opts)
	b, err := newBase(ctx, name, o.style)
	if err != nil {
		return nil, err
	}
	info, err := images.Measure(data)
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", b.name, err)
	}

	dpi := o.dpi
	if dpi <= 0 {
		dpi = images.DefaultDPI
	}
	w, h := info.Points(dpi)
	switch {
	case o.width > 0 && o.height > 0:
		w, h = o.width, o.height
	case o.width > 0:
		w, h = o.width, h*o.width/w
	case o.height > 0:
		w, h = w*o.height/h, o.height
	}

	img := &Image{Base: b, data: data, info: info, source: o.source, width: w, height: h}
	ctx.Logger("content").Debug("Image measured",
		zap.String("name", img.name),
		zap.String("format", info.Format),
		zap.Float64("width", w),
		zap.Float64("height", h))
	return img, nil
}

// LoadImage reads image file.
func LoadImage(ctx *design.Context, name, path string, opts ...Option) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	return NewImage(ctx, name, data, append([]Option{WithSource(path)}, opts...)...)
}

func (i *Image) IsFlowable() bool               { return false }
func (i *Image) Info() images.Info              { return *i.info }
func (i *Image) Data() []byte                   { return i.data }
func (i *Image) Source() string                 { return i.source }
func (i *Image) Size() (float64, float64)       { return i.width, i.height }
func (i *Image) RequiredWidth() (float64, bool) { return i.width, true }

func (i *Image) RequiredHeight(float64) (float64, bool) { return i.height, true }

// Grayscale decodes image and reports whether it has no color.
func (i *Image) Grayscale() (bool, error) {
	img, err := images.Decode(i.data)
	if err != nil {
		return false, fmt.Errorf("image %q: %w", i.name, err)
	}
	return images.IsGrayscale(img), nil
}

// Preview renders thumbnail for debug report.
func (i *Image) Preview(maxSide int) ([]byte, error) {
	return images.Preview(i.data, maxSide)
}

func (i *Image) String() string {
	return fmt.Sprintf("Image(%s, %s, %gx%g)", i.name, i.info.Format, i.width, i.height)
}

// Spacer reserves vertical space.
type Spacer struct {
	Base
	height float64
}

func NewSpacer(ctx *design.Context, name string, height float64, opts ...Option) (*Spacer, error) {
	if height < 0 {
		return nil, fmt.Errorf("spacer %q: negative height %g", name, height)
	}
	b, err := newBase(ctx, name, collect(opts).style)
	if err != nil {
		return nil, err
	}
	return &Spacer{Base: b, height: height}, nil
}

func (s *Spacer) IsFlowable() bool { return false }
func (s *Spacer) Height() float64  { return s.height }

func (s *Spacer) RequiredHeight(float64) (float64, bool) { return s.height, true }

func (s *Spacer) String() string {
	return fmt.Sprintf("Spacer(%s, %g)", s.name, s.height)
}
