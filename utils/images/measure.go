// Package images measures images placed into containers and produces
// previews for debug reports. Decoding is limited to what is needed to
// know the image size, embedding is left to renderer.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultDPI is assumed when image does not carry its resolution. SVG user
// units are CSS pixels, 96 per inch.
const (
	DefaultDPI = 72.0
	SVGDPI     = 96.0
)

var ErrUnsupported = errors.New("unsupported image format")

// Info is intrinsic image description.
type Info struct {
	// Format is "svg" or image decoder name: "jpeg", "png", "gif", "bmp", "tiff", "webp".
	Format   string
	MimeType string
	// Width and Height in pixels, fractional for SVG.
	Width  float64
	Height float64
	// DPIX and DPIY are zero when image does not specify resolution.
	DPIX float64
	DPIY float64
}

func (i *Info) IsVector() bool { return i.Format == "svg" }

// Points returns image dimensions in points, fallbackDPI is used when image
// has no resolution of its own.
func (i *Info) Points(fallbackDPI float64) (w, h float64) {
	dx, dy := i.DPIX, i.DPIY
	if dx <= 0 || dy <= 0 {
		dx, dy = fallbackDPI, fallbackDPI
		if i.IsVector() {
			dx, dy = SVGDPI, SVGDPI
		}
	}
	if dx <= 0 || dy <= 0 {
		dx, dy = DefaultDPI, DefaultDPI
	}
	return i.Width * 72 / dx, i.Height * 72 / dy
}

// Measure detects image format and reads its dimensions and resolution
// without decoding pixels.
func Measure(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupported)
	}

	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown && IsSVG(data) {
		w, h, err := SVGSize(data)
		if err != nil {
			return nil, err
		}
		return &Info{Format: "svg", MimeType: "image/svg+xml", Width: w, Height: h}, nil
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, kind.MIME.Value)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupported, kind.MIME.Value, err)
	}
	info := &Info{
		Format:   format,
		MimeType: kind.MIME.Value,
		Width:    float64(cfg.Width),
		Height:   float64(cfg.Height),
	}
	switch format {
	case "jpeg":
		info.DPIX, info.DPIY, _ = JFIFDensity(data)
	case "png":
		info.DPIX, info.DPIY, _ = PNGDensity(data)
	}
	return info, nil
}

// Decode returns pixels of raster image or rasterized SVG.
func Decode(data []byte) (image.Image, error) {
	if IsSVG(data) && !filetype.IsImage(data) {
		return RasterizeSVGToImage(data, 0, 0)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return img, nil
}
