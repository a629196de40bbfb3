package images

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const previewQuality = 80

// Preview renders JPEG thumbnail fitting maxSide x maxSide box. SVG is
// rasterized directly at thumbnail size.
func Preview(data []byte, maxSide int) ([]byte, error) {
	if maxSide <= 0 {
		return nil, fmt.Errorf("invalid preview size %d", maxSide)
	}

	var (
		img image.Image
		err error
	)
	if IsSVG(data) {
		img, err = RasterizeSVGToImage(data, maxSide, maxSide)
	} else if img, err = Decode(data); err == nil {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	if err != nil {
		return nil, err
	}
	return EncodeJPEGWithDPI(img, previewQuality, uint16(DefaultDPI))
}
