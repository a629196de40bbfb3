package images

import (
	"image"
	"image/color"
)

// IsGrayscale reports whether every pixel of img has equal color
// components, renderer may embed such images with gray color space.
func IsGrayscale(img image.Image) bool {
	switch im := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		for _, c := range im.Palette {
			if !isGray(c) {
				return false
			}
		}
		return true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !isGray(img.At(x, y)) {
				return false
			}
		}
	}
	return true
}

func isGray(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == n.G && n.G == n.B
}
