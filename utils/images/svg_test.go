package images

import "testing"

var testSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

func TestRasterizeSVGToImage(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"intrinsic", 0, 0, 100, 50},
		{"scale_by_width", 200, 0, 200, 100},
		{"scale_by_height", 0, 200, 400, 200},
		{"fit_box", 150, 150, 150, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RasterizeSVGToImage(testSVG, tt.w, tt.h)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		})
	}
}

func TestRasterizeSVGToImageClamped(t *testing.T) {
	old := maxRasterDim
	maxRasterDim = 64
	defer func() { maxRasterDim = old }()

	img, err := RasterizeSVGToImage(testSVG, 1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestSVGSize(t *testing.T) {
	w, h, err := SVGSize(testSVG)
	if err != nil || w != 100 || h != 50 {
		t.Fatalf("SVGSize() = %v, %v, %v", w, h, err)
	}
	if !IsSVG(testSVG) || IsSVG([]byte("<html></html>")) {
		t.Error("IsSVG")
	}
}
