package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, format imaging.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMeasure(t *testing.T) {
	img := testImage(144, 72, color.NRGBA{R: 200, A: 255})

	jpg, err := EncodeJPEGWithDPI(img, 90, 144)
	if err != nil {
		t.Fatal(err)
	}
	pngData := encode(t, img, imaging.PNG)
	gif := encode(t, img, imaging.GIF)

	tests := []struct {
		name         string
		data         []byte
		format       string
		wantW, wantH float64 // points at 72 dpi fallback
	}{
		{"jpeg with density", jpg, "jpeg", 72, 36},
		{"png", pngData, "png", 144, 72},
		{"gif", gif, "gif", 144, 72},
		{"svg", testSVG, "svg", 75, 37.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Measure(tt.data)
			if err != nil {
				t.Fatalf("Measure: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format = %q, want %q", info.Format, tt.format)
			}
			w, h := info.Points(DefaultDPI)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Points() = %v x %v, want %v x %v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMeasureUnsupported(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("plain text"), {0x25, 0x50, 0x44, 0x46, 0x2D}} {
		if _, err := Measure(data); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Measure(%q) err = %v", data, err)
		}
	}
}

func TestPNGDensity(t *testing.T) {
	data := encode(t, testImage(2, 2, color.White), imaging.PNG)
	if _, _, ok := PNGDensity(data); ok {
		t.Error("density reported for png without pHYs")
	}

	// pHYs: 11811 px per metre is 300 dpi
	phys := []byte{
		0, 0, 0, 9, 'p', 'H', 'Y', 's',
		0, 0, 0x2E, 0x23, 0, 0, 0x2E, 0x23, 1,
		0, 0, 0, 0, // crc is not checked
	}
	withPhys := append(append(append([]byte{}, data[:33]...), phys...), data[33:]...)
	x, y, ok := PNGDensity(withPhys)
	if !ok || x < 299.9 || x > 300.1 || x != y {
		t.Errorf("PNGDensity() = %v, %v, %v", x, y, ok)
	}
}

func TestPreviewAndGrayscale(t *testing.T) {
	gray := encode(t, testImage(400, 100, color.Gray{Y: 128}), imaging.PNG)
	out, err := Preview(gray, 100)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(gray))
	if err != nil {
		t.Fatal(err)
	}
	if !IsGrayscale(img) {
		t.Error("gray image not recognized")
	}
	info, err := Measure(out)
	if err != nil {
		t.Fatalf("Measure(preview): %v", err)
	}
	if info.Format != "jpeg" || info.Width != 100 || info.Height != 25 || info.DPIX != DefaultDPI {
		t.Errorf("preview info = %+v", info)
	}

	svgPreview, err := Preview(testSVG, 40)
	if err != nil {
		t.Fatalf("Preview(svg): %v", err)
	}
	if info, _ := Measure(svgPreview); info == nil || info.Width != 40 || info.Height != 20 {
		t.Errorf("svg preview info = %+v", info)
	}

	if IsGrayscale(testImage(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})) {
		t.Error("color image reported as gray")
	}
	if _, err := Preview(gray, 0); err == nil {
		t.Error("expected error for zero size")
	}
}
