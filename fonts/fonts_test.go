package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"pdfdesigner/common"
	"pdfdesigner/css"
)

var (
	ttfHeader = []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x80}
	otfHeader = []byte{'O', 'T', 'T', 'O', 0x00, 0x0a, 0x00, 0x80}
	pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseVariant(t *testing.T) {
	tests := map[string]Variant{
		"normal":      Normal,
		"BOLD":        Bold,
		"italic":      Italic,
		"bold-italic": BoldItalic,
		"BOLD_ITALIC": BoldItalic,
		"boldItalic":  BoldItalic,
	}
	for in, want := range tests {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Errorf("ParseVariant(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseVariant("heavy"); !errors.Is(err, common.ErrType) {
		t.Errorf("ParseVariant(heavy) err = %v", err)
	}
	if BoldItalic.RendererKey() != "boldItalic" || Bold.RendererKey() != "bold" {
		t.Error("unexpected renderer keys")
	}
}

func TestVariantFromCSS(t *testing.T) {
	tests := []struct {
		style, weight string
		want          Variant
	}{
		{"", "", Normal},
		{"normal", "400", Normal},
		{"italic", "", Italic},
		{"oblique", "bold", BoldItalic},
		{"", "700", Bold},
		{"", "500", Normal},
	}
	for _, tt := range tests {
		if got := variantFromCSS(tt.style, tt.weight); got != tt.want {
			t.Errorf("variantFromCSS(%q, %q) = %v, want %v", tt.style, tt.weight, got, tt.want)
		}
	}
}

func TestRegisterFamily(t *testing.T) {
	dir := t.TempDir()
	regular := writeFile(t, dir, "Vera.ttf", ttfHeader)
	bold := writeFile(t, dir, "VeraBd.otf", otfHeader)
	notFont := writeFile(t, dir, "image.ttf", pngHeader)

	r := NewRegistry(zaptest.NewLogger(t))

	if err := r.RegisterFamily("", Definition{Name: "x", Path: regular}); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("empty family: err = %v", err)
	}
	if err := r.RegisterFamily("Vera"); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("no fonts: err = %v", err)
	}
	if err := r.RegisterFamily("Vera", Definition{Name: "Img", Path: notFont}); !errors.Is(err, common.ErrType) {
		t.Errorf("not a font: err = %v", err)
	}
	if err := r.RegisterFamily("Vera", Definition{Name: "Gone", Path: filepath.Join(dir, "missing.ttf")}); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("missing file: err = %v", err)
	}
	err := r.RegisterFamily("Vera",
		Definition{Name: "Vera", Path: regular},
		Definition{Name: "Vera2", Path: regular},
	)
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("duplicate variant: err = %v", err)
	}
	if _, ok := r.Family("Vera"); ok {
		t.Fatal("family registered despite errors")
	}

	err = r.RegisterFamily("Vera",
		Definition{Name: "VeraBd", Path: bold, Variant: Bold},
		Definition{Name: "Vera", Path: regular},
	)
	if err != nil {
		t.Fatalf("RegisterFamily: %v", err)
	}
	f, ok := r.Family("Vera")
	if !ok {
		t.Fatal("family not found")
	}
	want := map[string]string{"normal": "Vera", "bold": "VeraBd"}
	if diff := cmp.Diff(want, f.RendererProperties()); diff != "" {
		t.Errorf("RendererProperties mismatch (-want +got):\n%s", diff)
	}
	if defs := f.Definitions(); len(defs) != 2 || defs[0].Name != "Vera" {
		t.Errorf("Definitions() = %v", defs)
	}
}

func TestRegisterCSS(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "fonts/Serif-Regular.ttf", ttfHeader)
	writeFile(t, dir, "fonts/Serif-Italic.ttf", ttfHeader)
	writeFile(t, dir, "fonts/Mono 10.ttf", ttfHeader)
	writeFile(t, dir, "fonts/Mono 2.ttf", ttfHeader)

	src := `
@font-face { font-family: "Serif"; src: url("fonts/Serif-Regular.ttf"); }
@font-face { font-family: "Serif"; src: url(fonts/Serif-Italic.ttf); font-style: italic; }
@font-face { font-family: "Mono 10"; src: url("fonts/Mono 10.ttf"); }
@font-face { font-family: "Mono 2"; src: url("fonts/Mono 2.ttf"); }
`
	sheet := css.NewParser(zaptest.NewLogger(t)).Parse([]byte(src))

	r := NewRegistry(zaptest.NewLogger(t))
	if err := r.RegisterCSS(sheet.FontFaces(), dir); err != nil {
		t.Fatalf("RegisterCSS: %v", err)
	}
	if diff := cmp.Diff([]string{"Mono 2", "Mono 10", "Serif"}, r.Families()); diff != "" {
		t.Errorf("Families() mismatch (-want +got):\n%s", diff)
	}
	f, _ := r.Family("Serif")
	if d := f.Fonts[Italic]; d.Name != "Serif-Italic" {
		t.Errorf("italic = %+v", d)
	}

	bad := []css.FontFace{{Family: "Nothing", Src: "local(Arial)"}}
	if err := r.RegisterCSS(bad, dir); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("no url: err = %v", err)
	}
}
