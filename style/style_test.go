package style_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdfdesigner/common"
	"pdfdesigner/style"
)

func TestIdentifier(t *testing.T) {
	for _, name := range []string{"Heading 1", "heading1", "HEADING_1", "heading-1"} {
		if got := style.Identifier(name); got != "heading1" {
			t.Errorf("Identifier(%q) = %q, want heading1", name, got)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := style.New("body")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.FontName() != "Helvetica" || s.FontSize() != 10 || s.Leading() != 12 {
		t.Errorf("unexpected defaults: %s %v %v", s.FontName(), s.FontSize(), s.Leading())
	}
	if s.Alignment() != "LEFT" || !s.AllowWidows() || s.AllowOrphans() || s.KeepTogether() {
		t.Errorf("unexpected flags in %s", s)
	}
	if len(s.Overrides()) != 0 {
		t.Errorf("Overrides() = %v, want none", s.Overrides())
	}

	if _, err := style.New("  "); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("New with empty name: err = %v", err)
	}
}

func TestSetValidation(t *testing.T) {
	s := style.MustNew("body")

	tests := []struct {
		name    string
		value   any
		want    any
		wantErr error
	}{
		{"font_size", 12, 12.0, nil},
		{"font-size", float32(9.5), 9.5, nil},
		{"Font_Size", "large", nil, common.ErrType},
		{"alignment", "justify", "JUSTIFY", nil},
		{"alignment", "middle", nil, common.ErrType},
		{"text_color", "#fa0", "#fa0", nil},
		{"text_color", "#12345", nil, common.ErrType},
		{"text_color", nil, nil, nil},
		{"leading", nil, nil, common.ErrType},
		{"allow_widows", false, false, nil},
		{"allow_widows", "no", nil, common.ErrType},
		{"no_such_property", 1, nil, common.ErrNotFound},
	}
	for _, tt := range tests {
		err := s.Set(tt.name, tt.value)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Set(%s, %v): err = %v, want %v", tt.name, tt.value, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("Set(%s, %v): %v", tt.name, tt.value, err)
			continue
		}
		got, err := s.Get(tt.name)
		if err != nil {
			t.Errorf("Get(%s): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBasedOnAndClone(t *testing.T) {
	base := style.MustNew("base", style.With("font_size", 20), style.With("space_after", 4))
	derived := style.MustNew("derived", style.BasedOn(base), style.With("space_after", 8))

	if derived.BasedOnName() != "base" {
		t.Errorf("BasedOnName() = %q", derived.BasedOnName())
	}
	if derived.FontSize() != 20 || derived.SpaceAfter() != 8 {
		t.Errorf("derived = %s", derived)
	}

	clone := derived.Clone("copy")
	if err := clone.Set("font_size", 7); err != nil {
		t.Fatal(err)
	}
	if derived.FontSize() != 20 {
		t.Error("changing clone modified original")
	}
	if clone.Name() != "copy" || clone.BasedOnName() != "base" {
		t.Errorf("clone = %s", clone)
	}

	if _, err := style.New("orphan", style.BasedOn(nil)); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("BasedOn(nil): err = %v", err)
	}
}

func TestOverridesAndString(t *testing.T) {
	s := style.MustNew("note", style.With("space_before", 3), style.With("font_size", 8))
	if diff := cmp.Diff([]string{"font_size", "space_before"}, s.Overrides()); diff != "" {
		t.Errorf("Overrides() mismatch (-want +got):\n%s", diff)
	}
	if got, want := s.String(), "Style(note, font_size=8, space_before=3)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRendererProperties(t *testing.T) {
	s := style.MustNew("x",
		style.With("bullet_anchor", "middle"),
		style.With("text_transformation", "uppercase"),
		style.With("keep_together", true),
	)
	rp := s.RendererProperties()

	if rp["bulletAnchor"] != "middle" {
		t.Errorf("bulletAnchor = %v", rp["bulletAnchor"])
	}
	if rp["textTransform"] != "uppercase" {
		t.Errorf("textTransform = %v", rp["textTransform"])
	}
	if rp["fontSize"] != 10.0 {
		t.Errorf("fontSize = %v", rp["fontSize"])
	}
	if _, ok := rp["keep_together"]; ok {
		t.Error("layout only property leaked to renderer")
	}
	if _, ok := rp["ruleAbovePadding"]; ok {
		t.Error("layout only property leaked to renderer")
	}
	if v, ok := rp["backColor"]; !ok || v != nil {
		t.Errorf("backColor = %v, %v", v, ok)
	}
}

func TestLookupProperty(t *testing.T) {
	for _, name := range []string{"first_line_indent", "first-line-indent", "First_Line_Indent"} {
		p, ok := style.LookupProperty(name)
		if !ok || p.Name != "first_line_indent" {
			t.Errorf("LookupProperty(%q) = %v, %v", name, p.Name, ok)
		}
	}
	if _, ok := style.LookupProperty("margin"); ok {
		t.Error("LookupProperty(margin) found unexpected property")
	}
	p, _ := style.LookupProperty("space_before")
	if p.CSSName() != "-pdf-space-before" {
		t.Errorf("CSSName() = %q", p.CSSName())
	}
	if len(style.Properties()) == 0 {
		t.Error("Properties() is empty")
	}
}
