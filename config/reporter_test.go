package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(input, []byte("name: sample\n"), 0644); err != nil {
		t.Fatal(err)
	}
	assets := filepath.Join(dir, "assets")
	if err := os.MkdirAll(filepath.Join(assets, "img"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assets, "img", "a.txt"), []byte("A"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("input.yaml", input)
	r.StoreData("pagemap.yaml", []byte("pages: []\n"))
	if err := r.StoreCopy("snapshot", input); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("assets", assets); err != nil {
		t.Fatal(err)
	}
	r.Store("missing.log", filepath.Join(dir, "nope.log"))

	// later changes do not affect the copy
	if err := os.WriteFile(input, []byte("name: changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var copies []string
	for _, e := range r.entries {
		if e.cleanup != "" {
			copies = append(copies, e.cleanup)
		}
	}

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, conf.Destination)
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	slices.Sort(names)
	want := []string{"MANIFEST", "assets/img/a.txt", "input.yaml", "pagemap.yaml", "snapshot"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}
	if files["snapshot"] != "name: sample\n" || files["input.yaml"] != "name: changed\n" {
		t.Errorf("snapshot = %q, input = %q", files["snapshot"], files["input.yaml"])
	}
	if !strings.Contains(files["MANIFEST"], "missing.log") {
		t.Errorf("MANIFEST = %q", files["MANIFEST"])
	}

	for _, c := range copies {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", c)
		}
	}
}

func TestReportStorePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("x", []byte("1"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwrite")
		}
	}()
	r.StoreData("x", []byte("2"))
}

func TestReportNil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q", r.Name())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if err := (&Report{entries: make(map[string]entry)}).Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
