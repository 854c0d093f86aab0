package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExportWritesSelectedFormats(t *testing.T) {
	dir := t.TempDir()
	meta := Meta{RunID: "run-123", GeneratedAt: time.Now()}
	reps := []*CategoryReport{sampleReport()}

	paths, err := Export(dir, meta, reps, []string{"csv", "xlsx", "json"})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "partner_sites_category_analysis.csv"),
		filepath.Join(dir, XLSXFileName),
		filepath.Join(dir, JSONFileName),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), paths)
	}
	for _, path := range want {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("expected file %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("file %s is empty", path)
		}
	}
}

func TestExportCSVPerCategory(t *testing.T) {
	dir := t.TempDir()
	first := sampleReport()
	second := sampleReport()
	second.Summary.Category = "Other Sites"

	paths, err := Export(dir, Meta{RunID: "r"}, []*CategoryReport{first, second}, []string{"csv"})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected one CSV per category, got %v", paths)
	}
}

func TestExportNothingToWrite(t *testing.T) {
	paths, err := Export(t.TempDir(), Meta{}, nil, []string{"csv"})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if paths != nil {
		t.Errorf("expected no files for an empty run, got %v", paths)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(t.TempDir(), Meta{}, []*CategoryReport{sampleReport()}, []string{"pdf"})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExportDeduplicatesFormats(t *testing.T) {
	dir := t.TempDir()
	paths, err := Export(dir, Meta{RunID: "r"}, []*CategoryReport{sampleReport()}, []string{"json", "json"})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected a single JSON file, got %v", paths)
	}
}
