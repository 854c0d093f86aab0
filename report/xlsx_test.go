package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	meta := Meta{RunID: "run-123", GeneratedAt: time.Now()}
	rep := sampleReport()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, meta, []*CategoryReport{rep}); err != nil {
		t.Fatalf("WriteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen written workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Partner Sites" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	category, err := f.GetCellValue("Summary", "A2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if category != "Partner Sites" {
		t.Errorf("expected category name in summary row, got %q", category)
	}
	classified, err := f.GetCellValue("Summary", "C2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if classified != "2" {
		t.Errorf("expected classified count 2, got %q", classified)
	}

	firstURL, err := f.GetCellValue("Partner Sites", "A2")
	if err != nil {
		t.Fatalf("read category cell: %v", err)
	}
	if firstURL != "news.example.com" {
		t.Errorf("expected first record URL, got %q", firstURL)
	}

	// Failed URLs follow the records, flagged in the categories column.
	failedCell, err := f.GetCellValue("Partner Sites", "B5")
	if err != nil {
		t.Fatalf("read failed cell: %v", err)
	}
	if failedCell != LookupFailedCell {
		t.Errorf("expected %q for the failed URL, got %q", LookupFailedCell, failedCell)
	}
}

func TestSheetNameSanitizesAndDeduplicates(t *testing.T) {
	taken := map[string]bool{"summary": true}

	long := sheetName("A very long category name that exceeds the sheet limit", taken)
	if len(long) > maxSheetName {
		t.Errorf("sheet name %q exceeds the %d-character limit", long, maxSheetName)
	}

	bad := sheetName(`What/About:These*Chars?`, taken)
	for _, c := range `[]:*?/\` {
		if containsRune(bad, c) {
			t.Errorf("sheet name %q still contains %q", bad, c)
		}
	}

	first := sheetName("Duplicate", taken)
	second := sheetName("Duplicate", taken)
	if first == second {
		t.Errorf("duplicate category names must get distinct sheets, got %q twice", first)
	}

	collides := sheetName("summary", taken)
	if collides == "summary" {
		t.Error("sheet name must not collide with the Summary sheet")
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
