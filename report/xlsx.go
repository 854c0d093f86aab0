package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// maxSheetName is the spreadsheet format's sheet name length limit.
const maxSheetName = 31

// XLSXFileName is the workbook name for a full analysis run.
const XLSXFileName = "category_analysis.xlsx"

// WriteXLSX writes the full run as a workbook: a summary sheet with one
// row per category, then one sheet per category holding the URL-to-category
// mapping (failed URLs included, flagged in the categories column).
func WriteXLSX(w io.Writer, meta Meta, reps []*CategoryReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     "catscan",
		Description: "run " + meta.RunID,
	}); err != nil {
		return fmt.Errorf("set workbook properties: %w", err)
	}

	f.SetSheetName("Sheet1", summarySheet)
	if err := writeSummarySheet(f, reps); err != nil {
		return err
	}

	names := make(map[string]bool, len(reps)+1)
	names[strings.ToLower(summarySheet)] = true
	for _, rep := range reps {
		name := sheetName(rep.Summary.Category, names)
		if err := writeCategorySheet(f, name, rep); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, reps []*CategoryReport) error {
	header := []interface{}{
		"Category", "Total URLs", "Classified", "Classified %",
		"Uncategorized", "Uncategorized %", "Failed URLs", "Failed Batches",
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i, rep := range reps {
		s := rep.Summary
		row := []interface{}{
			s.Category, s.TotalURLs, s.Classified, round2(s.ClassifiedPercent()),
			s.Uncategorized, round2(s.UncategorizedPercent()), s.FailedURLs, s.FailedBatches,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row for %s: %w", s.Category, err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 32); err != nil {
		return fmt.Errorf("set summary column width: %w", err)
	}
	return nil
}

func writeCategorySheet(f *excelize.File, name string, rep *CategoryReport) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	header := []interface{}{"URL", "Zscaler Categories", "Super Category"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header for sheet %s: %w", name, err)
	}

	row := 2
	for _, rec := range rep.Records {
		values := []interface{}{rec.URL, rec.CategoryCell(), rec.SuperCategory}
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write row for %s: %w", rec.URL, err)
		}
		row++
	}
	for _, url := range rep.FailedURLs {
		values := []interface{}{url, LookupFailedCell, ""}
		if err := f.SetSheetRow(name, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write row for %s: %w", url, err)
		}
		row++
	}

	if err := f.SetColWidth(name, "A", "B", 40); err != nil {
		return fmt.Errorf("set column width for sheet %s: %w", name, err)
	}
	return nil
}

// sheetName produces a legal, unique sheet name for a category.
// Characters the format forbids are replaced, the name is trimmed to the
// 31-character limit, and collisions get a numeric suffix.
func sheetName(category string, taken map[string]bool) string {
	name := category
	if name == "" {
		name = "Category"
	}
	for _, c := range `[]:*?/\` {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	candidate := name
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		trimmed := name
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate = trimmed + suffix
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
