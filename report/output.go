package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// LookupFailedCell is the cell value written for URLs whose batch
// exhausted lookup retries. Failed URLs are exported for visibility,
// never silently dropped.
const LookupFailedCell = "<Lookup failed>"

// Slug converts a category name into its export file stem, matching the
// original analyzer's naming: lowercased, spaces replaced by underscores.
func Slug(category string) string {
	return strings.ReplaceAll(strings.ToLower(category), " ", "_")
}

// CSVFileName returns the per-category CSV file name for a category.
func CSVFileName(category string) string {
	return Slug(category) + "_category_analysis.csv"
}

// WriteCSV writes one category's URL-to-category mapping as CSV.
// Always includes a header row. Record rows come first in submission
// order, followed by one row per failed URL.
// Column order: url, categories
func WriteCSV(w io.Writer, rep *CategoryReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"url", "categories"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range rep.Records {
		if err := cw.Write([]string{rec.URL, rec.CategoryCell()}); err != nil {
			return fmt.Errorf("write csv record for %s: %w", rec.URL, err)
		}
	}
	for _, url := range rep.FailedURLs {
		if err := cw.Write([]string{url, LookupFailedCell}); err != nil {
			return fmt.Errorf("write csv record for %s: %w", url, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// runExport is the JSON document for one analysis run.
type runExport struct {
	RunID       string            `json:"run_id"`
	GeneratedAt string            `json:"generated_at"`
	Categories  []*CategoryReport `json:"categories"`
}

// WriteJSON writes the full run (metadata plus every category report) as
// formatted JSON. URLs are not HTML-escaped.
func WriteJSON(w io.Writer, meta Meta, reps []*CategoryReport) error {
	doc := runExport{
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt.UTC().Format(time.RFC3339),
		Categories:  reps,
	}
	if doc.Categories == nil {
		doc.Categories = []*CategoryReport{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}
