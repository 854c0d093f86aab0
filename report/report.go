// Package report defines the per-URL classification records and per-category
// coverage summaries produced by an analysis run, together with the sinks
// that render them: CSV, XLSX, JSON, and the plain terminal printer.
package report

import (
	"strings"
	"time"
)

// Uncategorized is the sentinel verdict for a URL the vendor has no
// built-in classification for. It is a normal outcome, not an error.
const Uncategorized = "UNCATEGORIZED"

// SuperUnknown is the bucket for classified records whose vendor category
// has no known super-category. Such records are bucketed explicitly rather
// than dropped from the super-category breakdown.
const SuperUnknown = "UNKNOWN"

// NotCategorizedCell is the cell value written for uncategorized URLs in
// tabular exports.
const NotCategorizedCell = "<Not categorized>"

// Record is the vendor's verdict for a single URL.
type Record struct {
	URL           string   `json:"url"`
	Categories    []string `json:"categories,omitempty"`
	SuperCategory string   `json:"super_category,omitempty"`
}

// Categorized reports whether the vendor returned at least one
// classification for the URL.
func (r Record) Categorized() bool {
	return len(r.Categories) > 0
}

// Primary returns the leading vendor classification, or the Uncategorized
// sentinel when there is none.
func (r Record) Primary() string {
	if !r.Categorized() {
		return Uncategorized
	}
	return r.Categories[0]
}

// CategoryCell renders the classification list for tabular exports:
// a comma-joined list, or NotCategorizedCell for uncategorized URLs.
func (r Record) CategoryCell() string {
	if !r.Categorized() {
		return NotCategorizedCell
	}
	return strings.Join(r.Categories, ", ")
}

// Summary holds the accumulated coverage counters for one category.
// TotalURLs is fixed when the accumulator is created; the remaining
// counters satisfy TotalURLs == Classified + Uncategorized + FailedURLs
// once every batch has an outcome.
type Summary struct {
	Category         string         `json:"category"`
	TotalURLs        int            `json:"total_urls"`
	Classified       int            `json:"classified"`
	Uncategorized    int            `json:"uncategorized"`
	FailedURLs       int            `json:"failed_urls"`
	FailedBatches    int            `json:"failed_batches"`
	PerCategory      map[string]int `json:"per_category"`
	PerSuperCategory map[string]int `json:"per_super_category"`
}

// ClassifiedPercent returns the share of URLs the vendor recognizes,
// as a percentage of the category's looked-up URLs.
func (s Summary) ClassifiedPercent() float64 {
	return percent(s.Classified, s.TotalURLs)
}

// UncategorizedPercent returns the share of URLs the vendor has no
// classification for.
func (s Summary) UncategorizedPercent() float64 {
	return percent(s.Uncategorized, s.TotalURLs)
}

// HasFailures reports whether any batch of the category failed lookup.
func (s Summary) HasFailures() bool {
	return s.FailedURLs > 0 || s.FailedBatches > 0
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// CategoryReport is the complete sink payload for one analyzed category:
// the summary, every successfully produced record in submission order, and
// the URLs of batches that failed lookup.
type CategoryReport struct {
	Summary    Summary  `json:"summary"`
	Records    []Record `json:"records"`
	FailedURLs []string `json:"failed_urls,omitempty"`
}

// Meta identifies one analysis run in exported artifacts.
type Meta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
}
