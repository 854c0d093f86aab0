package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/zscaler-hero/catscan/urlutil"
)

// Truncation limits for the terminal report.
const (
	maxUncategorizedShown = 20
	maxBreakdownShown     = 10
	maxDomainsShown       = 10
	maxSampleRows         = 7
)

// PrintReport writes one category's analysis to w: coverage totals with
// percentages, the uncategorized URLs with a registrable-domain rollup,
// the vendor category and super-category breakdowns, and a sample of the
// URL-to-category mapping.
func PrintReport(w io.Writer, rep *CategoryReport) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	s := rep.Summary
	rule := strings.Repeat("=", 60)
	writef("%s\nAnalyzing category: %s\n%s\n", rule, s.Category, rule)
	writef("Total URLs: %d\n", s.TotalURLs)
	if s.TotalURLs == 0 {
		writef("No URLs found in this category.\n")
		return
	}

	writef("URLs in Zscaler-defined categories: %d (%.2f%%)\n", s.Classified, s.ClassifiedPercent())
	writef("URLs NOT categorized by Zscaler: %d (%.2f%%)\n", s.Uncategorized, s.UncategorizedPercent())
	if s.HasFailures() {
		writef("URLs that could not be looked up: %d (%d batch(es) failed)\n", s.FailedURLs, s.FailedBatches)
	}

	printUncategorized(writef, rep)
	printBreakdown(writef, "Breakdown by Zscaler category", s.PerCategory, maxBreakdownShown)
	printBreakdown(writef, "Breakdown by super category", s.PerSuperCategory, len(s.PerSuperCategory))
	printSample(writef, rep.Records)

	if len(rep.FailedURLs) > 0 {
		writef("\nURLs skipped because their batch failed:\n")
		for _, u := range rep.FailedURLs {
			writef("  - %s\n", u)
		}
	}
}

func printUncategorized(writef func(string, ...any), rep *CategoryReport) {
	var uncategorized []string
	for _, rec := range rep.Records {
		if !rec.Categorized() {
			uncategorized = append(uncategorized, rec.URL)
		}
	}
	if len(uncategorized) == 0 {
		return
	}

	writef("\nURLs not defined in Zscaler:\n")
	for i, u := range uncategorized {
		if i == maxUncategorizedShown {
			writef("  ... and %d more\n", len(uncategorized)-maxUncategorizedShown)
			break
		}
		writef("  - %s\n", u)
	}

	// Roll the uncategorized entries up by registrable domain so a pile of
	// subdomain entries reads as one gap, not fifty.
	domains := make(map[string]int)
	for _, u := range uncategorized {
		if domain := urlutil.RegistrableDomain(u); domain != "" {
			domains[domain]++
		}
	}
	if len(domains) == 0 {
		return
	}
	writef("\nUncategorized domains:\n")
	for i, row := range sortedCounts(domains) {
		if i == maxDomainsShown {
			writef("  ... and %d more domains\n", len(domains)-maxDomainsShown)
			break
		}
		writef("  - %s: %d URL(s)\n", row.name, row.count)
	}
}

func printBreakdown(writef func(string, ...any), title string, counts map[string]int, limit int) {
	if len(counts) == 0 {
		return
	}
	writef("\n%s:\n", title)
	rows := sortedCounts(counts)
	for i, row := range rows {
		if i == limit {
			writef("  ... and %d more categories\n", len(rows)-limit)
			break
		}
		writef("  - %s: %d URLs\n", row.name, row.count)
	}
}

// printSample renders a short fixed-width URL-to-category table.
func printSample(writef func(string, ...any), records []Record) {
	if len(records) == 0 {
		return
	}

	border := "+----------------------------+--------------------------------+"
	writef("\nSample URL-to-category mapping:\n")
	writef("%s\n", border)
	writef("| %-26s | %-30s |\n", "URL", "Zscaler Category")
	writef("%s\n", border)
	for i, rec := range records {
		if i == maxSampleRows {
			break
		}
		writef("| %-26s | %-30s |\n", clip(rec.URL, 26), clip(rec.CategoryCell(), 30))
	}
	if len(records) > maxSampleRows {
		writef("| %-61s |\n", fmt.Sprintf("... (%d more entries)", len(records)-maxSampleRows))
	}
	writef("%s\n", border)
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}

type countRow struct {
	name  string
	count int
}

// sortedCounts orders a counter map by count descending, then name, so
// the output is stable.
func sortedCounts(counts map[string]int) []countRow {
	rows := make([]countRow, 0, len(counts))
	for name, n := range counts {
		rows = append(rows, countRow{name: name, count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
	return rows
}
