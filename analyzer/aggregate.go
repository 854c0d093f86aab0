package analyzer

import "github.com/zscaler-hero/catscan/report"

// NewSummary creates the accumulator for one category. TotalURLs is fixed
// here from the category's full URL count and never incremented again; it
// anchors the accounting invariant checked at finalization.
func NewSummary(category string, totalURLs int) report.Summary {
	return report.Summary{
		Category:         category,
		TotalURLs:        totalURLs,
		PerCategory:      make(map[string]int),
		PerSuperCategory: make(map[string]int),
	}
}

// Fold accumulates one batch outcome into the summary and returns the
// updated copy. The input summary is not modified, and folding a set of
// outcomes in any order produces the same final summary.
//
// A successful batch contributes one count per record: classified records
// bump Classified, every vendor category they name, and their
// super-category bucket (SuperUnknown when the vendor category has no
// known super-category); the rest bump Uncategorized. A failed batch
// contributes its full URL count to FailedURLs, so no URL goes
// unaccounted.
func Fold(s report.Summary, o BatchOutcome) report.Summary {
	s.PerCategory = cloneCounts(s.PerCategory)
	s.PerSuperCategory = cloneCounts(s.PerSuperCategory)

	if !o.Success() {
		s.FailedBatches++
		s.FailedURLs += len(o.Batch.URLs)
		return s
	}

	for _, rec := range o.Records {
		if !rec.Categorized() {
			s.Uncategorized++
			continue
		}
		s.Classified++
		for _, cat := range rec.Categories {
			s.PerCategory[cat]++
		}
		super := rec.SuperCategory
		if super == "" {
			super = report.SuperUnknown
		}
		s.PerSuperCategory[super]++
	}
	return s
}

func cloneCounts(counts map[string]int) map[string]int {
	clone := make(map[string]int, len(counts)+4)
	for name, n := range counts {
		clone[name] = n
	}
	return clone
}
