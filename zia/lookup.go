package zia

import (
	"context"
	"fmt"
	"strings"

	"github.com/zscaler-hero/catscan/report"
)

// MaxBatchSize is the lookup endpoint's per-request URL cap.
const MaxBatchSize = 100

// lookupResult is one entry of the urlLookup response. Security-alert
// classifications arrive in their own list but are classifications all the
// same.
type lookupResult struct {
	URL             string   `json:"url"`
	Classifications []string `json:"urlClassifications"`
	SecurityAlerts  []string `json:"urlClassificationsWithSecurityAlert"`
}

// Lookup submits one batch of URLs to the bulk classification endpoint and
// returns one record per submitted URL, in submission order. A URL the
// response does not mention, or mentions with no classifications, comes
// back as an uncategorized record: the vendor default for unknown URLs,
// never an error. Lookup performs exactly one HTTP attempt.
func (c *Client) Lookup(ctx context.Context, urls []string) ([]report.Record, error) {
	if len(urls) > MaxBatchSize {
		return nil, &APIError{
			Op:   "urlLookup",
			Kind: KindFatal,
			Err:  fmt.Errorf("batch of %d URLs exceeds the %d-URL limit", len(urls), MaxBatchSize),
		}
	}
	if len(urls) == 0 {
		return nil, nil
	}

	var results []lookupResult
	if err := c.post(ctx, "urlLookup", "/urlLookup", urls, &results); err != nil {
		return nil, err
	}

	// The gateway may echo URLs in a different letter case than submitted.
	byURL := make(map[string]lookupResult, len(results))
	for _, res := range results {
		byURL[strings.ToLower(res.URL)] = res
	}

	records := make([]report.Record, 0, len(urls))
	for _, u := range urls {
		res := byURL[strings.ToLower(u)]
		rec := report.Record{URL: u, Categories: mergeClassifications(res)}
		if rec.Categorized() {
			rec.SuperCategory = c.superOf(rec.Primary())
		}
		records = append(records, rec)
	}
	return records, nil
}

// mergeClassifications joins a result's plain and security-alert
// classification lists, plain ones first, without duplicates.
func mergeClassifications(res lookupResult) []string {
	if len(res.Classifications) == 0 && len(res.SecurityAlerts) == 0 {
		return nil
	}
	merged := make([]string, 0, len(res.Classifications)+len(res.SecurityAlerts))
	seen := make(map[string]struct{}, cap(merged))
	for _, cat := range res.Classifications {
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		merged = append(merged, cat)
	}
	for _, cat := range res.SecurityAlerts {
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		merged = append(merged, cat)
	}
	return merged
}
