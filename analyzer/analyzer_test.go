package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/zscaler-hero/catscan/report"
	"github.com/zscaler-hero/catscan/zia"
)

// fakeSource classifies URLs by prefix: "cat..." entries come back
// categorized, everything else uncategorized. failCalls marks 1-based
// lookup call numbers that fail with the given error.
type fakeSource struct {
	categories map[string]zia.Category
	failCalls  map[int]error
	lookups    int
	batchSizes []int
}

func (f *fakeSource) Category(ctx context.Context, id string) (zia.Category, error) {
	cat, ok := f.categories[id]
	if !ok {
		return zia.Category{}, &zia.APIError{Op: "urlCategories/{id}", Kind: zia.KindFatal, Status: 404}
	}
	return cat, nil
}

func (f *fakeSource) Lookup(ctx context.Context, urls []string) ([]report.Record, error) {
	f.lookups++
	if err := f.failCalls[f.lookups]; err != nil {
		return nil, err
	}
	f.batchSizes = append(f.batchSizes, len(urls))

	records := make([]report.Record, 0, len(urls))
	for _, u := range urls {
		rec := report.Record{URL: u}
		if strings.HasPrefix(u, "cat") {
			rec.Categories = []string{"NEWS_AND_MEDIA"}
			rec.SuperCategory = "News and Media"
		}
		records = append(records, rec)
	}
	return records, nil
}

// testConfig disables pacing and backoff so scenario tests run instantly.
func testConfig() Config {
	return Config{
		MaxBatchSize:    100,
		MinCallInterval: -1,
		Retry:           RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond},
	}
}

func categoryOf(name string, urls []string) zia.Category {
	return zia.Category{ID: "CUSTOM_01", Name: name, URLs: urls}
}

func mixedURLs(categorized, uncategorized int) []string {
	urls := make([]string, 0, categorized+uncategorized)
	for i := range categorized {
		urls = append(urls, fmt.Sprintf("cat%04d.example.com", i))
	}
	for i := range uncategorized {
		urls = append(urls, fmt.Sprintf("unk%04d.example.com", i))
	}
	return urls
}

func TestAnalyzeCategoryAllBatchesSucceed(t *testing.T) {
	// 250 URLs, 200 of them recognized by the vendor, split 100/100/50.
	src := &fakeSource{}
	ana := New(testConfig(), src, nil)

	rep, err := ana.AnalyzeCategory(context.Background(), categoryOf("Media Sites", mixedURLs(200, 50)))
	if err != nil {
		t.Fatalf("AnalyzeCategory returned error: %v", err)
	}

	if len(src.batchSizes) != 3 || src.batchSizes[0] != 100 || src.batchSizes[1] != 100 || src.batchSizes[2] != 50 {
		t.Errorf("expected batches 100/100/50, got %v", src.batchSizes)
	}

	s := rep.Summary
	if s.TotalURLs != 250 || s.Classified != 200 || s.Uncategorized != 50 || s.FailedURLs != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if len(rep.Records) != 250 {
		t.Errorf("expected 250 records, got %d", len(rep.Records))
	}
	if len(rep.FailedURLs) != 0 {
		t.Errorf("expected no failed URLs, got %d", len(rep.FailedURLs))
	}
	if s.PerSuperCategory["News and Media"] != 200 {
		t.Errorf("expected 200 in the News and Media super bucket, got %d", s.PerSuperCategory["News and Media"])
	}
}

func TestAnalyzeCategorySecondBatchExhaustsRetries(t *testing.T) {
	// 150 URLs in two batches; batch 2 fails transiently on all three
	// attempts (calls 2, 3, 4) and degrades to Failed without aborting.
	transient := &zia.APIError{Op: "urlLookup", Kind: zia.KindTransient, Status: 503}
	src := &fakeSource{failCalls: map[int]error{2: transient, 3: transient, 4: transient}}

	events := make(chan Event, 100)
	ana := New(testConfig(), src, events)

	rep, err := ana.AnalyzeCategory(context.Background(), categoryOf("Flaky", mixedURLs(150, 0)))
	close(events)
	if err != nil {
		t.Fatalf("AnalyzeCategory returned error: %v", err)
	}

	s := rep.Summary
	if s.TotalURLs != 150 || s.Classified != 100 || s.FailedURLs != 50 || s.FailedBatches != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if got := s.Classified + s.Uncategorized + s.FailedURLs; got != s.TotalURLs {
		t.Errorf("accounting invariant broken: total=%d accounted=%d", s.TotalURLs, got)
	}
	if len(rep.Records) != 100 {
		t.Errorf("expected records from batch 1 only, got %d", len(rep.Records))
	}
	if len(rep.FailedURLs) != 50 {
		t.Errorf("expected 50 failed URLs, got %d", len(rep.FailedURLs))
	}
	if src.lookups != 4 {
		t.Errorf("expected 4 lookup calls (1 + 3 retries), got %d", src.lookups)
	}

	var failedBatchEvent *Event
	for evt := range events {
		if evt.Kind == EventBatch && evt.Err != "" {
			failedBatchEvent = &evt
		}
	}
	if failedBatchEvent == nil {
		t.Fatal("expected a batch event carrying the failure")
	}
	if failedBatchEvent.Attempts != 3 {
		t.Errorf("expected the failed batch to report 3 attempts, got %d", failedBatchEvent.Attempts)
	}
}

func TestAnalyzeCategoryEmptyCategory(t *testing.T) {
	src := &fakeSource{}
	cfg := testConfig()
	cfg.MinCallInterval = time.Hour // would hang if anything paced

	ana := New(cfg, src, nil)
	start := time.Now()
	rep, err := ana.AnalyzeCategory(context.Background(), categoryOf("Empty", nil))
	if err != nil {
		t.Fatalf("AnalyzeCategory returned error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("empty category must not touch the pacer")
	}

	if src.lookups != 0 {
		t.Errorf("expected no lookup calls, got %d", src.lookups)
	}
	s := rep.Summary
	if s.TotalURLs != 0 || s.Classified != 0 || s.Uncategorized != 0 || s.FailedURLs != 0 || s.FailedBatches != 0 {
		t.Errorf("expected all-zero summary, got %+v", s)
	}
}

func TestAnalyzeCategoryNormalizesAndDedupes(t *testing.T) {
	src := &fakeSource{}
	ana := New(testConfig(), src, nil)

	cat := categoryOf("Messy", []string{
		"  cat0001.Example.com  ",
		"cat0001.example.com",
		"",
		"unk0001.example.com",
	})
	rep, err := ana.AnalyzeCategory(context.Background(), cat)
	if err != nil {
		t.Fatalf("AnalyzeCategory returned error: %v", err)
	}
	// The duplicate and the blank entry are dropped before the total is
	// fixed, so the invariant holds on what was actually submitted.
	if rep.Summary.TotalURLs != 2 {
		t.Errorf("expected 2 URLs after normalization, got %d", rep.Summary.TotalURLs)
	}
	if rep.Summary.Classified != 1 || rep.Summary.Uncategorized != 1 {
		t.Errorf("unexpected summary: %+v", rep.Summary)
	}
}

func TestRunSkipsUnloadableCategory(t *testing.T) {
	src := &fakeSource{categories: map[string]zia.Category{
		"CUSTOM_01": {ID: "CUSTOM_01", Name: "Good", URLs: mixedURLs(3, 1)},
	}}

	events := make(chan Event, 100)
	ana := New(testConfig(), src, events)

	reports, err := ana.Run(context.Background(), []string{"CUSTOM_404", "CUSTOM_01"})
	close(events)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Summary.Category != "Good" {
		t.Errorf("expected the loadable category to be analyzed, got %s", reports[0].Summary.Category)
	}

	sawError := false
	for evt := range events {
		if evt.Kind == EventCategoryError && evt.Category == "CUSTOM_404" {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected a category error event for the unloadable category")
	}
}
