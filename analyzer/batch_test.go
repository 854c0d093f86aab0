package analyzer

import (
	"fmt"
	"testing"
)

func TestSplitBatches(t *testing.T) {
	tests := []struct {
		name      string
		urlCount  int
		maxSize   int
		wantSizes []int
	}{
		{name: "exact multiple", urlCount: 200, maxSize: 100, wantSizes: []int{100, 100}},
		{name: "remainder batch", urlCount: 250, maxSize: 100, wantSizes: []int{100, 100, 50}},
		{name: "single short batch", urlCount: 7, maxSize: 100, wantSizes: []int{7}},
		{name: "size one", urlCount: 3, maxSize: 1, wantSizes: []int{1, 1, 1}},
		{name: "empty input yields no batches", urlCount: 0, maxSize: 100, wantSizes: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls := makeURLs(tt.urlCount)
			batches, err := SplitBatches(urls, tt.maxSize)
			if err != nil {
				t.Fatalf("SplitBatches returned error: %v", err)
			}
			if len(batches) != len(tt.wantSizes) {
				t.Fatalf("expected %d batches, got %d", len(tt.wantSizes), len(batches))
			}
			for i, batch := range batches {
				if batch.Index != i {
					t.Errorf("batch %d has Index %d", i, batch.Index)
				}
				if len(batch.URLs) != tt.wantSizes[i] {
					t.Errorf("batch %d has %d URLs, expected %d", i, len(batch.URLs), tt.wantSizes[i])
				}
			}

			// Concatenating the batches in Index order must reproduce the
			// input exactly.
			var rejoined []string
			for _, batch := range batches {
				rejoined = append(rejoined, batch.URLs...)
			}
			if len(rejoined) != len(urls) {
				t.Fatalf("batches cover %d URLs, input had %d", len(rejoined), len(urls))
			}
			for i := range urls {
				if rejoined[i] != urls[i] {
					t.Fatalf("position %d: got %q, expected %q", i, rejoined[i], urls[i])
				}
			}
		})
	}
}

func TestSplitBatchesInvalidMaxSize(t *testing.T) {
	for _, maxSize := range []int{0, -1, -100} {
		if _, err := SplitBatches(makeURLs(5), maxSize); err == nil {
			t.Errorf("expected error for maxSize=%d", maxSize)
		}
	}
}

func TestSplitBatchesDeterministic(t *testing.T) {
	urls := makeURLs(42)
	first, err := SplitBatches(urls, 10)
	if err != nil {
		t.Fatalf("SplitBatches returned error: %v", err)
	}
	second, err := SplitBatches(urls, 10)
	if err != nil {
		t.Fatalf("SplitBatches returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("batch counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i].URLs) != len(second[i].URLs) {
			t.Fatalf("batch %d sizes differ", i)
		}
		for j := range first[i].URLs {
			if first[i].URLs[j] != second[i].URLs[j] {
				t.Fatalf("batch %d position %d differs", i, j)
			}
		}
	}
}

func makeURLs(n int) []string {
	urls := make([]string, 0, n)
	for i := range n {
		urls = append(urls, fmt.Sprintf("site%04d.example.com", i))
	}
	return urls
}
