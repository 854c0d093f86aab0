package analyzer

import "fmt"

// Batch is one bounded slice of a category's URLs, submitted in a single
// lookup call.
type Batch struct {
	Index int
	URLs  []string
}

// SplitBatches partitions urls into batches of at most maxSize, chunking
// by position. The batches cover the input exactly: concatenating them in
// Index order reproduces urls, with no overlap and no loss. An empty input
// yields no batches. A maxSize below one is a configuration error.
func SplitBatches(urls []string, maxSize int) ([]Batch, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", maxSize)
	}
	if len(urls) == 0 {
		return nil, nil
	}

	batches := make([]Batch, 0, (len(urls)+maxSize-1)/maxSize)
	for start := 0; start < len(urls); start += maxSize {
		end := min(start+maxSize, len(urls))
		batches = append(batches, Batch{Index: len(batches), URLs: urls[start:end]})
	}
	return batches, nil
}
