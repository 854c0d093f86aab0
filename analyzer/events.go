package analyzer

// EventKind distinguishes pipeline progress events.
type EventKind int

const (
	// EventCategoryStart fires once per category, after its URLs load.
	EventCategoryStart EventKind = iota
	// EventBatch fires after a batch reaches its final outcome.
	EventBatch
	// EventCategoryDone fires when a category's summary is finalized.
	EventCategoryDone
	// EventCategoryError fires when a category cannot be analyzed at all.
	EventCategoryError
)

// Event reports pipeline progress for the TUI and headless logs.
type Event struct {
	Kind       EventKind
	Category   string
	BatchIndex int // 1-based, for display
	BatchCount int
	LookedUp   int // URLs with a final outcome so far, failed included
	Total      int
	Failed     int // URLs in failed batches so far
	Attempts   int // attempts the last batch took
	Err        string
}
