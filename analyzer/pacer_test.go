package analyzer

import (
	"context"
	"testing"
	"time"
)

func TestIntervalPacerSpacesCalls(t *testing.T) {
	const interval = 50 * time.Millisecond
	pacer := NewIntervalPacer(interval)

	var stamps []time.Time
	for range 3 {
		if err := pacer.Wait(context.Background()); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
		stamps = append(stamps, time.Now())
	}

	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < interval {
			t.Errorf("calls %d and %d only %v apart, expected at least %v", i-1, i, gap, interval)
		}
	}
}

func TestIntervalPacerFirstCallImmediate(t *testing.T) {
	pacer := NewIntervalPacer(time.Hour)

	start := time.Now()
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestIntervalPacerNonPositiveIntervalNoOp(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		pacer := NewIntervalPacer(interval)
		start := time.Now()
		for range 10 {
			if err := pacer.Wait(context.Background()); err != nil {
				t.Fatalf("Wait returned error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("interval %v: 10 waits took %v, expected no pacing", interval, elapsed)
		}
	}
}

func TestIntervalPacerContextCancel(t *testing.T) {
	pacer := NewIntervalPacer(time.Hour)
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pacer.Wait(ctx); err == nil {
		t.Error("expected error when context expires during wait")
	}
}
