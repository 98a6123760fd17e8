package extract

import (
	"testing"
	"time"
)

func TestCallStats_PerModelAggregates(t *testing.T) {
	s := NewCallStats(time.Hour)
	for _, ms := range []int64{100, 200, 300} {
		s.Record("big", ms, true)
	}
	s.Record("big", 5000, false)
	s.Record("small", 50, true)

	snap := s.Snapshot()
	big := snap["big"]
	if big.Count != 3 {
		t.Errorf("expected 3 successful samples, got %d", big.Count)
	}
	if big.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", big.Failures)
	}
	if big.MinMs != 100 || big.MaxMs != 300 {
		t.Errorf("unexpected min/max: %d/%d", big.MinMs, big.MaxMs)
	}
	if big.AvgMs != 200 {
		t.Errorf("expected avg 200, got %v", big.AvgMs)
	}
	if big.P50Ms != 200 {
		t.Errorf("expected p50 200, got %v", big.P50Ms)
	}
	if small := snap["small"]; small.Count != 1 || small.Failures != 0 {
		t.Errorf("unexpected small snapshot %+v", small)
	}
}

func TestCallStats_EmptySnapshot(t *testing.T) {
	s := NewCallStats(time.Hour)
	if snap := s.Snapshot(); len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %v", snap)
	}
}

func TestCallStats_NegativeDurationClamped(t *testing.T) {
	s := NewCallStats(time.Hour)
	s.Record("big", -5, true)
	if snap := s.Snapshot()["big"]; snap.MinMs != 0 {
		t.Errorf("expected clamp to 0, got %d", snap.MinMs)
	}
}

func TestPercentile(t *testing.T) {
	values := []int64{10, 20, 30, 40, 50}
	if got := percentile(values, 0); got != 10 {
		t.Errorf("p0 = %v, want 10", got)
	}
	if got := percentile(values, 100); got != 50 {
		t.Errorf("p100 = %v, want 50", got)
	}
	if got := percentile(values, 50); got != 30 {
		t.Errorf("p50 = %v, want 30", got)
	}
}
