package extract

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// ModelSnapshot is a point-in-time latency aggregate for one model.
type ModelSnapshot struct {
	Count    int     `json:"count"`
	Failures int64   `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

type modelSeries struct {
	samples  []sample
	failures int64
}

// CallStats tracks recent AI call latencies per model within a rolling
// window. Failed calls only bump the failure counter; latency percentiles
// cover successful calls.
type CallStats struct {
	mu     sync.Mutex
	series map[string]*modelSeries
	maxAge time.Duration
}

func NewCallStats(maxAge time.Duration) *CallStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &CallStats{
		series: make(map[string]*modelSeries),
		maxAge: maxAge,
	}
}

func (s *CallStats) Record(model string, durationMs int64, success bool) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.series[model]
	if !ok {
		ms = &modelSeries{samples: make([]sample, 0, 64)}
		s.series[model] = ms
	}
	ms.prune(now, s.maxAge)
	if !success {
		ms.failures++
		return
	}
	ms.samples = append(ms.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

// Snapshot returns per-model aggregates keyed by model name.
func (s *CallStats) Snapshot() map[string]ModelSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]ModelSnapshot, len(s.series))
	for model, ms := range s.series {
		ms.prune(now, s.maxAge)
		snap := ModelSnapshot{Failures: ms.failures}
		if len(ms.samples) > 0 {
			values := make([]int64, 0, len(ms.samples))
			var sum int64
			for _, sm := range ms.samples {
				values = append(values, sm.durationMs)
				sum += sm.durationMs
			}
			sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

			snap.Count = len(values)
			snap.MinMs = values[0]
			snap.MaxMs = values[len(values)-1]
			snap.AvgMs = float64(sum) / float64(len(values))
			snap.P50Ms = percentile(values, 50)
			snap.P95Ms = percentile(values, 95)
			snap.P99Ms = percentile(values, 99)
		}
		out[model] = snap
	}
	return out
}

func (ms *modelSeries) prune(now time.Time, maxAge time.Duration) {
	cutoff := now.Add(-maxAge)
	writeIdx := 0
	for _, sm := range ms.samples {
		if !sm.timestamp.Before(cutoff) {
			ms.samples[writeIdx] = sm
			writeIdx++
		}
	}
	ms.samples = ms.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
