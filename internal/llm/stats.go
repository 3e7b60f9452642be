package llm

import (
	"sync"
	"sync/atomic"
)

// UsageStats aggregates request and token counters for the routing layer.
// It is an injected dependency, constructed once and shared by reference;
// there is no package-level registry. Counter updates are atomic; the
// latency average and per-model counts take the mutex.
type UsageStats struct {
	requests  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
	fallbacks atomic.Int64
	tokens    atomic.Int64

	mu             sync.Mutex
	avgLatencyMS   float64
	latencySamples int64
	modelCounts    map[string]int64
	providerCounts map[string]int64
}

// NewUsageStats creates an empty aggregator.
func NewUsageStats() *UsageStats {
	return &UsageStats{
		modelCounts:    make(map[string]int64),
		providerCounts: make(map[string]int64),
	}
}

// RecordAttempt counts one outbound provider call. fallback marks attempts
// past the primary.
func (s *UsageStats) RecordAttempt(provider string, fallback bool) {
	s.requests.Add(1)
	if fallback {
		s.fallbacks.Add(1)
	}
	s.mu.Lock()
	s.providerCounts[provider]++
	s.mu.Unlock()
}

// RecordSuccess folds a completed generation into the aggregate: token
// total, per-model count, and the rolling latency average.
func (s *UsageStats) RecordSuccess(res *GenerationResult) {
	s.successes.Add(1)
	s.tokens.Add(int64(res.TokensUsed))

	s.mu.Lock()
	s.modelCounts[res.Model]++
	s.latencySamples++
	s.avgLatencyMS += (float64(res.ElapsedMS) - s.avgLatencyMS) / float64(s.latencySamples)
	s.mu.Unlock()
}

// RecordFailure counts one failed provider call.
func (s *UsageStats) RecordFailure(provider string) {
	s.failures.Add(1)
}

// StatsSnapshot is a point-in-time copy of the aggregate, safe to hold.
type StatsSnapshot struct {
	Requests       int64            `json:"requests"`
	Successes      int64            `json:"successes"`
	Failures       int64            `json:"failures"`
	Fallbacks      int64            `json:"fallbacks"`
	TokensUsed     int64            `json:"tokens_used"`
	AvgLatencyMS   float64          `json:"avg_latency_ms"`
	ModelCounts    map[string]int64 `json:"model_counts"`
	ProviderCounts map[string]int64 `json:"provider_counts"`
}

// Snapshot copies the current aggregate. The maps in the snapshot are owned
// by the caller.
func (s *UsageStats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Requests:   s.requests.Load(),
		Successes:  s.successes.Load(),
		Failures:   s.failures.Load(),
		Fallbacks:  s.fallbacks.Load(),
		TokensUsed: s.tokens.Load(),
	}

	s.mu.Lock()
	snap.AvgLatencyMS = s.avgLatencyMS
	snap.ModelCounts = make(map[string]int64, len(s.modelCounts))
	for k, v := range s.modelCounts {
		snap.ModelCounts[k] = v
	}
	snap.ProviderCounts = make(map[string]int64, len(s.providerCounts))
	for k, v := range s.providerCounts {
		snap.ProviderCounts[k] = v
	}
	s.mu.Unlock()

	return snap
}
