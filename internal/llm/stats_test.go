package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageStatsAggregates(t *testing.T) {
	s := NewUsageStats()

	s.RecordAttempt("openai", false)
	s.RecordFailure("openai")
	s.RecordAttempt("anthropic", true)
	s.RecordSuccess(&GenerationResult{Model: "claude-3-5-sonnet-20241022", TokensUsed: 100, ElapsedMS: 200})
	s.RecordAttempt("openai", false)
	s.RecordSuccess(&GenerationResult{Model: "gpt-4o", TokensUsed: 50, ElapsedMS: 100})

	snap := s.Snapshot()
	assert.Equal(t, int64(3), snap.Requests)
	assert.Equal(t, int64(2), snap.Successes)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, int64(1), snap.Fallbacks)
	assert.Equal(t, int64(150), snap.TokensUsed)
	assert.Equal(t, 150.0, snap.AvgLatencyMS)
	assert.Equal(t, int64(1), snap.ModelCounts["gpt-4o"])
	assert.Equal(t, int64(2), snap.ProviderCounts["openai"])
}

func TestUsageStatsSnapshotIsACopy(t *testing.T) {
	s := NewUsageStats()
	s.RecordAttempt("openai", false)
	s.RecordSuccess(&GenerationResult{Model: "gpt-4o", TokensUsed: 10, ElapsedMS: 5})

	snap := s.Snapshot()
	snap.ModelCounts["gpt-4o"] = 999

	assert.Equal(t, int64(1), s.Snapshot().ModelCounts["gpt-4o"],
		"mutating a snapshot must not affect the aggregator")
}

func TestUsageStatsConcurrent(t *testing.T) {
	s := NewUsageStats()

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.RecordAttempt("openai", i%2 == 0)
				s.RecordSuccess(&GenerationResult{Model: "gpt-4o", TokensUsed: 1, ElapsedMS: 10})
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, int64(workers*perWorker), snap.Requests)
	assert.Equal(t, int64(workers*perWorker), snap.Successes)
	assert.Equal(t, int64(workers*perWorker), snap.TokensUsed)
	assert.Equal(t, 10.0, snap.AvgLatencyMS)
}
