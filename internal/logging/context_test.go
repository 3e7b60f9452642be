package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetachContextSurvivesCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	detached := DetachContext(parent)

	cancel()

	require.Error(t, parent.Err())
	assert.NoError(t, detached.Err(), "detached context must outlive its parent")
}

func TestDetachContextPreservesValues(t *testing.T) {
	type key string
	parent := context.WithValue(context.Background(), key("user"), "u-123")

	detached := DetachContext(parent)

	assert.Equal(t, "u-123", detached.Value(key("user")))
}

func TestDetachContextWithTimeout(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	detached, cancel := DetachContextWithTimeout(parent, 50*time.Millisecond)
	defer cancel()

	parentCancel()

	// Parent cancellation does not propagate
	require.NoError(t, detached.Err())

	// But the detached deadline is real
	_, ok := detached.Deadline()
	require.True(t, ok, "detached context should carry its own deadline")

	<-detached.Done()
	assert.ErrorIs(t, detached.Err(), context.DeadlineExceeded)
}
