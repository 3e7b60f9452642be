package logging

import (
	"context"
	"time"
)

// DetachContext creates a context that won't be cancelled when parent is.
// Uses Go 1.21+ context.WithoutCancel for clean implementation.
//
// Background work spawned from a request, like persisting conversation
// turns, must complete even when the request context is cancelled.
func DetachContext(parent context.Context) context.Context {
	return context.WithoutCancel(parent)
}

// DetachContextWithTimeout creates a detached context with its own timeout,
// independent of the parent context's cancellation status.
//
// Example usage:
//
//	persistCtx, cancel := logging.DetachContextWithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	err := store.SaveTurn(persistCtx, turn)
func DetachContextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(parent)
	return context.WithTimeout(detached, timeout)
}
