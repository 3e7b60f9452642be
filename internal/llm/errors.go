package llm

import (
	"fmt"
)

// ConfigurationError reports a request that cannot proceed because of
// missing configuration: no model resolves for a (specialist, provider)
// pair, or no provider is available at all. Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "llm configuration error: " + e.Reason
}

// ProviderError reports a single failed vendor call. Status is the HTTP
// status when one was received, zero for transport failures. Body carries
// the (size-limited) vendor error body for diagnostics.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError reports total routing failure: the primary provider and
// every available fallback failed. Callers must treat this as a hard
// failure, not a degraded success.
type ExhaustedError struct {
	Primary   string
	Attempted []string
	Err       error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all providers failed (primary %s, attempted %v): %v",
		e.Primary, e.Attempted, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}
