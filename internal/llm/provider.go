// Package llm provides LLM provider adapters and the routing layer with
// provider fallback for the Sidekick agent core. Supported vendors: OpenAI,
// Groq (OpenAI-compatible), Anthropic, and Ollama (local).
package llm

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

// MaxErrorBodySize limits how much of a vendor error body is read (1MB),
// preventing unbounded allocation on malformed error responses.
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider is the capability every vendor adapter implements. Adapters
// build the vendor request, perform one call, and normalize the reply; they
// never retry internally. Retry and fallback belong to the Router.
type Provider interface {
	// Generate sends one generation request and returns the normalized result.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

	// Name returns the provider identifier.
	Name() string

	// Available reports whether the provider is configured for use.
	Available() bool
}

// GenerationRequest is the normalized request handed to an adapter.
// Constructed fresh per call, never persisted.
type GenerationRequest struct {
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	UserMessage  string  `json:"user_message"`
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	TopP         float64 `json:"top_p,omitempty"`
}

// GenerationResult is the normalized reply. TokensUsed is zero when the
// vendor does not report usage.
type GenerationResult struct {
	Text             string `json:"text"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	TokensUsed       int    `json:"tokens_used,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	ElapsedMS        int64  `json:"elapsed_ms"`
}

// ProviderConfig configures a single vendor adapter.
type ProviderConfig struct {
	// Name identifies the provider (openai, groq, anthropic, ollama).
	Name string

	// Endpoint is the API base URL.
	Endpoint string

	// APIKey for authentication. Empty means unavailable for cloud vendors.
	APIKey string

	// Timeout for API calls.
	Timeout time.Duration
}

// DefaultProviderConfig returns the defaults for a provider.
func DefaultProviderConfig(name ProviderID) *ProviderConfig {
	switch name {
	case ProviderOpenAI:
		return &ProviderConfig{
			Name:     string(ProviderOpenAI),
			Endpoint: "https://api.openai.com/v1",
			Timeout:  2 * time.Minute,
		}
	case ProviderGroq:
		return &ProviderConfig{
			Name:     string(ProviderGroq),
			Endpoint: "https://api.groq.com/openai/v1",
			Timeout:  30 * time.Second,
		}
	case ProviderAnthropic:
		return &ProviderConfig{
			Name:     string(ProviderAnthropic),
			Endpoint: "https://api.anthropic.com",
			Timeout:  2 * time.Minute,
		}
	case ProviderOllama:
		return &ProviderConfig{
			Name:     string(ProviderOllama),
			Endpoint: "http://127.0.0.1:11434",
			Timeout:  2 * time.Minute,
		}
	default:
		return &ProviderConfig{Name: string(name), Timeout: 2 * time.Minute}
	}
}

// apiKeyEnvVars maps providers to their conventional environment variables,
// consulted when the config file carries no key.
var apiKeyEnvVars = map[ProviderID]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGroq:      "GROQ_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// APIKeyFromEnv returns the API key for a provider from its standard
// environment variable, or "" for providers that need none.
func APIKeyFromEnv(name ProviderID) string {
	if envVar, ok := apiKeyEnvVars[name]; ok {
		return os.Getenv(envVar)
	}
	return ""
}

// baseProvider provides common plumbing for the HTTP-based adapters.
type baseProvider struct {
	config *ProviderConfig
	client *http.Client
}

func newBaseProvider(cfg *ProviderConfig, name ProviderID) baseProvider {
	if cfg == nil {
		cfg = DefaultProviderConfig(name)
	}
	defaults := DefaultProviderConfig(name)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	cfg.Name = string(name)

	return baseProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider identifier.
func (b *baseProvider) Name() string {
	return b.config.Name
}

// Available checks whether the API key is configured.
func (b *baseProvider) Available() bool {
	return b.config.APIKey != ""
}
