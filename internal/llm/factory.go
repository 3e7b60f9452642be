package llm

import (
	"time"
)

// ProviderSettings is the per-vendor slice of the application config.
// Zero values fall back to DefaultProviderConfig; an empty APIKey falls
// back to the vendor's standard environment variable.
type ProviderSettings struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// BuildProviders constructs the full adapter set from per-vendor settings.
// Every supported provider gets an adapter; missing credentials make it
// unavailable, they never make it absent. nil settings means all defaults.
func BuildProviders(settings map[ProviderID]ProviderSettings) map[ProviderID]Provider {
	providers := make(map[ProviderID]Provider, len(AllProviders()))
	for _, id := range AllProviders() {
		s := settings[id]
		cfg := &ProviderConfig{
			Endpoint: s.Endpoint,
			APIKey:   s.APIKey,
			Timeout:  s.Timeout,
		}
		if cfg.APIKey == "" {
			cfg.APIKey = APIKeyFromEnv(id)
		}

		switch id {
		case ProviderOpenAI:
			providers[id] = NewOpenAIProvider(cfg)
		case ProviderGroq:
			providers[id] = NewGroqProvider(cfg)
		case ProviderAnthropic:
			providers[id] = NewAnthropicProvider(cfg)
		case ProviderOllama:
			providers[id] = NewOllamaProvider(cfg)
		}
	}
	return providers
}
