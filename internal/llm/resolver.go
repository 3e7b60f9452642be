package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

// ProviderID identifies one of the supported vendors.
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderGroq      ProviderID = "groq"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderOllama    ProviderID = "ollama"
)

// AllProviders returns every supported provider, in a stable order.
func AllProviders() []ProviderID {
	return []ProviderID{ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderOllama}
}

// IsValid checks whether p is a known provider.
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderOllama:
		return true
	}
	return false
}

// modelTable is the static default model per (specialist, provider).
// Every specialist has an ollama entry; that row doubles as the last-resort
// default when a provider column is missing.
var modelTable = map[persona.SpecialistType]map[ProviderID]string{
	persona.SpecialistReflection: {
		ProviderOpenAI:    "gpt-4o-mini",
		ProviderGroq:      "llama-3.1-8b-instant",
		ProviderAnthropic: "claude-3-5-haiku-20241022",
		ProviderOllama:    "llama3.1",
	},
	persona.SpecialistStrategy: {
		ProviderOpenAI:    "gpt-4o",
		ProviderGroq:      "llama-3.3-70b-versatile",
		ProviderAnthropic: "claude-3-5-sonnet-20241022",
		ProviderOllama:    "llama3.1",
	},
	persona.SpecialistSystems: {
		ProviderOpenAI:    "gpt-4o",
		ProviderGroq:      "llama-3.3-70b-versatile",
		ProviderAnthropic: "claude-3-5-sonnet-20241022",
		ProviderOllama:    "llama3.1",
	},
	persona.SpecialistTechnical: {
		ProviderOpenAI:    "gpt-4o",
		ProviderGroq:      "llama-3.3-70b-versatile",
		ProviderAnthropic: "claude-3-5-sonnet-20241022",
		ProviderOllama:    "qwen2.5-coder",
	},
	persona.SpecialistCreative: {
		ProviderOpenAI:    "gpt-4o",
		ProviderGroq:      "llama-3.3-70b-versatile",
		ProviderAnthropic: "claude-3-5-sonnet-20241022",
		ProviderOllama:    "llama3.1",
	},
	persona.SpecialistOrchestrator: {
		ProviderOpenAI:    "gpt-4o-mini",
		ProviderGroq:      "llama-3.1-8b-instant",
		ProviderAnthropic: "claude-3-5-haiku-20241022",
		ProviderOllama:    "llama3.2",
	},
}

// ModelOverrideEnv returns the environment variable consulted for a
// per-specialist model override, e.g. SIDEKICK_MODEL_STRATEGY.
func ModelOverrideEnv(specialist persona.SpecialistType) string {
	return "SIDEKICK_MODEL_" + strings.ToUpper(string(specialist))
}

// ResolveModel returns the model identifier for a specialist on a provider.
// Resolution order: explicit environment override, then the static table
// entry for (specialist, provider), then the specialist's local (ollama)
// default. A miss at every step is a *ConfigurationError; this function
// never returns an empty model name with a nil error.
func ResolveModel(specialist persona.SpecialistType, provider ProviderID) (string, error) {
	if override := os.Getenv(ModelOverrideEnv(specialist)); override != "" {
		return override, nil
	}

	row, ok := modelTable[specialist]
	if !ok {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("no models configured for specialist %q", specialist),
		}
	}
	if model, ok := row[provider]; ok && model != "" {
		return model, nil
	}
	if model, ok := row[ProviderOllama]; ok && model != "" {
		return model, nil
	}
	return "", &ConfigurationError{
		Reason: fmt.Sprintf("no model resolves for specialist %q on provider %q", specialist, provider),
	}
}
