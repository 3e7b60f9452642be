package llm

import (
	"errors"
	"testing"

	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

func TestResolveModelStaticTable(t *testing.T) {
	tests := []struct {
		specialist persona.SpecialistType
		provider   ProviderID
		want       string
	}{
		{persona.SpecialistStrategy, ProviderOpenAI, "gpt-4o"},
		{persona.SpecialistStrategy, ProviderGroq, "llama-3.3-70b-versatile"},
		{persona.SpecialistStrategy, ProviderAnthropic, "claude-3-5-sonnet-20241022"},
		{persona.SpecialistStrategy, ProviderOllama, "llama3.1"},
		{persona.SpecialistReflection, ProviderOpenAI, "gpt-4o-mini"},
		{persona.SpecialistTechnical, ProviderOllama, "qwen2.5-coder"},
		{persona.SpecialistOrchestrator, ProviderGroq, "llama-3.1-8b-instant"},
	}

	for _, tt := range tests {
		got, err := ResolveModel(tt.specialist, tt.provider)
		if err != nil {
			t.Errorf("ResolveModel(%s, %s) error: %v", tt.specialist, tt.provider, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveModel(%s, %s) = %q, want %q", tt.specialist, tt.provider, got, tt.want)
		}
	}
}

func TestResolveModelEnvOverrideWins(t *testing.T) {
	t.Setenv("SIDEKICK_MODEL_STRATEGY", "gpt-5-preview")

	got, err := ResolveModel(persona.SpecialistStrategy, ProviderOllama)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "gpt-5-preview" {
		t.Errorf("expected env override to win, got %q", got)
	}
}

func TestResolveModelUnknownProviderFallsBackToOllama(t *testing.T) {
	got, err := ResolveModel(persona.SpecialistCreative, ProviderID("mistral"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "llama3.1" {
		t.Errorf("expected the ollama default, got %q", got)
	}
}

func TestResolveModelUnknownSpecialist(t *testing.T) {
	_, err := ResolveModel(persona.SpecialistType("astrologer"), ProviderOpenAI)
	if err == nil {
		t.Fatal("expected error for unknown specialist")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *ConfigurationError, got %T", err)
	}
}

// Every specialist must resolve on every provider without configuration:
// the ollama column doubles as the universal default.
func TestResolveModelNeverEmptyForKnownSpecialists(t *testing.T) {
	specialists := append(persona.UserFacingSpecialists(), persona.SpecialistOrchestrator)
	for _, spec := range specialists {
		for _, provider := range AllProviders() {
			model, err := ResolveModel(spec, provider)
			if err != nil {
				t.Errorf("ResolveModel(%s, %s) error: %v", spec, provider, err)
			}
			if model == "" {
				t.Errorf("ResolveModel(%s, %s) returned empty model with nil error", spec, provider)
			}
		}
	}
}

func TestModelOverrideEnv(t *testing.T) {
	if got := ModelOverrideEnv(persona.SpecialistTechnical); got != "SIDEKICK_MODEL_TECHNICAL" {
		t.Errorf("ModelOverrideEnv = %q", got)
	}
}
