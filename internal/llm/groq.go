package llm

import (
	"context"
)

// GroqProvider implements Provider against the Groq API, which speaks the
// OpenAI chat-completions wire format at a different base URL.
type GroqProvider struct {
	baseProvider
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(cfg *ProviderConfig) *GroqProvider {
	return &GroqProvider{baseProvider: newBaseProvider(cfg, ProviderGroq)}
}

// Generate sends one chat-completions request to Groq.
func (p *GroqProvider) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return openAICompatibleGenerate(ctx, &p.baseProvider, req)
}
