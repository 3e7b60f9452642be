package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OllamaProvider implements Provider against a local Ollama daemon. It is
// the unconditional floor of every fallback chain: no API key, assumed
// reachable, failures surface at call time like any other provider.
type OllamaProvider struct {
	baseProvider
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg *ProviderConfig) *OllamaProvider {
	return &OllamaProvider{baseProvider: newBaseProvider(cfg, ProviderOllama)}
}

// Available always reports true; Ollama needs no credentials and
// reachability is only known at call time.
func (p *OllamaProvider) Available() bool {
	return true
}

// Generate sends one non-streaming chat request to the local daemon.
func (p *OllamaProvider) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	start := time.Now()

	wireReq := ollamaChatRequest{
		Model:  req.Model,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			TopP:        req.TopP,
		},
	}
	if req.SystemPrompt != "" {
		wireReq.Messages = append(wireReq.Messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	wireReq.Messages = append(wireReq.Messages, ollamaMessage{Role: "user", Content: req.UserMessage})

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := readLimitedBody(resp.Body, MaxErrorBodySize)
		return nil, &ProviderError{
			Provider: p.config.Name,
			Status:   resp.StatusCode,
			Body:     string(bodyBytes),
		}
	}

	var wireResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("decode response: %w", err)}
	}

	return &GenerationResult{
		Text:             wireResp.Message.Content,
		Provider:         p.config.Name,
		Model:            wireResp.Model,
		TokensUsed:       wireResp.PromptEvalCount + wireResp.EvalCount,
		PromptTokens:     wireResp.PromptEvalCount,
		CompletionTokens: wireResp.EvalCount,
		ElapsedMS:        time.Since(start).Milliseconds(),
	}, nil
}

// Ollama wire types.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}
