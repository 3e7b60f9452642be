package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const anthropicVersion = "2023-06-01"

// Anthropic requires max_tokens; used when the request leaves it zero.
const anthropicDefaultMaxTokens = 1024

// AnthropicProvider implements Provider against the Anthropic messages API.
type AnthropicProvider struct {
	baseProvider
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg *ProviderConfig) *AnthropicProvider {
	return &AnthropicProvider{baseProvider: newBaseProvider(cfg, ProviderAnthropic)}
}

// Generate sends one messages request to Anthropic.
func (p *AnthropicProvider) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if p.config.APIKey == "" {
		return nil, &ProviderError{
			Provider: p.config.Name,
			Err:      fmt.Errorf("API key not configured"),
		}
	}

	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	wireReq := anthropicRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.UserMessage},
		},
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

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

	var wireResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(wireResp.Content) == 0 {
		return nil, &ProviderError{Provider: p.config.Name, Err: fmt.Errorf("no content in response")}
	}

	return &GenerationResult{
		Text:             wireResp.Content[0].Text,
		Provider:         p.config.Name,
		Model:            wireResp.Model,
		TokensUsed:       wireResp.Usage.InputTokens + wireResp.Usage.OutputTokens,
		PromptTokens:     wireResp.Usage.InputTokens,
		CompletionTokens: wireResp.Usage.OutputTokens,
		ElapsedMS:        time.Since(start).Milliseconds(),
	}, nil
}

// Anthropic wire types.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	TopP        float64            `json:"top_p,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
