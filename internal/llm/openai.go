package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OpenAIProvider implements Provider against the OpenAI chat-completions
// API. Groq reuses the same wire types, see groq.go.
type OpenAIProvider struct {
	baseProvider
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg *ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{baseProvider: newBaseProvider(cfg, ProviderOpenAI)}
}

// Generate sends one chat-completions request to OpenAI.
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	return openAICompatibleGenerate(ctx, &p.baseProvider, req)
}

// openAICompatibleGenerate performs one call against an OpenAI-compatible
// chat-completions endpoint. Shared by the OpenAI and Groq adapters, which
// differ only in base URL and credentials.
func openAICompatibleGenerate(ctx context.Context, b *baseProvider, req *GenerationRequest) (*GenerationResult, error) {
	if b.config.APIKey == "" {
		return nil, &ProviderError{
			Provider: b.config.Name,
			Err:      fmt.Errorf("API key not configured"),
		}
	}

	start := time.Now()

	wireReq := openAIChatRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	if req.SystemPrompt != "" {
		wireReq.Messages = append(wireReq.Messages, openAIMessage{Role: "system", Content: req.SystemPrompt})
	}
	wireReq.Messages = append(wireReq.Messages, openAIMessage{Role: "user", Content: req.UserMessage})

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, &ProviderError{Provider: b.config.Name, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.config.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: b.config.Name, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.config.APIKey)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: b.config.Name, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := readLimitedBody(resp.Body, MaxErrorBodySize)
		return nil, &ProviderError{
			Provider: b.config.Name,
			Status:   resp.StatusCode,
			Body:     string(bodyBytes),
		}
	}

	var wireResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, &ProviderError{Provider: b.config.Name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(wireResp.Choices) == 0 {
		return nil, &ProviderError{Provider: b.config.Name, Err: fmt.Errorf("no choices in response")}
	}

	return &GenerationResult{
		Text:             wireResp.Choices[0].Message.Content,
		Provider:         b.config.Name,
		Model:            wireResp.Model,
		TokensUsed:       wireResp.Usage.TotalTokens,
		PromptTokens:     wireResp.Usage.PromptTokens,
		CompletionTokens: wireResp.Usage.CompletionTokens,
		ElapsedMS:        time.Since(start).Milliseconds(),
	}, nil
}

// OpenAI wire types.
type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	TopP        float64         `json:"top_p,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
