// Package agent implements the Sidekick request pipeline: classify the
// message into a behavioral mode, assemble the specialist's system prompt,
// route the generation with provider fallback, and wrap the outcome in a
// response the caller can always render.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hhsystems1/hhssidekick-sub000/internal/llm"
	"github.com/hhsystems1/hhssidekick-sub000/internal/logging"
	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

// persistTimeout bounds the background write of conversation turns.
const persistTimeout = 10 * time.Second

// AgentRequest is one user message entering the pipeline.
type AgentRequest struct {
	// ID is assigned when empty.
	ID             string `json:"id,omitempty"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	// Specialist selects the persona; empty means the configured default.
	Specialist persona.SpecialistType `json:"specialist,omitempty"`
	Context    *persona.UserContext   `json:"context,omitempty"`
}

// ResponseMetadata carries execution details for display and accounting.
type ResponseMetadata struct {
	TokensUsed  int     `json:"tokens_used"`
	ExecutionMS int64   `json:"execution_ms"`
	Confidence  float64 `json:"confidence"`
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model,omitempty"`
	Degraded    bool    `json:"degraded,omitempty"`
}

// AgentResponse is what the caller renders. It exists even when every
// provider failed; Degraded marks that case.
type AgentResponse struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Specialist persona.SpecialistType `json:"specialist"`
	Mode       persona.BehavioralMode `json:"mode"`
	Rationale  string                 `json:"rationale"`
	Metadata   ResponseMetadata       `json:"metadata"`
}

// Orchestrator owns the request pipeline. All dependencies are injected;
// memory may be nil, which disables history and persistence.
type Orchestrator struct {
	router            *llm.Router
	classifier        *persona.ModeClassifier
	registry          *persona.Registry
	memory            *ConversationMemory
	defaultSpecialist persona.SpecialistType
	log               zerolog.Logger
}

// NewOrchestrator wires the pipeline together. An invalid defaultSpecialist
// silently becomes reflection.
func NewOrchestrator(
	router *llm.Router,
	classifier *persona.ModeClassifier,
	registry *persona.Registry,
	memory *ConversationMemory,
	defaultSpecialist persona.SpecialistType,
	log zerolog.Logger,
) *Orchestrator {
	if !defaultSpecialist.IsValid() || defaultSpecialist == persona.SpecialistOrchestrator {
		defaultSpecialist = persona.SpecialistReflection
	}
	return &Orchestrator{
		router:            router,
		classifier:        classifier,
		registry:          registry,
		memory:            memory,
		defaultSpecialist: defaultSpecialist,
		log:               log.With().Str("component", "orchestrator").Logger(),
	}
}

// ProcessRequest runs the full pipeline for one message. It never returns
// an error: pipeline failures produce a degraded response carrying the
// failure text, so the caller always has something to show the user.
func (o *Orchestrator) ProcessRequest(ctx context.Context, req *AgentRequest) *AgentResponse {
	start := time.Now()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	specialist := req.Specialist
	if !specialist.IsValid() || specialist == persona.SpecialistOrchestrator {
		specialist = o.defaultSpecialist
	}

	history := o.recentHistory(ctx, req.ConversationID)
	mode, confidence := o.classifier.Classify(ctx, req.Message, history)

	systemPrompt := o.registry.BuildSystemPrompt(specialist, mode, req.Context)

	res, err := o.router.Route(ctx, &llm.RouteRequest{
		Specialist:   specialist,
		Mode:         mode,
		SystemPrompt: systemPrompt,
		UserMessage:  req.Message,
	})
	if err != nil {
		o.log.Error().
			Err(err).
			Str("request_id", req.ID).
			Str("specialist", string(specialist)).
			Msg("request degraded, all routing failed")
		return o.degradedResponse(req, specialist, mode, confidence, start, err)
	}

	resp := &AgentResponse{
		ID:         req.ID,
		Content:    res.Text,
		Specialist: specialist,
		Mode:       mode,
		Rationale: fmt.Sprintf("Handled by the %s specialist in %s mode (confidence %.2f).",
			specialist, mode, confidence),
		Metadata: ResponseMetadata{
			TokensUsed:  res.TokensUsed,
			ExecutionMS: time.Since(start).Milliseconds(),
			Confidence:  confidence,
			Provider:    res.Provider,
			Model:       res.Model,
		},
	}

	o.persistAsync(ctx, req, resp)

	return resp
}

// degradedResponse is the apology path: zero usage, the error embedded so
// support can read it back from the transcript.
func (o *Orchestrator) degradedResponse(req *AgentRequest, specialist persona.SpecialistType, mode persona.BehavioralMode, confidence float64, start time.Time, cause error) *AgentResponse {
	return &AgentResponse{
		ID: req.ID,
		Content: fmt.Sprintf(
			"I'm sorry, I couldn't reach any language model to answer that right now. Please try again in a moment. (%v)",
			cause),
		Specialist: specialist,
		Mode:       mode,
		Rationale:  "All providers failed; no generation was produced.",
		Metadata: ResponseMetadata{
			ExecutionMS: time.Since(start).Milliseconds(),
			Confidence:  confidence,
			Degraded:    true,
		},
	}
}

// recentHistory returns prior user messages for the classifier. Memory
// being nil or failing only means less context, never a failed request.
func (o *Orchestrator) recentHistory(ctx context.Context, conversationID string) []string {
	if o.memory == nil || conversationID == "" {
		return nil
	}
	turns, err := o.memory.Recent(ctx, conversationID, historyWindow)
	if err != nil {
		o.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("history load failed")
		return nil
	}
	var msgs []string
	for _, t := range turns {
		if t.Role == RoleUser {
			msgs = append(msgs, t.Content)
		}
	}
	return msgs
}

// persistAsync records the exchange without blocking the response. The
// context is detached so request cancellation cannot abort the write;
// failures are logged and dropped.
func (o *Orchestrator) persistAsync(ctx context.Context, req *AgentRequest, resp *AgentResponse) {
	if o.memory == nil || req.ConversationID == "" {
		return
	}

	now := time.Now().UTC()
	turns := []Turn{
		{
			ID:             uuid.NewString(),
			ConversationID: req.ConversationID,
			UserID:         req.UserID,
			Role:           RoleUser,
			Content:        req.Message,
			CreatedAt:      now,
		},
		{
			ID:             uuid.NewString(),
			ConversationID: req.ConversationID,
			UserID:         req.UserID,
			Role:           RoleAssistant,
			Content:        resp.Content,
			Specialist:     string(resp.Specialist),
			Mode:           string(resp.Mode),
			CreatedAt:      now,
		},
	}

	go func() {
		persistCtx, cancel := logging.DetachContextWithTimeout(ctx, persistTimeout)
		defer cancel()

		if err := o.memory.Append(persistCtx, turns...); err != nil {
			o.log.Warn().
				Err(err).
				Str("conversation_id", req.ConversationID).
				Msg("conversation persist failed")
		}
	}()
}
