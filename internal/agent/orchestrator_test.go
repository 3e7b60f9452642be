package agent

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhsystems1/hhssidekick-sub000/internal/llm"
	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

// stubProvider answers every call with fixed text, or fails.
type stubProvider struct {
	id    string
	text  string
	fail  bool
	calls int
}

func (s *stubProvider) Generate(ctx context.Context, req *llm.GenerationRequest) (*llm.GenerationResult, error) {
	s.calls++
	if s.fail {
		return nil, &llm.ProviderError{Provider: s.id, Status: 503, Body: "unavailable"}
	}
	return &llm.GenerationResult{Text: s.text, Model: req.Model, TokensUsed: 21, ElapsedMS: 3}, nil
}

func (s *stubProvider) Name() string    { return s.id }
func (s *stubProvider) Available() bool { return true }

func newTestOrchestrator(t *testing.T, fail bool, memory *ConversationMemory) *Orchestrator {
	t.Helper()

	providers := make(map[llm.ProviderID]llm.Provider)
	for _, id := range llm.AllProviders() {
		providers[id] = &stubProvider{id: string(id), text: "stub answer", fail: fail}
	}

	router := llm.NewRouter(providers, llm.ProviderOllama, llm.NewUsageStats(), zerolog.Nop())
	classifier := persona.NewModeClassifier(nil)
	return NewOrchestrator(router, classifier, persona.NewRegistry(), memory,
		persona.SpecialistReflection, zerolog.Nop())
}

func TestProcessRequestSuccess(t *testing.T) {
	o := newTestOrchestrator(t, false, nil)

	resp := o.ProcessRequest(context.Background(), &AgentRequest{
		UserID:     "u-1",
		Message:    "should I take the job offer or stay? pros and cons",
		Specialist: persona.SpecialistStrategy,
	})

	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "stub answer", resp.Content)
	assert.Equal(t, persona.SpecialistStrategy, resp.Specialist)
	assert.Equal(t, persona.ModeDecision, resp.Mode)
	assert.Contains(t, resp.Rationale, "strategy")
	assert.Contains(t, resp.Rationale, "decision")
	assert.Equal(t, 21, resp.Metadata.TokensUsed)
	assert.False(t, resp.Metadata.Degraded)
	assert.Equal(t, "ollama", resp.Metadata.Provider)
}

func TestProcessRequestLocalProviderOnly(t *testing.T) {
	providers := map[llm.ProviderID]llm.Provider{
		llm.ProviderOllama: &stubProvider{id: "ollama", text: "price by value, not hours"},
	}
	router := llm.NewRouter(providers, llm.ProviderOllama, llm.NewUsageStats(), zerolog.Nop())
	o := NewOrchestrator(router, persona.NewModeClassifier(nil), persona.NewRegistry(), nil,
		persona.SpecialistStrategy, zerolog.Nop())

	resp := o.ProcessRequest(context.Background(), &AgentRequest{
		UserID:  "u-1",
		Message: "How should I price my consulting services?",
	})

	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Specialist)
	assert.NotEmpty(t, resp.Mode)
	assert.False(t, resp.Metadata.Degraded)
	assert.GreaterOrEqual(t, resp.Metadata.ExecutionMS, int64(0))
}

func TestProcessRequestDefaultsSpecialist(t *testing.T) {
	o := newTestOrchestrator(t, false, nil)

	tests := []persona.SpecialistType{
		"",
		persona.SpecialistType("astrologer"),
		persona.SpecialistOrchestrator, // internal-only, never user-served
	}
	for _, spec := range tests {
		resp := o.ProcessRequest(context.Background(), &AgentRequest{
			Message:    "hello there",
			Specialist: spec,
		})
		assert.Equal(t, persona.SpecialistReflection, resp.Specialist,
			"specialist %q should fall back to the default", spec)
	}
}

func TestProcessRequestDegradedOnTotalFailure(t *testing.T) {
	o := newTestOrchestrator(t, true, nil)

	resp := o.ProcessRequest(context.Background(), &AgentRequest{
		UserID:  "u-1",
		Message: "write me a launch email",
	})

	require.NotNil(t, resp, "total failure must still produce a response")
	assert.True(t, resp.Metadata.Degraded)
	assert.Zero(t, resp.Metadata.TokensUsed)
	assert.Contains(t, resp.Content, "unavailable", "degraded response should surface the cause")
	assert.Equal(t, persona.ModeAction, resp.Mode, "classification survives routing failure")
}

func TestProcessRequestPersistsTurns(t *testing.T) {
	memory, err := NewConversationMemory(nil, 8)
	require.NoError(t, err)

	o := newTestOrchestrator(t, false, memory)

	resp := o.ProcessRequest(context.Background(), &AgentRequest{
		UserID:         "u-1",
		ConversationID: "c-1",
		Message:        "organize my reading list",
	})
	require.False(t, resp.Metadata.Degraded)

	// Persistence is fire-and-forget; wait for the background write.
	require.Eventually(t, func() bool {
		turns, err := memory.Recent(context.Background(), "c-1", 10)
		return err == nil && len(turns) == 2
	}, 2*time.Second, 10*time.Millisecond)

	turns, err := memory.Recent(context.Background(), "c-1", 10)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "organize my reading list", turns[0].Content)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "stub answer", turns[1].Content)
	assert.Equal(t, string(resp.Specialist), turns[1].Specialist)
}

func TestProcessRequestNoConversationSkipsPersist(t *testing.T) {
	memory, err := NewConversationMemory(nil, 8)
	require.NoError(t, err)

	o := newTestOrchestrator(t, false, memory)
	o.ProcessRequest(context.Background(), &AgentRequest{Message: "hello"})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, memory.CachedConversations())
}

func TestProcessRequestAssignsID(t *testing.T) {
	o := newTestOrchestrator(t, false, nil)

	resp := o.ProcessRequest(context.Background(), &AgentRequest{Message: "hi"})
	assert.NotEmpty(t, resp.ID)

	resp2 := o.ProcessRequest(context.Background(), &AgentRequest{ID: "req-7", Message: "hi"})
	assert.Equal(t, "req-7", resp2.ID)
}
