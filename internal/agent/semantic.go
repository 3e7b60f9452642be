package agent

import (
	"context"

	"github.com/hhsystems1/hhssidekick-sub000/internal/llm"
	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

// routerClassifier adapts the Router's raw generation capability to the
// persona.SemanticClassifier interface, keeping the persona package free of
// provider concerns. Classification calls go through the orchestrator
// specialist so they use cheap, fast models.
type routerClassifier struct {
	router *llm.Router
}

// NewRouterClassifier returns a semantic classifier backed by the router.
func NewRouterClassifier(r *llm.Router) persona.SemanticClassifier {
	return &routerClassifier{router: r}
}

func (c *routerClassifier) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return c.router.CallLLM(ctx, systemPrompt, userMessage)
}
