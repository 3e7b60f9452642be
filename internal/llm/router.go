package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

// RouteRequest is what callers hand the Router: who should answer (the
// specialist), in what register (the mode), and the already-assembled
// prompts. Nonzero parameter fields override the mode's defaults.
type RouteRequest struct {
	Specialist   persona.SpecialistType
	Mode         persona.BehavioralMode
	SystemPrompt string
	UserMessage  string

	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Router dispatches generation requests to a primary provider and walks its
// static fallback chain on failure. Attempts are strictly sequential; the
// Router owns all retry semantics, adapters perform exactly one call each.
type Router struct {
	providers map[ProviderID]Provider
	primary   ProviderID
	stats     *UsageStats
	log       zerolog.Logger
	overrides map[persona.SpecialistType]string
}

// NewRouter creates a Router over a provider set. stats must be non-nil;
// every attempt is recorded in it.
func NewRouter(providers map[ProviderID]Provider, primary ProviderID, stats *UsageStats, log zerolog.Logger) *Router {
	return &Router{
		providers: providers,
		primary:   primary,
		stats:     stats,
		log:       log.With().Str("component", "router").Logger(),
	}
}

// Primary returns the configured primary provider.
func (r *Router) Primary() ProviderID {
	return r.primary
}

// SetModelOverrides installs per-specialist model overrides from the config
// file. Environment overrides still win; see resolveModel.
func (r *Router) SetModelOverrides(overrides map[persona.SpecialistType]string) {
	r.overrides = overrides
}

// resolveModel layers the config-file override between the environment
// override and the static table.
func (r *Router) resolveModel(specialist persona.SpecialistType, provider ProviderID) (string, error) {
	if env := os.Getenv(ModelOverrideEnv(specialist)); env != "" {
		return env, nil
	}
	if model, ok := r.overrides[specialist]; ok && model != "" {
		return model, nil
	}
	return ResolveModel(specialist, provider)
}

// candidates returns the primary followed by its fallback chain, keeping
// only providers that are registered and report Available().
func (r *Router) candidates() []ProviderID {
	order := append([]ProviderID{r.primary}, FallbackChain(r.primary)...)
	out := make([]ProviderID, 0, len(order))
	for _, id := range order {
		p, ok := r.providers[id]
		if !ok || !p.Available() {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Route resolves the model and generation parameters for the request, then
// tries the primary provider and each available fallback in chain order.
// The first success wins and is returned annotated with the provider and
// model that actually served it. Model-resolution misses are configuration
// errors and are not retried against other providers. When every candidate
// fails, the caller gets an *ExhaustedError naming the primary and
// wrapping the last provider failure.
func (r *Router) Route(ctx context.Context, req *RouteRequest) (*GenerationResult, error) {
	mode := req.Mode
	if !mode.IsValid() {
		mode = persona.DefaultMode
	}
	params := persona.ParamsFor(mode)
	temperature := params.Temperature
	if req.Temperature != 0 {
		temperature = req.Temperature
	}
	maxTokens := params.MaxTokens
	if req.MaxTokens != 0 {
		maxTokens = req.MaxTokens
	}
	topP := params.TopP
	if req.TopP != 0 {
		topP = req.TopP
	}

	candidates := r.candidates()
	if len(candidates) == 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("no provider available (primary %s)", r.primary),
		}
	}

	var (
		lastErr   error
		attempted []string
	)
	for i, id := range candidates {
		model, err := r.resolveModel(req.Specialist, id)
		if err != nil {
			return nil, err
		}

		genReq := &GenerationRequest{
			Model:        model,
			SystemPrompt: req.SystemPrompt,
			UserMessage:  req.UserMessage,
			Temperature:  temperature,
			MaxTokens:    maxTokens,
			TopP:         topP,
		}

		fallback := i > 0
		r.stats.RecordAttempt(string(id), fallback)
		if fallback {
			r.log.Warn().
				Str("provider", string(id)).
				Str("specialist", string(req.Specialist)).
				Msg("falling back")
		}

		res, err := r.providers[id].Generate(ctx, genReq)
		if err != nil {
			r.stats.RecordFailure(string(id))
			r.log.Warn().
				Err(err).
				Str("provider", string(id)).
				Str("model", model).
				Msg("provider call failed")
			lastErr = err
			attempted = append(attempted, string(id))
			continue
		}

		res.Provider = string(id)
		if res.Model == "" {
			res.Model = model
		}
		r.stats.RecordSuccess(res)
		r.log.Debug().
			Str("provider", string(id)).
			Str("model", res.Model).
			Int("tokens", res.TokensUsed).
			Int64("elapsed_ms", res.ElapsedMS).
			Msg("generation complete")
		return res, nil
	}

	return nil, &ExhaustedError{
		Primary:   string(r.primary),
		Attempted: attempted,
		Err:       lastErr,
	}
}

// CallLLM is the raw generation capability: no persona prompt assembly,
// just a system prompt and a user message routed with fallback. Used for
// internal calls like semantic classification and summarization.
func (r *Router) CallLLM(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	res, err := r.Route(ctx, &RouteRequest{
		Specialist:   persona.SpecialistOrchestrator,
		Mode:         persona.DefaultMode,
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
