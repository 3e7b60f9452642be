package persona

// GenerationParams are the sampling parameters resolved for a request.
type GenerationParams struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

// modeParams maps each behavioral mode to its sampling parameters.
// Decision and action modes run cooler with larger token budgets: their
// output is structured and concrete. Exploratory runs hottest.
var modeParams = map[BehavioralMode]GenerationParams{
	ModeExploratory: {Temperature: 0.8, MaxTokens: 1024, TopP: 0.95},
	ModeOrganizing:  {Temperature: 0.6, MaxTokens: 1536, TopP: 0.9},
	ModeDecision:    {Temperature: 0.4, MaxTokens: 2048, TopP: 0.85},
	ModeAction:      {Temperature: 0.3, MaxTokens: 2048, TopP: 0.8},
}

// ParamsFor returns the generation parameters for a mode. Unknown modes get
// the exploratory defaults. Pure table lookup, no mutable state.
func ParamsFor(mode BehavioralMode) GenerationParams {
	if p, ok := modeParams[mode]; ok {
		return p
	}
	return modeParams[DefaultMode]
}
