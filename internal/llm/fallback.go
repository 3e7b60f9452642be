package llm

// fallbackChains is the static, hand-specified fallback ordering per
// primary provider. Chains are priority lists, not derived from latency or
// cost; they never include the primary itself and never repeat a provider.
// Ollama sits last in every cloud chain: it is the always-reachable floor.
var fallbackChains = map[ProviderID][]ProviderID{
	ProviderOpenAI:    {ProviderAnthropic, ProviderGroq, ProviderOllama},
	ProviderAnthropic: {ProviderOpenAI, ProviderGroq, ProviderOllama},
	ProviderGroq:      {ProviderOpenAI, ProviderAnthropic, ProviderOllama},
	ProviderOllama:    {ProviderGroq, ProviderOpenAI, ProviderAnthropic},
}

// FallbackChain returns the ordered fallback providers for a primary.
// The returned slice is a copy; callers may filter it freely.
func FallbackChain(primary ProviderID) []ProviderID {
	chain, ok := fallbackChains[primary]
	if !ok {
		return nil
	}
	out := make([]ProviderID, len(chain))
	copy(out, chain)
	return out
}
