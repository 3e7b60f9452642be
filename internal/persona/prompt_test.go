package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreambleCoversEveryPair(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]bool)
	for _, spec := range UserFacingSpecialists() {
		for _, mode := range AllModes() {
			p := r.Preamble(spec, mode)
			require.NotEmpty(t, p, "%s/%s has no preamble", spec, mode)
			assert.False(t, seen[p], "%s/%s shares a preamble with another pair", spec, mode)
			seen[p] = true
		}
	}
}

func TestPreambleUnknownPairFallsBack(t *testing.T) {
	r := NewRegistry()

	fallback := r.Preamble(SpecialistReflection, ModeExploratory)
	assert.Equal(t, fallback, r.Preamble(SpecialistType("astrologer"), ModeDecision))
	assert.Equal(t, fallback, r.Preamble(SpecialistStrategy, BehavioralMode("panic")))
}

func TestBuildSystemPromptIncludesContextVerbatim(t *testing.T) {
	r := NewRegistry()
	ctx := &UserContext{
		UserID:         "u-1",
		CurrentProject: "Q4 launch readiness",
		RecentTopics:   []string{"pricing page copy", "beta feedback triage"},
		BaseMemory:     "Prefers bullet points. Works European hours.",
		SpecialistMemory: map[SpecialistType]string{
			SpecialistStrategy: "Last session settled on a freemium model.",
		},
	}

	prompt := r.BuildSystemPrompt(SpecialistStrategy, ModeDecision, ctx)

	assert.Contains(t, prompt, r.Preamble(SpecialistStrategy, ModeDecision))
	assert.Contains(t, prompt, "## Current Project\nQ4 launch readiness")
	assert.Contains(t, prompt, "- pricing page copy")
	assert.Contains(t, prompt, "- beta feedback triage")
	assert.Contains(t, prompt, "Prefers bullet points. Works European hours.")
	assert.Contains(t, prompt, "Last session settled on a freemium model.")
}

func TestBuildSystemPromptSkipsOtherSpecialistsMemory(t *testing.T) {
	r := NewRegistry()
	ctx := &UserContext{
		SpecialistMemory: map[SpecialistType]string{
			SpecialistCreative: "Loves alliteration.",
		},
	}

	prompt := r.BuildSystemPrompt(SpecialistTechnical, ModeAction, ctx)
	assert.NotContains(t, prompt, "Loves alliteration.")
}

func TestBuildSystemPromptEmptyContext(t *testing.T) {
	r := NewRegistry()

	for _, ctx := range []*UserContext{nil, {}} {
		prompt := r.BuildSystemPrompt(SpecialistSystems, ModeOrganizing, ctx)
		require.NotEmpty(t, prompt)
		assert.False(t, strings.Contains(prompt, "##"),
			"empty context must not produce section headers")
	}
}
