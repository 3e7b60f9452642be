package persona

import (
	"context"
	"regexp"
	"strings"
	"time"
)

const (
	// semanticThreshold is the fast-path confidence below which the
	// semantic classifier is consulted, when one is configured.
	semanticThreshold = 0.7

	// semanticTimeout bounds the LLM classification call so a slow provider
	// cannot stall the whole pipeline.
	semanticTimeout = 5 * time.Second
)

// ClassificationPrompt instructs the orchestrator specialist to pick a mode.
const ClassificationPrompt = `Classify the user's message into exactly ONE working mode.

Modes:
- exploratory: open-ended thinking, venting, wondering, unclear asks
- organizing: sorting, scheduling, grouping, listing, tidying
- decision: choosing between options, weighing tradeoffs, "should I"
- action: producing something concrete: drafts, code, plans, emails

Respond with ONLY the mode name, nothing else.`

// SemanticClassifier is the capability the classifier uses for its slow
// path. It is implemented by an adapter over the LLM router so this package
// stays free of provider concerns.
type SemanticClassifier interface {
	// Complete sends an internal generation call and returns the raw text.
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ModeClassifier maps raw user text to a behavioral mode. A weighted
// keyword pass runs first; ambiguous inputs optionally escalate to a
// semantic pass through the orchestrator specialist. Classification never
// fails: any error degrades to DefaultMode.
type ModeClassifier struct {
	patterns map[BehavioralMode][]modePattern
	semantic SemanticClassifier
}

type modePattern struct {
	regex  *regexp.Regexp
	weight float64
}

// NewModeClassifier creates a classifier with the built-in keyword
// patterns. Pass nil to disable the semantic slow path.
func NewModeClassifier(semantic SemanticClassifier) *ModeClassifier {
	return &ModeClassifier{
		patterns: buildModePatterns(),
		semantic: semantic,
	}
}

// semanticConfidence is reported when the slow path produced the answer.
const semanticConfidence = 0.9

// Classify returns the behavioral mode for a message and a confidence in
// [0,1]. History carries prior user turns, most recent last; they contribute
// at reduced weight so an ongoing organizing session does not flip mode on
// one vague message.
func (c *ModeClassifier) Classify(ctx context.Context, message string, history []string) (BehavioralMode, float64) {
	mode, confidence := c.classifyFast(message, history)
	if confidence >= semanticThreshold || c.semantic == nil {
		return mode, confidence
	}

	semCtx, cancel := context.WithTimeout(ctx, semanticTimeout)
	defer cancel()

	raw, err := c.semantic.Complete(semCtx, ClassificationPrompt, message)
	if err != nil {
		// Semantic failure must not abort the pipeline; the fast result
		// stands, and an all-zero fast result means the default mode.
		return mode, confidence
	}

	parsed := BehavioralMode(strings.ToLower(strings.TrimSpace(raw)))
	if parsed.IsValid() {
		return parsed, semanticConfidence
	}
	return mode, confidence
}

// classifyFast scores the message (and history, at quarter weight) against
// the keyword patterns. Deterministic for a fixed build.
func (c *ModeClassifier) classifyFast(message string, history []string) (BehavioralMode, float64) {
	scores := make(map[BehavioralMode]float64)

	c.scoreText(strings.ToLower(message), 1.0, scores)
	for _, turn := range history {
		c.scoreText(strings.ToLower(turn), 0.25, scores)
	}

	best := DefaultMode
	var bestScore, totalScore float64
	for _, mode := range AllModes() {
		score := scores[mode]
		totalScore += score
		if score > bestScore {
			bestScore = score
			best = mode
		}
	}

	if totalScore == 0 {
		return DefaultMode, 0.4
	}

	confidence := bestScore / totalScore
	if len(scores) == 1 {
		confidence = min(confidence+0.2, 1.0)
	}
	return best, confidence
}

func (c *ModeClassifier) scoreText(text string, weight float64, scores map[BehavioralMode]float64) {
	for mode, patterns := range c.patterns {
		for _, p := range patterns {
			if p.regex.MatchString(text) {
				scores[mode] += p.weight * weight
			}
		}
	}
}

// buildModePatterns compiles the keyword table. Weights favor strong verbs
// ("decide", "write me") over weaker ambient signals.
func buildModePatterns() map[BehavioralMode][]modePattern {
	raw := map[BehavioralMode][]struct {
		pattern string
		weight  float64
	}{
		ModeExploratory: {
			{`\b(wondering|thinking about|not sure|curious|explore|brainstorm)\b`, 1.0},
			{`\b(what if|how might|could i|any ideas)\b`, 0.8},
			{`\b(feel|feeling|stuck|confused|overwhelmed)\b`, 0.6},
		},
		ModeOrganizing: {
			{`\b(organize|organise|sort|group|categorize|tidy|structure)\b`, 1.0},
			{`\b(schedule|calendar|plan my (day|week)|prioritize|to-?do)\b`, 0.9},
			{`\b(list|checklist|agenda|inbox)\b`, 0.6},
		},
		ModeDecision: {
			{`\b(should i|which (one|option)|decide|decision|choose|pick between)\b`, 1.0},
			{`\b(pros and cons|trade-?offs?|worth it|versus|vs\.?)\b`, 0.9},
			{`\b(better|best) (option|choice|approach)\b`, 0.7},
		},
		ModeAction: {
			{`\b(write|draft|create|build|implement|generate|make me)\b`, 1.0},
			{`\b(send|email|reply|post|publish|fix)\b`, 0.8},
			{`\b(code|script|template|outline)\b`, 0.6},
		},
	}

	patterns := make(map[BehavioralMode][]modePattern, len(raw))
	for mode, entries := range raw {
		for _, e := range entries {
			patterns[mode] = append(patterns[mode], modePattern{
				regex:  regexp.MustCompile(e.pattern),
				weight: e.weight,
			})
		}
	}
	return patterns
}
