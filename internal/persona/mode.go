package persona

// BehavioralMode is the working style selected once per incoming request.
// It drives both the specialist preamble and the generation parameters.
type BehavioralMode string

const (
	// ModeExploratory is open-ended thinking: surface options, ask questions.
	ModeExploratory BehavioralMode = "exploratory"
	// ModeOrganizing is structuring: lists, groupings, schedules.
	ModeOrganizing BehavioralMode = "organizing"
	// ModeDecision is tradeoff evaluation leading to a recommendation.
	ModeDecision BehavioralMode = "decision"
	// ModeAction is concrete output: drafts, steps, artifacts.
	ModeAction BehavioralMode = "action"
)

// DefaultMode is the mode used when classification cannot produce a better
// answer. Exploratory is the safest default: it never commits the user to
// structure they did not ask for.
const DefaultMode = ModeExploratory

// AllModes returns every behavioral mode, in a stable order.
func AllModes() []BehavioralMode {
	return []BehavioralMode{
		ModeExploratory,
		ModeOrganizing,
		ModeDecision,
		ModeAction,
	}
}

// String returns the string representation of a BehavioralMode.
func (m BehavioralMode) String() string {
	return string(m)
}

// IsValid checks whether m is a known mode.
func (m BehavioralMode) IsValid() bool {
	switch m {
	case ModeExploratory, ModeOrganizing, ModeDecision, ModeAction:
		return true
	}
	return false
}
