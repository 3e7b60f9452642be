// Package persona provides the specialist registry, behavioral modes, and
// system-prompt construction for the Sidekick agent core.
package persona

// SpecialistType identifies a named persona. Each specialist owns a
// prompt preamble per behavioral mode.
type SpecialistType string

const (
	// SpecialistReflection handles introspective and journaling-style requests.
	SpecialistReflection SpecialistType = "reflection"
	// SpecialistStrategy handles planning, prioritization, and business thinking.
	SpecialistStrategy SpecialistType = "strategy"
	// SpecialistSystems handles workflows, automation, and process design.
	SpecialistSystems SpecialistType = "systems"
	// SpecialistTechnical handles code, tooling, and implementation questions.
	SpecialistTechnical SpecialistType = "technical"
	// SpecialistCreative handles writing, naming, and ideation.
	SpecialistCreative SpecialistType = "creative"
	// SpecialistOrchestrator is internal-only: it backs classification and
	// other auxiliary calls and is never surfaced to users.
	SpecialistOrchestrator SpecialistType = "orchestrator"
)

// UserFacingSpecialists returns the specialists a request may resolve to.
// The orchestrator type is excluded; it exists only for internal calls.
func UserFacingSpecialists() []SpecialistType {
	return []SpecialistType{
		SpecialistReflection,
		SpecialistStrategy,
		SpecialistSystems,
		SpecialistTechnical,
		SpecialistCreative,
	}
}

// String returns the string representation of a SpecialistType.
func (s SpecialistType) String() string {
	return string(s)
}

// IsValid checks whether s is a known specialist, including the internal
// orchestrator type.
func (s SpecialistType) IsValid() bool {
	if s == SpecialistOrchestrator {
		return true
	}
	for _, valid := range UserFacingSpecialists() {
		if s == valid {
			return true
		}
	}
	return false
}
