package schema

// PatternType enumerates the control-flow archetypes the designer can emit.
type PatternType string

const (
	PatternSequential  PatternType = "sequential"
	PatternReflection  PatternType = "reflection"
	PatternSupervisor  PatternType = "supervisor"
	PatternPlanExecute PatternType = "plan_execute"
)

// DefaultMaxIterations bounds loops in generated graphs unless a caller
// overrides it.
const DefaultMaxIterations = 3

// PatternConfig captures the archetype chosen for one design session. It is
// immutable once the designer hands it to the later pipeline steps.
type PatternConfig struct {
	PatternType   PatternType `json:"pattern_type"`
	MaxIterations int         `json:"max_iterations"`
	Description   string      `json:"description,omitempty"`
}
