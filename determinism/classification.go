package determinism

// ContextKind labels a function with respect to replay-determinism constraints
type ContextKind string

const (
	// Orchestrator marks a function subject to determinism constraints
	Orchestrator ContextKind = "ORCHESTRATOR"
	// Activity marks a function explicitly exempt from determinism constraints
	Activity ContextKind = "ACTIVITY"
	// Unclassified marks a function with no classification evidence
	Unclassified ContextKind = "UNCLASSIFIED"
)

// ContextClassification is the cached classification verdict for one function
type ContextClassification struct {
	Kind     ContextKind `yaml:"kind"`
	Evidence string      `yaml:"evidence,omitempty"` // human-readable classification reason
}

// IsOrchestrator reports whether the function is subject to determinism rules
func (c ContextClassification) IsOrchestrator() bool {
	return c.Kind == Orchestrator
}

// FunctionID is a unique reference to a function within an analyzed unit,
// e.g. "example:Workflow.Run" or "example:Process"
type FunctionID string

// MakeFunctionID creates a function reference from package path, optional
// receiver base type and function name
func MakeFunctionID(pkgPath, receiver, name string) FunctionID {
	if receiver == "" {
		return FunctionID(pkgPath + ":" + name)
	}
	return FunctionID(pkgPath + ":" + receiver + "." + name)
}
