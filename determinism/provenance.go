package determinism

// ExpressionProvenance is a judgment about whether an expression's value is
// guaranteed identical across replays
type ExpressionProvenance struct {
	Deterministic bool   `yaml:"deterministic"`
	Reason        string `yaml:"reason,omitempty"`
}

// DeterministicProvenance creates a positive judgment with the given reason
func DeterministicProvenance(reason string) ExpressionProvenance {
	return ExpressionProvenance{Deterministic: true, Reason: reason}
}

// NonDeterministicProvenance creates a negative judgment with the given reason
func NonDeterministicProvenance(reason string) ExpressionProvenance {
	return ExpressionProvenance{Deterministic: false, Reason: reason}
}
