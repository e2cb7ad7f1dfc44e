package determinism

// Severity is the host-facing severity of a diagnostic. The engine always
// computes violations regardless of severity; filtering is a host concern.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
	SeverityNone       Severity = "none"
)

// Valid reports whether s is one of the known severity levels
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeveritySuggestion, SeverityNone:
		return true
	}
	return false
}
