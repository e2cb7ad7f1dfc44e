// Package report is the engine's output boundary: it converts violations to
// host-facing diagnostics, applying severity overrides and disabled-rule
// filtering, and renders a deterministic text listing for batch hosts.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/rules"
)

// Reporter converts violations into diagnostics
type Reporter struct {
	config *config.Config
}

// New creates a Reporter; a nil config selects the default profile
func New(cfg *config.Config) *Reporter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Reporter{config: cfg}
}

// Diagnostics maps violations to diagnostic records. Severity never affects
// which violations the engine computed; rules disabled or set to "none" are
// filtered here, on the host side of the boundary.
func (r *Reporter) Diagnostics(registry []rules.Definition, violations []determinism.Violation) []determinism.Diagnostic {
	var result []determinism.Diagnostic
	for _, violation := range violations {
		if r.config.IsDisabled(violation.RuleID) {
			continue
		}
		severity := determinism.SeverityWarning
		if rule := rules.Find(registry, violation.RuleID); rule != nil {
			severity = rule.DefaultSeverity
		}
		severity = r.config.SeverityOf(violation.RuleID, severity)
		if severity == determinism.SeverityNone {
			continue
		}
		result = append(result, determinism.Diagnostic{
			RuleID:   violation.RuleID,
			Severity: severity,
			Message:  violation.Message,
			Span:     violation.Location,
			Fixable:  violation.Fixable,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		left, right := &result[i], &result[j]
		if left.Span.FilePath != right.Span.FilePath {
			return left.Span.FilePath < right.Span.FilePath
		}
		if left.Span.Offset != right.Span.Offset {
			return left.Span.Offset < right.Span.Offset
		}
		return left.RuleID < right.RuleID
	})
	return result
}

// Render writes one line per diagnostic in canonical order
func (r *Reporter) Render(writer io.Writer, diagnostics []determinism.Diagnostic) error {
	for _, diagnostic := range diagnostics {
		suffix := ""
		if diagnostic.Fixable {
			suffix = " [fixable]"
		}
		_, err := fmt.Fprintf(writer, "%s:%d:%d: %s %s: %s%s\n",
			diagnostic.Span.FilePath, diagnostic.Span.Line, diagnostic.Span.Column,
			diagnostic.Severity, diagnostic.RuleID, diagnostic.Message, suffix)
		if err != nil {
			return err
		}
	}
	return nil
}

// HasErrors reports whether any diagnostic carries error severity
func HasErrors(diagnostics []determinism.Diagnostic) bool {
	for _, diagnostic := range diagnostics {
		if diagnostic.Severity == determinism.SeverityError {
			return true
		}
	}
	return false
}
