// Package rules defines the registry of forbidden-operation rules the
// matching engine evaluates inside orchestrator-classified functions. Each
// rule is a plain data record - matcher, optional exemption predicate,
// message template, fixability flag - held in a flat ordered collection.
package rules

import (
	"fmt"
	"go/ast"
	"go/types"

	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
)

// Pass exposes the per-pass services the engine computes for rule predicates:
// provenance judgments and unit-level indexes. All results are scoped to one
// analysis pass.
type Pass interface {
	// Judge returns the memoized provenance of an expression
	Judge(expr ast.Expr) determinism.ExpressionProvenance
	// DurableSafeTask reports whether an expression is a direct call to a
	// durable-safe task API
	DurableSafeTask(expr ast.Expr) bool
	// IsWriteTarget reports whether the expression appears as an assignment
	// target in the analyzed unit
	IsWriteTarget(expr ast.Expr) bool
	// IsReadonlyVar reports whether a package-level variable is effectively
	// readonly: deterministic initializer, never reassigned in the unit
	IsReadonlyVar(object types.Object) bool
	// IsSelectorChild reports whether the identifier is the Sel of a selector
	// expression, already covered when the selector itself is dispatched
	IsSelectorChild(ident *ast.Ident) bool
}

// MatchContext carries one dispatched node and its resolution context
type MatchContext struct {
	Node           ast.Node
	Symbol         string // canonical fully-qualified symbol, "" if unresolved
	Function       *ast.FuncDecl
	Classification determinism.ContextClassification
	Unit           *inspector.Unit
	Config         *config.Config
	Pass           Pass
}

// Definition is one forbidden-operation rule. Definitions are immutable and
// constructed once at engine start.
type Definition struct {
	ID              string
	Title           string
	Category        string
	DefaultSeverity determinism.Severity
	Fixable         bool
	// Message is a fixed template; the single %s is the violating symbol's
	// display name
	Message string
	Matches func(ctx *MatchContext) bool
	// Exempt suppresses a match; nil means no exemption
	Exempt func(ctx *MatchContext) bool
	// Display overrides the default symbol display name; nil uses the
	// shortened symbol
	Display func(ctx *MatchContext) string
}

// Format renders the rule message for the given display name
func (d *Definition) Format(display string) string {
	return fmt.Sprintf(d.Message, display)
}

// Find returns the definition with the given id, or nil
func Find(registry []Definition, id string) *Definition {
	for i := range registry {
		if registry[i].ID == id {
			return &registry[i]
		}
	}
	return nil
}
