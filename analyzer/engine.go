// Package analyzer drives a single traversal of each classified function,
// dispatching every visited node to the rule registry and collecting
// violations. The pass is pure and synchronous; independent units can be
// analyzed in parallel by the host.
package analyzer

import (
	"context"
	"go/ast"
	"sort"

	"github.com/viant/replaylint/classifier"
	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
	"github.com/viant/replaylint/rules"
)

// Engine evaluates the rule registry against every expression of every
// orchestrator-classified function
type Engine struct {
	config     *config.Config
	registry   []rules.Definition
	classifier *classifier.Classifier
}

// Option customizes an Engine
type Option func(*Engine)

// WithRegistry replaces the builtin rule registry
func WithRegistry(registry ...rules.Definition) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// New creates an Engine; a nil config selects the default profile
func New(cfg *config.Config, options ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	result := &Engine{
		config:     cfg,
		registry:   rules.Builtin(),
		classifier: classifier.New(cfg),
	}
	for _, option := range options {
		option(result)
	}
	return result
}

// Registry returns the engine's rule definitions in registry order
func (e *Engine) Registry() []rules.Definition {
	return e.registry
}

// Run classifies the unit and matches all rules, returning the canonically
// ordered, deduplicated violations. Cancellation is checked between function
// declarations so a host can abandon a stale pass cheaply.
func (e *Engine) Run(ctx context.Context, unit *inspector.Unit) ([]determinism.Violation, error) {
	classifications := e.classifier.Classify(unit)
	return e.RunClassified(ctx, unit, classifications)
}

// RunClassified matches all rules against a unit using precomputed
// classifications. Violations only ever originate inside functions whose
// classification is Orchestrator.
func (e *Engine) RunClassified(ctx context.Context, unit *inspector.Unit, classifications map[determinism.FunctionID]determinism.ContextClassification) ([]determinism.Violation, error) {
	index := newUnitIndex(unit)
	pass := newPass(unit, e.config, index)

	var violations []determinism.Violation
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Body == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			id := unit.FunctionID(funcDecl)
			classification := classifications[id]
			if !classification.IsOrchestrator() {
				continue
			}
			violations = append(violations, e.matchFunction(unit, pass, funcDecl, id, classification)...)
		}
	}
	return canonicalize(violations), nil
}

func (e *Engine) matchFunction(unit *inspector.Unit, pass *pass, decl *ast.FuncDecl, id determinism.FunctionID, classification determinism.ContextClassification) []determinism.Violation {
	var result []determinism.Violation
	ast.Inspect(decl, func(node ast.Node) bool {
		if node == nil {
			return false
		}
		matchCtx := &rules.MatchContext{
			Node:           node,
			Symbol:         symbolOf(unit, node),
			Function:       decl,
			Classification: classification,
			Unit:           unit,
			Config:         e.config,
			Pass:           pass,
		}
		for index := range e.registry {
			rule := &e.registry[index]
			if !rule.Matches(matchCtx) {
				continue
			}
			if rule.Exempt != nil && rule.Exempt(matchCtx) {
				continue
			}
			display := rules.DisplayName(matchCtx.Symbol)
			if rule.Display != nil {
				display = rule.Display(matchCtx)
			}
			location := unit.Location(node)
			result = append(result, determinism.Violation{
				RuleID:      rule.ID,
				Location:    location,
				Message:     rule.Format(display),
				Function:    id,
				Symbol:      display,
				Fixable:     rule.Fixable,
				Fingerprint: Fingerprint(rule.ID, location),
			})
		}
		return true
	})
	return result
}

func symbolOf(unit *inspector.Unit, node ast.Node) string {
	expr, ok := node.(ast.Expr)
	if !ok {
		return ""
	}
	return unit.SymbolOf(expr)
}

// canonicalize stabilizes violation order by file span then rule id and drops
// fingerprint duplicates
func canonicalize(violations []determinism.Violation) []determinism.Violation {
	sort.Slice(violations, func(i, j int) bool {
		left, right := &violations[i], &violations[j]
		if left.Location.FilePath != right.Location.FilePath {
			return left.Location.FilePath < right.Location.FilePath
		}
		if left.Location.Offset != right.Location.Offset {
			return left.Location.Offset < right.Location.Offset
		}
		if left.Location.EndOffset != right.Location.EndOffset {
			return left.Location.EndOffset < right.Location.EndOffset
		}
		return left.RuleID < right.RuleID
	})
	seen := make(map[uint64]bool)
	result := violations[:0]
	for _, violation := range violations {
		if seen[violation.Fingerprint] {
			continue
		}
		seen[violation.Fingerprint] = true
		result = append(result, violation)
	}
	return result
}
