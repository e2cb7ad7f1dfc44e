package rules

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
)

// Builtin returns the ordered registry of determinism rules DET-0001 through
// DET-0010. Rule ids are stable and never reused or renumbered.
func Builtin() []Definition {
	return []Definition{
		{
			ID:              "DET-0001",
			Title:           "Non-deterministic wall-clock access",
			Category:        "time",
			DefaultSeverity: determinism.SeverityWarning,
			Fixable:         true,
			Message:         "'%s' reads ambient wall-clock time; use the orchestration context logical time accessor instead",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				return ok && wallClockCalls.Contains(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0002",
			Title:           "Non-deterministically seeded randomness",
			Category:        "randomness",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' produces replay-unstable random values; seed it from a deterministic expression or move it to an activity",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				return ok && (seededRandomCalls.Contains(ctx.Symbol) || ambientRandomCalls.Contains(ctx.Symbol))
			},
			Exempt: func(ctx *MatchContext) bool {
				if !seededRandomCalls.Contains(ctx.Symbol) {
					return false
				}
				call := ctx.Node.(*ast.CallExpr)
				if len(call.Args) == 0 {
					return false
				}
				for _, arg := range call.Args {
					if !ctx.Pass.Judge(arg).Deterministic {
						return false
					}
				}
				return true
			},
		},
		{
			ID:              "DET-0003",
			Title:           "Non-deterministic unique identifier generation",
			Category:        "identifiers",
			DefaultSeverity: determinism.SeverityWarning,
			Fixable:         true,
			Message:         "'%s' generates a non-deterministic unique identifier; use the orchestration context id generator instead",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				return ok && uuidCalls.Contains(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0004",
			Title:           "Direct external I/O",
			Category:        "io",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' performs direct external I/O inside an orchestrator; move it to an activity or use the durable HTTP primitive",
			Matches: func(ctx *MatchContext) bool {
				switch node := ctx.Node.(type) {
				case *ast.CallExpr:
					return ioCalls.Contains(ctx.Symbol)
				case *ast.SelectorExpr:
					return ambientClientReads.Contains(ctx.Symbol)
				case *ast.Ident:
					return !ctx.Pass.IsSelectorChild(node) && ambientClientReads.Contains(ctx.Symbol)
				}
				return false
			},
		},
		{
			ID:              "DET-0005",
			Title:           "Environment and host-state access",
			Category:        "environment",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' accesses environment or host state, which is not replay-stable inside an orchestrator",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				return ok && environmentCalls.Contains(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0006",
			Title:           "Mutable shared state",
			Category:        "state",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' touches mutable shared state; orchestrators may only read constants and immutable data",
			Matches:         matchSharedState,
			Exempt:          exemptSharedState,
			Display:         displaySharedState,
		},
		{
			ID:              "DET-0007",
			Title:           "Thread-blocking primitive",
			Category:        "blocking",
			DefaultSeverity: determinism.SeverityWarning,
			Fixable:         true,
			Message:         "'%s' blocks the orchestrator; use a durable timer instead",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				return ok && blockingCalls.Contains(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0008",
			Title:           "Non-durable asynchronous operation",
			Category:        "async",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' schedules non-durable asynchronous work inside an orchestrator",
			Matches: func(ctx *MatchContext) bool {
				_, ok := ctx.Node.(*ast.CallExpr)
				if !ok {
					return false
				}
				return ambientAsyncCalls.Contains(ctx.Symbol) || ctx.Config.IsTaskCombinator(ctx.Symbol)
			},
			Exempt: func(ctx *MatchContext) bool {
				if !ctx.Config.IsTaskCombinator(ctx.Symbol) {
					return false
				}
				call := ctx.Node.(*ast.CallExpr)
				operands := combinatorOperands(call)
				if len(operands) == 0 {
					return true
				}
				for _, operand := range operands {
					if !ctx.Pass.DurableSafeTask(operand) {
						return false
					}
				}
				return true
			},
			Display: func(ctx *MatchContext) string {
				call, ok := ctx.Node.(*ast.CallExpr)
				if ok && ctx.Config.IsTaskCombinator(ctx.Symbol) {
					for _, operand := range combinatorOperands(call) {
						if !ctx.Pass.DurableSafeTask(operand) {
							if symbol := ctx.Unit.SymbolOf(operand); symbol != "" {
								return DisplayName(symbol)
							}
						}
					}
				}
				return DisplayName(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0009",
			Title:           "Low-level concurrency primitive",
			Category:        "concurrency",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "'%s' uses a low-level concurrency primitive, which breaks deterministic replay",
			Matches: func(ctx *MatchContext) bool {
				switch ctx.Node.(type) {
				case *ast.GoStmt:
					return true
				case *ast.CallExpr:
					return concurrencyCalls.Contains(ctx.Symbol)
				}
				return false
			},
			Display: func(ctx *MatchContext) string {
				if _, ok := ctx.Node.(*ast.GoStmt); ok {
					return "go"
				}
				return DisplayName(ctx.Symbol)
			},
		},
		{
			ID:              "DET-0010",
			Title:           "Non-orchestration binding parameter",
			Category:        "bindings",
			DefaultSeverity: determinism.SeverityWarning,
			Message:         "parameter '%s' binds a non-orchestration trigger; only the orchestration context and logging parameters are allowed",
			Matches: func(ctx *MatchContext) bool {
				field, ok := ctx.Node.(*ast.Field)
				if !ok || !isParameter(ctx.Function, field) {
					return false
				}
				typeName := ctx.Unit.TypeNameOf(field.Type)
				return typeName != "" && ctx.Config.IsBindingParameterType(typeName)
			},
			Exempt: func(ctx *MatchContext) bool {
				field := ctx.Node.(*ast.Field)
				return ctx.Config.IsLoggerParameterType(ctx.Unit.TypeNameOf(field.Type))
			},
			Display: func(ctx *MatchContext) string {
				field := ctx.Node.(*ast.Field)
				if len(field.Names) > 0 {
					return field.Names[0].Name
				}
				return DisplayName(ctx.Unit.TypeNameOf(field.Type))
			},
		},
	}
}

// DisplayName shortens a canonical symbol to its package-local form,
// e.g. "github.com/google/uuid.NewString" to "uuid.NewString"
func DisplayName(symbol string) string {
	if index := strings.LastIndex(symbol, "/"); index >= 0 {
		return symbol[index+1:]
	}
	return symbol
}

// combinatorOperands flattens a combinator call's task operands, looking
// through a single slice-literal argument
func combinatorOperands(call *ast.CallExpr) []ast.Expr {
	if len(call.Args) == 1 {
		if composite, ok := call.Args[0].(*ast.CompositeLit); ok {
			return composite.Elts
		}
	}
	return call.Args
}

func isParameter(fn *ast.FuncDecl, field *ast.Field) bool {
	if fn == nil || fn.Type.Params == nil {
		return false
	}
	for _, candidate := range fn.Type.Params.List {
		if candidate == field {
			return true
		}
	}
	return false
}

func matchSharedState(ctx *MatchContext) bool {
	switch node := ctx.Node.(type) {
	case *ast.AssignStmt:
		for _, lhs := range node.Lhs {
			if _, ok := sharedVarOf(ctx, lhs); ok {
				return true
			}
		}
	case *ast.IncDecStmt:
		_, ok := sharedVarOf(ctx, node.X)
		return ok
	case *ast.UnaryExpr:
		// taking the address of shared state exposes it to mutation
		if node.Op == token.AND {
			_, ok := sharedVarOf(ctx, node.X)
			return ok
		}
	case *ast.CallExpr:
		if ident, ok := node.Fun.(*ast.Ident); ok && ident.Name == "delete" && len(node.Args) > 0 {
			if _, builtin := ctx.Unit.ObjectOf(ident).(*types.Builtin); builtin {
				_, shared := sharedVarOf(ctx, node.Args[0])
				return shared
			}
		}
	case *ast.SelectorExpr:
		return sharedVarRead(ctx, node)
	case *ast.Ident:
		if ctx.Pass.IsSelectorChild(node) {
			return false
		}
		return sharedVarRead(ctx, node)
	}
	return false
}

func exemptSharedState(ctx *MatchContext) bool {
	switch node := ctx.Node.(type) {
	case *ast.SelectorExpr, *ast.Ident:
		object := ctx.Unit.ObjectOf(node.(ast.Expr))
		if object == nil {
			return false
		}
		if ctx.Pass.IsReadonlyVar(object) {
			return true
		}
		return ctx.Config.IsImmutableCollectionType(inspector.TypeName(object.Type()))
	}
	return false
}

func displaySharedState(ctx *MatchContext) string {
	switch node := ctx.Node.(type) {
	case *ast.AssignStmt:
		for _, lhs := range node.Lhs {
			if variable, ok := sharedVarOf(ctx, lhs); ok {
				return DisplayName(objectName(variable))
			}
		}
	case *ast.IncDecStmt:
		if variable, ok := sharedVarOf(ctx, node.X); ok {
			return DisplayName(objectName(variable))
		}
	case *ast.UnaryExpr:
		if variable, ok := sharedVarOf(ctx, node.X); ok {
			return DisplayName(objectName(variable))
		}
	case *ast.CallExpr:
		if len(node.Args) > 0 {
			if variable, ok := sharedVarOf(ctx, node.Args[0]); ok {
				return DisplayName(objectName(variable))
			}
		}
	}
	return DisplayName(ctx.Symbol)
}

// sharedVarOf resolves an lvalue-like expression to a package-level
// variable. Qualified references such as state.Counter resolve through the
// selector itself (the base identifier is only a package name); everything
// else unwraps down to the root identifier.
func sharedVarOf(ctx *MatchContext, expr ast.Expr) (types.Object, bool) {
	for {
		switch actual := expr.(type) {
		case *ast.ParenExpr:
			expr = actual.X
		case *ast.IndexExpr:
			expr = actual.X
		case *ast.StarExpr:
			expr = actual.X
		case *ast.SelectorExpr:
			if variable, ok := packageLevelVar(ctx, actual); ok {
				return variable, true
			}
			expr = actual.X
		case *ast.Ident:
			return packageLevelVar(ctx, actual)
		default:
			return nil, false
		}
	}
}

func packageLevelVar(ctx *MatchContext, expr ast.Expr) (types.Object, bool) {
	variable, ok := ctx.Unit.ObjectOf(expr).(*types.Var)
	if !ok || !ctx.Unit.IsPackageLevel(variable) {
		return nil, false
	}
	return variable, true
}

// sharedVarRead matches reads of the analyzed package's own mutable
// package-level variables. Variables of other packages cannot be judged
// readonly from a single unit, so their reads are conservatively skipped
// (ambient client variables have their own I/O rule); writes still match
// through sharedVarOf.
func sharedVarRead(ctx *MatchContext, expr ast.Expr) bool {
	if ctx.Pass.IsWriteTarget(expr) {
		return false
	}
	object := ctx.Unit.ObjectOf(expr)
	variable, ok := object.(*types.Var)
	if !ok || !ctx.Unit.IsPackageLevel(variable) {
		return false
	}
	return variable.Pkg() == ctx.Unit.Package
}

func objectName(object types.Object) string {
	if object.Pkg() == nil {
		return object.Name()
	}
	return object.Pkg().Path() + "." + object.Name()
}
