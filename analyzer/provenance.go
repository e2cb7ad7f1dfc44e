package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
	"github.com/viant/replaylint/rules"
)

// pass implements rules.Pass: memoized provenance judgments plus the
// unit-scoped indexes. Judgments are pure functions of expression shape and
// resolved symbols; the cache lives and dies with one analysis pass.
type pass struct {
	unit    *inspector.Unit
	config  *config.Config
	index   *unitIndex
	cache   map[ast.Expr]determinism.ExpressionProvenance
	judging map[types.Object]bool
}

func newPass(unit *inspector.Unit, cfg *config.Config, index *unitIndex) *pass {
	return &pass{
		unit:    unit,
		config:  cfg,
		index:   index,
		cache:   make(map[ast.Expr]determinism.ExpressionProvenance),
		judging: make(map[types.Object]bool),
	}
}

// Judge returns the memoized provenance of an expression
func (p *pass) Judge(expr ast.Expr) determinism.ExpressionProvenance {
	if cached, ok := p.cache[expr]; ok {
		return cached
	}
	result := p.judge(expr)
	p.cache[expr] = result
	return result
}

func (p *pass) judge(expr ast.Expr) determinism.ExpressionProvenance {
	switch actual := expr.(type) {
	case *ast.BasicLit:
		return determinism.DeterministicProvenance("literal")
	case *ast.ParenExpr:
		return p.Judge(actual.X)
	case *ast.UnaryExpr:
		if actual.Op == token.AND {
			return determinism.NonDeterministicProvenance("address values are not replay-stable")
		}
		return p.Judge(actual.X)
	case *ast.BinaryExpr:
		if left := p.Judge(actual.X); !left.Deterministic {
			return left
		}
		if right := p.Judge(actual.Y); !right.Deterministic {
			return right
		}
		return determinism.DeterministicProvenance("combination of deterministic operands")
	case *ast.KeyValueExpr:
		return p.Judge(actual.Value)
	case *ast.CompositeLit:
		for _, element := range actual.Elts {
			if judgment := p.Judge(element); !judgment.Deterministic {
				return judgment
			}
		}
		return determinism.DeterministicProvenance("composite of deterministic elements")
	case *ast.CallExpr:
		return p.judgeCall(actual)
	case *ast.Ident, *ast.SelectorExpr:
		return p.judgeReference(expr)
	}
	// Malformed or unexpected shapes fail safe toward flagging.
	return determinism.NonDeterministicProvenance("unsupported expression shape")
}

func (p *pass) judgeCall(call *ast.CallExpr) determinism.ExpressionProvenance {
	// type conversions carry their operand's provenance
	if tv, ok := p.unit.Info.Types[call.Fun]; ok && tv.IsType() && len(call.Args) == 1 {
		return p.Judge(call.Args[0])
	}
	symbol := p.unit.SymbolOf(call)
	if symbol == "" {
		return determinism.NonDeterministicProvenance("unresolved call target")
	}
	if p.config.IsDurableSafeCall(symbol) {
		return determinism.DeterministicProvenance("durable-safe API " + rules.DisplayName(symbol))
	}
	if reason, ok := rules.AmbientReason(symbol); ok {
		return determinism.NonDeterministicProvenance(reason)
	}
	return determinism.NonDeterministicProvenance(fmt.Sprintf("call to %s is not provably replay-stable", rules.DisplayName(symbol)))
}

func (p *pass) judgeReference(expr ast.Expr) determinism.ExpressionProvenance {
	object := p.unit.ObjectOf(expr)
	if object == nil {
		return determinism.NonDeterministicProvenance("unresolved symbol")
	}
	switch actual := object.(type) {
	case *types.Const:
		return determinism.DeterministicProvenance("constant " + actual.Name())
	case *types.Func:
		return determinism.DeterministicProvenance("function reference")
	case *types.Var:
		if !p.unit.IsPackageLevel(actual) {
			return determinism.NonDeterministicProvenance(
				fmt.Sprintf("variable %s is not provably replay-stable", actual.Name()))
		}
		if p.IsReadonlyVar(actual) {
			return determinism.DeterministicProvenance("readonly variable " + actual.Name())
		}
		return determinism.NonDeterministicProvenance("mutable shared variable " + actual.Name())
	}
	return determinism.NonDeterministicProvenance("unsupported reference")
}

// DurableSafeTask reports whether the expression is a direct call to a
// durable-safe task API (activity invocation, durable timer,
// sub-orchestration, durable HTTP, completed-task wrapper)
func (p *pass) DurableSafeTask(expr ast.Expr) bool {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return false
	}
	return p.config.IsDurableSafeCall(p.unit.SymbolOf(call))
}

// IsWriteTarget reports whether the expression appears as an assignment
// target in the unit
func (p *pass) IsWriteTarget(expr ast.Expr) bool {
	return p.index.writeTargets[expr]
}

// IsSelectorChild reports whether the identifier is the Sel of a selector
func (p *pass) IsSelectorChild(ident *ast.Ident) bool {
	return p.index.selectorChildren[ident]
}

// IsReadonlyVar reports whether a package-level variable of the analyzed
// package is effectively readonly: never reassigned in the unit and
// initialized from a deterministic expression. Variables of other packages
// are never judged readonly - their definitions are outside the unit.
func (p *pass) IsReadonlyVar(object types.Object) bool {
	variable, ok := object.(*types.Var)
	if !ok || variable.Pkg() == nil || variable.Pkg() != p.unit.Package {
		return false
	}
	if !p.unit.IsPackageLevel(variable) || p.index.mutatedVars[variable] {
		return false
	}
	init, ok := p.index.varInits[variable]
	if !ok {
		return false
	}
	if p.judging[variable] {
		// initializer cycle, fail safe
		return false
	}
	p.judging[variable] = true
	defer delete(p.judging, variable)
	return p.Judge(init).Deterministic
}
