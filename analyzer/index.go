package analyzer

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/viant/replaylint/inspector"
)

// unitIndex holds unit-scoped lookups computed once per analysis pass:
// assignment targets, selector children and the mutation/initializer record
// of package-level variables. It is discarded with the pass, keeping
// independent units free of shared state.
type unitIndex struct {
	writeTargets     map[ast.Node]bool
	selectorChildren map[*ast.Ident]bool
	mutatedVars      map[types.Object]bool
	varInits         map[types.Object]ast.Expr
}

func newUnitIndex(unit *inspector.Unit) *unitIndex {
	index := &unitIndex{
		writeTargets:     make(map[ast.Node]bool),
		selectorChildren: make(map[*ast.Ident]bool),
		mutatedVars:      make(map[types.Object]bool),
		varInits:         make(map[types.Object]ast.Expr),
	}
	for _, file := range unit.Files {
		index.collectVarInits(unit, file)
		ast.Inspect(file, func(node ast.Node) bool {
			switch actual := node.(type) {
			case *ast.SelectorExpr:
				index.selectorChildren[actual.Sel] = true
			case *ast.AssignStmt:
				for _, lhs := range actual.Lhs {
					index.markWrite(unit, lhs)
				}
			case *ast.IncDecStmt:
				index.markWrite(unit, actual.X)
			case *ast.UnaryExpr:
				// address taken: the value can escape and be mutated
				if actual.Op == token.AND {
					index.markWrite(unit, actual.X)
				}
			case *ast.RangeStmt:
				if actual.Tok == token.ASSIGN {
					index.markWrite(unit, actual.Key)
					index.markWrite(unit, actual.Value)
				}
			case *ast.CallExpr:
				if ident, ok := actual.Fun.(*ast.Ident); ok && ident.Name == "delete" && len(actual.Args) > 0 {
					if _, builtin := unit.ObjectOf(ident).(*types.Builtin); builtin {
						index.markWrite(unit, actual.Args[0])
					}
				}
			}
			return true
		})
	}
	return index
}

func (i *unitIndex) collectVarInits(unit *inspector.Unit, file *ast.File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || len(valueSpec.Values) != len(valueSpec.Names) {
				continue
			}
			for index, name := range valueSpec.Names {
				if object := unit.Info.Defs[name]; object != nil {
					i.varInits[object] = valueSpec.Values[index]
				}
			}
		}
	}
}

func (i *unitIndex) markWrite(unit *inspector.Unit, expr ast.Expr) {
	if expr == nil {
		return
	}
	i.writeTargets[expr] = true
	root := rootIdent(expr)
	if root == nil {
		return
	}
	i.writeTargets[root] = true
	if object := unit.ObjectOf(root); object != nil {
		if _, ok := object.(*types.Var); ok && unit.IsPackageLevel(object) {
			i.mutatedVars[object] = true
		}
	}
}

func rootIdent(expr ast.Expr) *ast.Ident {
	for {
		switch actual := expr.(type) {
		case *ast.ParenExpr:
			expr = actual.X
		case *ast.SelectorExpr:
			expr = actual.X
		case *ast.IndexExpr:
			expr = actual.X
		case *ast.StarExpr:
			expr = actual.X
		case *ast.Ident:
			return actual
		default:
			return nil
		}
	}
}
