package inspector

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/viant/replaylint/determinism"
)

// Unit is one analyzed compilation unit: the parsed files of a single package
// together with resolved type information. Units are read-only to the engine
// and independent of each other, so a host may analyze them in parallel.
type Unit struct {
	Path       string
	Module     string
	Package    *types.Package
	Info       *types.Info
	Files      []*ast.File
	FileSet    *token.FileSet
	TypeErrors []error
}

// PackagePath returns the unit's package import path
func (u *Unit) PackagePath() string {
	if u.Package == nil {
		return ""
	}
	return u.Package.Path()
}

// Location converts a node's position to a CodeLocation
func (u *Unit) Location(node ast.Node) determinism.CodeLocation {
	start := u.FileSet.Position(node.Pos())
	end := u.FileSet.Position(node.End())
	return determinism.CodeLocation{
		FilePath:    start.Filename,
		Line:        start.Line,
		Column:      start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
		Offset:      start.Offset,
		EndOffset:   end.Offset,
		ModulePath:  u.Module,
		PackagePath: u.PackagePath(),
	}
}

// FunctionID builds the stable reference for a function declaration
func (u *Unit) FunctionID(decl *ast.FuncDecl) determinism.FunctionID {
	return determinism.MakeFunctionID(u.PackagePath(), ReceiverBaseName(decl), decl.Name.Name)
}

// SymbolOf resolves an expression to its canonical fully-qualified symbol:
// "pkgpath.Name" for package-level objects, "pkgpath.Type.Method" for methods
// and fields (pointer receivers stripped), the bare name for builtins. An
// unresolvable expression yields "".
func (u *Unit) SymbolOf(expr ast.Expr) string {
	switch actual := expr.(type) {
	case *ast.CallExpr:
		return u.SymbolOf(actual.Fun)
	case *ast.ParenExpr:
		return u.SymbolOf(actual.X)
	case *ast.IndexExpr:
		// generic instantiation
		return u.SymbolOf(actual.X)
	case *ast.IndexListExpr:
		return u.SymbolOf(actual.X)
	case *ast.SelectorExpr:
		if selection, ok := u.Info.Selections[actual]; ok {
			recv := TypeName(selection.Recv())
			if recv == "" {
				return objectSymbol(selection.Obj())
			}
			return recv + "." + selection.Obj().Name()
		}
		return objectSymbol(u.Info.Uses[actual.Sel])
	case *ast.Ident:
		if object := u.Info.Uses[actual]; object != nil {
			return objectSymbol(object)
		}
		return objectSymbol(u.Info.Defs[actual])
	}
	return ""
}

// TypeOf returns the resolved type of an expression, or nil
func (u *Unit) TypeOf(expr ast.Expr) types.Type {
	if tv, ok := u.Info.Types[expr]; ok {
		return tv.Type
	}
	return nil
}

// TypeNameOf resolves the declared type of an expression to its
// fully-qualified name, dereferencing pointers
func (u *Unit) TypeNameOf(expr ast.Expr) string {
	return TypeName(u.TypeOf(expr))
}

// ObjectOf resolves an identifier or selector to its object, or nil
func (u *Unit) ObjectOf(expr ast.Expr) types.Object {
	switch actual := expr.(type) {
	case *ast.Ident:
		if object := u.Info.Uses[actual]; object != nil {
			return object
		}
		return u.Info.Defs[actual]
	case *ast.SelectorExpr:
		if selection, ok := u.Info.Selections[actual]; ok {
			return selection.Obj()
		}
		return u.Info.Uses[actual.Sel]
	case *ast.ParenExpr:
		return u.ObjectOf(actual.X)
	}
	return nil
}

// IsPackageLevel reports whether the object is declared at package scope
func (u *Unit) IsPackageLevel(object types.Object) bool {
	return object != nil && object.Pkg() != nil && object.Parent() == object.Pkg().Scope()
}

// TypeName returns the fully-qualified name of a (possibly pointer) named
// type, or "" for unnamed types
func TypeName(t types.Type) string {
	if t == nil {
		return ""
	}
	for {
		pointer, ok := t.(*types.Pointer)
		if !ok {
			break
		}
		t = pointer.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return ""
	}
	object := named.Obj()
	if object.Pkg() == nil {
		return object.Name()
	}
	return object.Pkg().Path() + "." + object.Name()
}

// ReceiverBaseName extracts the receiver base type name of a declaration,
// or "" for plain functions
func ReceiverBaseName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	return baseTypeName(decl.Recv.List[0].Type)
}

func baseTypeName(expr ast.Expr) string {
	switch actual := expr.(type) {
	case *ast.Ident:
		return actual.Name
	case *ast.StarExpr:
		return baseTypeName(actual.X)
	case *ast.IndexExpr:
		return baseTypeName(actual.X)
	case *ast.IndexListExpr:
		return baseTypeName(actual.X)
	case *ast.ParenExpr:
		return baseTypeName(actual.X)
	}
	return ""
}

func objectSymbol(object types.Object) string {
	if object == nil {
		return ""
	}
	if _, ok := object.(*types.PkgName); ok {
		return ""
	}
	if fn, ok := object.(*types.Func); ok {
		return canonicalFuncName(fn.FullName())
	}
	if object.Pkg() == nil {
		return object.Name()
	}
	return object.Pkg().Path() + "." + object.Name()
}

// canonicalFuncName normalizes go/types full names such as
// "(*sync.WaitGroup).Wait" to "sync.WaitGroup.Wait"
func canonicalFuncName(name string) string {
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")
	return name
}
