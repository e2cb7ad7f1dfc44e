// Package fixer proposes textual rewrites for fixable violations. It never
// writes to source files; applying an edit is the caller's responsibility.
package fixer

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"sort"
	"strings"

	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
)

// Synthesize computes a replacement expression for a fixable violation,
// referencing the orchestration context parameter actually in scope. It
// returns nil when the rule has no fix shape or no qualifying context
// parameter is visible; the violation is still reported without a fix.
func Synthesize(unit *inspector.Unit, cfg *config.Config, violation determinism.Violation) *determinism.FixEdit {
	decl := enclosingFunction(unit, violation.Location)
	if decl == nil {
		return nil
	}
	contextName, contextType := contextParameter(unit, cfg, decl)
	if contextName == "" {
		return nil
	}
	call := callAt(unit, decl, violation.Location)
	if call == nil {
		return nil
	}

	var replacement string
	switch violation.RuleID {
	case "DET-0001":
		replacement = rewriteClock(unit, cfg, contextName, contextType, call)
	case "DET-0003":
		replacement = rewriteIdentifier(cfg, contextName, contextType)
	case "DET-0007":
		replacement = rewriteSleep(unit, cfg, contextName, contextType, call)
	}
	if replacement == "" {
		return nil
	}
	return &determinism.FixEdit{
		RuleID:      violation.RuleID,
		Violation:   violation.Fingerprint,
		Span:        violation.Location,
		Replacement: replacement,
	}
}

// Apply splices edits into the source, highest offset first so earlier spans
// stay valid
func Apply(src []byte, edits ...determinism.FixEdit) []byte {
	sorted := make([]determinism.FixEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Offset > sorted[j].Span.Offset
	})
	result := src
	for _, edit := range sorted {
		if edit.Span.Offset < 0 || edit.Span.EndOffset > len(result) || edit.Span.Offset > edit.Span.EndOffset {
			continue
		}
		var buffer bytes.Buffer
		buffer.Write(result[:edit.Span.Offset])
		buffer.WriteString(edit.Replacement)
		buffer.Write(result[edit.Span.EndOffset:])
		result = buffer.Bytes()
	}
	return result
}

// rewriteClock preserves the expression shape: a bare read becomes the
// logical time accessor, an elapsed-time computation becomes an
// accessor-based subtraction
func rewriteClock(unit *inspector.Unit, cfg *config.Config, contextName, contextType string, call *ast.CallExpr) string {
	method := accessorMethod(cfg.LogicalTimeAccessors, contextType)
	if method == "" {
		return ""
	}
	accessor := fmt.Sprintf("%s.%s()", contextName, method)
	switch unit.SymbolOf(call) {
	case "time.Now":
		return accessor
	case "time.Since":
		if len(call.Args) != 1 {
			return ""
		}
		return fmt.Sprintf("%s.Sub(%s)", accessor, printExpr(unit, call.Args[0]))
	case "time.Until":
		if len(call.Args) != 1 {
			return ""
		}
		return fmt.Sprintf("%s.Sub(%s)", printExpr(unit, call.Args[0]), accessor)
	}
	return ""
}

func rewriteIdentifier(cfg *config.Config, contextName, contextType string) string {
	method := accessorMethod(cfg.DeterministicIDAccessors, contextType)
	if method == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s()", contextName, method)
}

func rewriteSleep(unit *inspector.Unit, cfg *config.Config, contextName, contextType string, call *ast.CallExpr) string {
	if unit.SymbolOf(call) != "time.Sleep" || len(call.Args) != 1 {
		return ""
	}
	method := accessorMethod(cfg.DurableTimerAPIs, contextType)
	if method == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s(%s)", contextName, method, printExpr(unit, call.Args[0]))
}

// contextParameter returns the identifier and resolved type name of the
// first parameter whose declared type is a configured orchestration context
// type
func contextParameter(unit *inspector.Unit, cfg *config.Config, decl *ast.FuncDecl) (string, string) {
	if decl.Type.Params == nil {
		return "", ""
	}
	for _, field := range decl.Type.Params.List {
		typeName := unit.TypeNameOf(field.Type)
		if !cfg.IsOrchestrationContextType(typeName) {
			continue
		}
		for _, name := range field.Names {
			if name.Name != "_" {
				return name.Name, typeName
			}
		}
	}
	return "", ""
}

func enclosingFunction(unit *inspector.Unit, location determinism.CodeLocation) *ast.FuncDecl {
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			start := unit.FileSet.Position(funcDecl.Pos())
			end := unit.FileSet.Position(funcDecl.End())
			if start.Filename != location.FilePath {
				continue
			}
			if start.Offset <= location.Offset && location.EndOffset <= end.Offset {
				return funcDecl
			}
		}
	}
	return nil
}

func callAt(unit *inspector.Unit, decl *ast.FuncDecl, location determinism.CodeLocation) *ast.CallExpr {
	var result *ast.CallExpr
	ast.Inspect(decl, func(node ast.Node) bool {
		if result != nil {
			return false
		}
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		start := unit.FileSet.Position(call.Pos()).Offset
		end := unit.FileSet.Position(call.End()).Offset
		if start == location.Offset && end == location.EndOffset {
			result = call
			return false
		}
		return true
	})
	return result
}

// accessorMethod returns the method name of the first accessor declared on
// the given context type; accessors belonging to other context types never
// produce an edit against this parameter
func accessorMethod(accessors []string, contextType string) string {
	for _, accessor := range accessors {
		if method, ok := strings.CutPrefix(accessor, contextType+"."); ok && !strings.Contains(method, ".") {
			return method
		}
	}
	return ""
}

func printExpr(unit *inspector.Unit, expr ast.Expr) string {
	var buffer bytes.Buffer
	if err := printer.Fprint(&buffer, unit.FileSet, expr); err != nil {
		return ""
	}
	return buffer.String()
}
