// Package classifier decides whether a function is subject to replay
// determinism constraints. Classification is computed once per analysis pass
// and must be stable before rule matching starts.
package classifier

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/inspector"
)

// Classifier labels function declarations as orchestrator, activity or
// unclassified based on configured markers, parameter types and receiver
// base types
type Classifier struct {
	config *config.Config
}

// New creates a new Classifier with the given configuration
func New(cfg *config.Config) *Classifier {
	return &Classifier{config: cfg}
}

// Classify labels every function declared in the unit. Direct evidence
// (markers, context parameter types, embedded base types) is collected first;
// orchestrator evidence wins ties over activity evidence. Every remaining
// unclassified method declared on a receiver type with at least one directly
// classified orchestrator method is then classified orchestrator, reached or
// not: proving reachability through method values and interface dispatch is
// not reliable at single-unit granularity, so the whole receiver type is
// conservatively in scope. Propagation never crosses receiver types and
// never reaches top-level functions.
func (c *Classifier) Classify(unit *inspector.Unit) map[determinism.FunctionID]determinism.ContextClassification {
	result := make(map[determinism.FunctionID]determinism.ContextClassification)
	orchestratorReceivers := make(map[string]string) // receiver base name -> evidence

	var methods []*ast.FuncDecl
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			id := unit.FunctionID(funcDecl)
			classification := c.classifyDirect(unit, funcDecl)
			result[id] = classification

			receiver := inspector.ReceiverBaseName(funcDecl)
			if receiver != "" {
				methods = append(methods, funcDecl)
				if classification.Kind == determinism.Orchestrator {
					if _, ok := orchestratorReceivers[receiver]; !ok {
						orchestratorReceivers[receiver] = funcDecl.Name.Name
					}
				}
			}
		}
	}

	// Whole-type propagation; direct entry markers take precedence, so only
	// unclassified siblings are promoted.
	for _, decl := range methods {
		receiver := inspector.ReceiverBaseName(decl)
		entry, ok := orchestratorReceivers[receiver]
		if !ok {
			continue
		}
		id := unit.FunctionID(decl)
		if result[id].Kind != determinism.Unclassified {
			continue
		}
		result[id] = determinism.ContextClassification{
			Kind:     determinism.Orchestrator,
			Evidence: fmt.Sprintf("declared on type %s with orchestrator entry %s", receiver, entry),
		}
	}
	return result
}

// classifyDirect collects direct evidence for one declaration. Unresolvable
// parameter or receiver types contribute no evidence, degrading toward
// Unclassified rather than failing the pass.
func (c *Classifier) classifyDirect(unit *inspector.Unit, decl *ast.FuncDecl) determinism.ContextClassification {
	var activity *determinism.ContextClassification

	// Directive markers
	if decl.Doc != nil {
		for _, comment := range decl.Doc.List {
			if c.config.HasOrchestratorMarker(comment.Text) {
				return determinism.ContextClassification{
					Kind:     determinism.Orchestrator,
					Evidence: "marker " + strings.TrimSpace(comment.Text),
				}
			}
			if c.config.HasActivityMarker(comment.Text) {
				activity = &determinism.ContextClassification{
					Kind:     determinism.Activity,
					Evidence: "marker " + strings.TrimSpace(comment.Text),
				}
			}
		}
	}

	// Context parameter types
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			typeName := unit.TypeNameOf(field.Type)
			if typeName == "" {
				continue
			}
			if c.config.IsOrchestrationContextType(typeName) {
				return determinism.ContextClassification{
					Kind:     determinism.Orchestrator,
					Evidence: fmt.Sprintf("parameter of orchestration context type %s", typeName),
				}
			}
			if activity == nil && c.config.IsActivityContextType(typeName) {
				activity = &determinism.ContextClassification{
					Kind:     determinism.Activity,
					Evidence: fmt.Sprintf("parameter of activity context type %s", typeName),
				}
			}
		}
	}

	// Receiver embedding an orchestration base type
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		if base := c.embeddedBase(unit.TypeOf(decl.Recv.List[0].Type), map[string]bool{}); base != "" {
			return determinism.ContextClassification{
				Kind:     determinism.Orchestrator,
				Evidence: fmt.Sprintf("receiver embeds orchestration base type %s", base),
			}
		}
	}

	if activity != nil {
		return *activity
	}
	return determinism.ContextClassification{Kind: determinism.Unclassified}
}

// embeddedBase reports the first configured orchestration base type embedded
// (directly or transitively) in the receiver type, or ""
func (c *Classifier) embeddedBase(t types.Type, visited map[string]bool) string {
	if t == nil {
		return ""
	}
	if pointer, ok := t.(*types.Pointer); ok {
		t = pointer.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return ""
	}
	name := inspector.TypeName(named)
	if visited[name] {
		return ""
	}
	visited[name] = true

	structType, ok := named.Underlying().(*types.Struct)
	if !ok {
		return ""
	}
	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		if !field.Anonymous() {
			continue
		}
		fieldName := inspector.TypeName(field.Type())
		if c.config.IsOrchestrationBaseType(fieldName) {
			return fieldName
		}
		if base := c.embeddedBase(field.Type(), visited); base != "" {
			return base
		}
	}
	return ""
}
