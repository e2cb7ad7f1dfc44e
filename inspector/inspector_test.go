package inspector

import (
	"context"
	"go/ast"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func firstCallIn(t *testing.T, unit *Unit, function string) *ast.CallExpr {
	var result *ast.CallExpr
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != function {
				continue
			}
			ast.Inspect(funcDecl.Body, func(node ast.Node) bool {
				if call, ok := node.(*ast.CallExpr); ok && result == nil {
					result = call
				}
				return result == nil
			})
		}
	}
	if !assert.NotNil(t, result, "no call in %v", function) {
		t.FailNow()
	}
	return result
}

func TestUnit_SymbolOf(t *testing.T) {
	source := `package example

import (
	"strings"
	"time"
)

func PackageFunc() time.Time { return time.Now() }

func Method(b *strings.Builder) { b.WriteString("x") }

func ValueMethod(d time.Duration) string { return d.String() }

func BuiltinCall(values map[string]int) { delete(values, "x") }

func LocalCall() { helper() }

func helper() {}
`
	unit, err := New().InspectSource([]byte(source))
	if !assert.Nil(t, err) {
		t.FailNow()
	}

	tests := []struct {
		function string
		expected string
	}{
		{function: "PackageFunc", expected: "time.Now"},
		{function: "Method", expected: "strings.Builder.WriteString"},
		{function: "ValueMethod", expected: "time.Duration.String"},
		{function: "BuiltinCall", expected: "delete"},
		{function: "LocalCall", expected: "example.helper"},
	}
	for _, testCase := range tests {
		call := firstCallIn(t, unit, testCase.function)
		assert.Equal(t, testCase.expected, unit.SymbolOf(call), testCase.function)
	}
}

func TestInspector_AddPackage(t *testing.T) {
	insp := New()
	_, err := insp.AddPackage("example.com/sdk", []byte(`package sdk

type Client struct{}

func (c *Client) Call(name string) error { return nil }

func Dial(address string) (*Client, error) { return &Client{}, nil }
`))
	if !assert.Nil(t, err) {
		t.FailNow()
	}

	unit, err := insp.InspectSource([]byte(`package example

import "example.com/sdk"

func Run() error {
	client, err := sdk.Dial("localhost")
	if err != nil {
		return err
	}
	return client.Call("ping")
}
`))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	assert.Empty(t, unit.TypeErrors)

	call := firstCallIn(t, unit, "Run")
	assert.Equal(t, "example.com/sdk.Dial", unit.SymbolOf(call))
}

func TestUnit_TypeNameOf(t *testing.T) {
	source := `package example

import "net/http"

func Handle(req *http.Request, raw []byte, count int) {}
`
	unit, err := New().InspectSource([]byte(source))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			params := funcDecl.Type.Params.List
			assert.Equal(t, "net/http.Request", unit.TypeNameOf(params[0].Type))
			// unnamed composites have no canonical type name
			assert.Equal(t, "", unit.TypeNameOf(params[1].Type))
			assert.Equal(t, "", unit.TypeNameOf(params[2].Type))
		}
	}
}

func TestUnit_FunctionID(t *testing.T) {
	source := `package example

type Order struct{}

func (o *Order) Process() {}

func Standalone() {}
`
	unit, err := New().InspectSource([]byte(source))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	ids := map[string]bool{}
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			if funcDecl, ok := decl.(*ast.FuncDecl); ok {
				ids[string(unit.FunctionID(funcDecl))] = true
			}
		}
	}
	assert.True(t, ids["example:Order.Process"])
	assert.True(t, ids["example:Standalone"])
}

func TestInspector_InspectSource_MultipleFiles(t *testing.T) {
	unit, err := New().InspectSource(
		[]byte("package example\n\nfunc First() { second() }\n"),
		[]byte("package example\n\nfunc second() {}\n"),
	)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	assert.Equal(t, 2, len(unit.Files))
	call := firstCallIn(t, unit, "First")
	assert.Equal(t, "example.second", unit.SymbolOf(call))
}

func TestInspector_InspectDirectory(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "orders.go"),
		[]byte("package orders\n\nfunc Place() { confirm() }\n"), 0o644)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	err = os.WriteFile(filepath.Join(dir, "confirm.go"),
		[]byte("package orders\n\nfunc confirm() {}\n"), 0o644)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	// test files are not part of the analyzed unit
	err = os.WriteFile(filepath.Join(dir, "orders_test.go"),
		[]byte("package orders\n"), 0o644)
	if !assert.Nil(t, err) {
		t.FailNow()
	}

	unit, err := New().InspectDirectory(dir)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	assert.Equal(t, 2, len(unit.Files))
	call := firstCallIn(t, unit, "Place")
	assert.Equal(t, "orders.confirm", unit.SymbolOf(call))
}

func TestDetectModule(t *testing.T) {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/workflows\n\ngo 1.23\n"), 0o644)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	nested := filepath.Join(root, "internal", "orders")
	err = os.MkdirAll(nested, 0o755)
	if !assert.Nil(t, err) {
		t.FailNow()
	}

	module, err := DetectModule(context.Background(), nested)
	assert.Nil(t, err)
	assert.Equal(t, "example.com/workflows", module)

	module, err = DetectModule(context.Background(), t.TempDir())
	assert.Nil(t, err)
	assert.Equal(t, "", module)
}

func TestInspector_ToleratesTypeErrors(t *testing.T) {
	unit, err := New().InspectSource([]byte(`package example

import "example.com/nowhere"

func Run() { nowhere.Missing() }
`))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	assert.NotEmpty(t, unit.TypeErrors)
	call := firstCallIn(t, unit, "Run")
	assert.Equal(t, "", unit.SymbolOf(call))
}
