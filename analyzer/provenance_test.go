package analyzer

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/inspector"
)

// judgeFirstReturn builds a pass over the source and judges the return value
// expression of the named function.
func judgeFirstReturn(t *testing.T, source, function string) (bool, string) {
	insp := newTestInspector(t)
	unit, err := insp.InspectSource([]byte(source))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	pass := newPass(unit, config.Default(), newUnitIndex(unit))

	var target ast.Expr
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != function {
				continue
			}
			ast.Inspect(funcDecl.Body, func(node ast.Node) bool {
				if ret, ok := node.(*ast.ReturnStmt); ok && target == nil && len(ret.Results) > 0 {
					target = ret.Results[0]
				}
				return true
			})
		}
	}
	if !assert.NotNil(t, target, "function %v has no return expression", function) {
		t.FailNow()
	}
	judgment := pass.Judge(target)
	return judgment.Deterministic, judgment.Reason
}

func TestPass_Judge(t *testing.T) {
	source := `package example

import (
	"time"

	"github.com/viant/replay/durable"
)

const limit = 10

var factor = 3

var retries = limit * factor

var names = []string{"a", "b"}

var startup = time.Now()

var mutable = 1

func Literal() int { return 42 }

func Arithmetic() int { return limit*2 + 1 }

func ReadonlyVar() int { return factor }

func ChainedReadonly() int { return retries }

func CompositeValue() []string { return names }

func AmbientInit() time.Time { return startup }

func MutableVar() int { return mutable }

func LocalVar() int {
	value := 1
	return value
}

func Conversion() int64 { return int64(limit) }

func AmbientCall() time.Time { return time.Now() }

func DurableCall(ctx *durable.Context) time.Time { return ctx.CurrentTime() }

func AddressOf() *int { return &mutable }

func Tune(value int) { mutable = value }
`
	tests := []struct {
		name          string
		function      string
		deterministic bool
	}{
		{name: "literal", function: "Literal", deterministic: true},
		{name: "arithmetic over constants", function: "Arithmetic", deterministic: true},
		{name: "readonly package variable", function: "ReadonlyVar", deterministic: true},
		{name: "readonly chain through initializers", function: "ChainedReadonly", deterministic: true},
		{name: "composite of literals", function: "CompositeValue", deterministic: true},
		{name: "variable seeded from wall clock", function: "AmbientInit", deterministic: false},
		{name: "mutated package variable", function: "MutableVar", deterministic: false},
		{name: "local variable fails safe", function: "LocalVar", deterministic: false},
		{name: "conversion carries operand provenance", function: "Conversion", deterministic: true},
		{name: "ambient call", function: "AmbientCall", deterministic: false},
		{name: "durable-safe call", function: "DurableCall", deterministic: true},
		{name: "address of shared state", function: "AddressOf", deterministic: false},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			deterministic, reason := judgeFirstReturn(t, source, testCase.function)
			assert.Equal(t, testCase.deterministic, deterministic, testCase.name)
			assert.NotEmpty(t, reason, testCase.name)
		})
	}
}

func TestPass_JudgeReasons(t *testing.T) {
	source := `package example

import "time"

func AmbientCall() time.Time { return time.Now() }
`
	_, reason := judgeFirstReturn(t, source, "AmbientCall")
	assert.Contains(t, reason, "wall-clock")
}

func TestPass_InitializerCycle(t *testing.T) {
	source := `package example

var first = second

var second = first

func Read() int { return first }
`
	deterministic, _ := judgeFirstReturn(t, source, "Read")
	assert.False(t, deterministic)
}

func TestUnitIndex_Writes(t *testing.T) {
	source := `package example

var counter int

var settings = map[string]string{}

var untouched = 1

func mutate(key string) {
	counter++
	settings[key] = "on"
	delete(settings, key)
}
`
	insp := inspector.New()
	unit, err := insp.InspectSource([]byte(source))
	assert.Nil(t, err)
	index := newUnitIndex(unit)

	mutated := map[string]bool{}
	for object := range index.mutatedVars {
		mutated[object.Name()] = true
	}
	assert.True(t, mutated["counter"])
	assert.True(t, mutated["settings"])
	assert.False(t, mutated["untouched"])
}
