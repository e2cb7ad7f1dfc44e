package report

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/rules"
)

func sampleViolations() []determinism.Violation {
	return []determinism.Violation{
		{
			RuleID:   "DET-0004",
			Location: determinism.CodeLocation{FilePath: "orders/workflow.go", Line: 20, Column: 9, Offset: 412},
			Message:  "'http.Get' performs direct external I/O inside an orchestrator; move it to an activity or use the durable HTTP primitive",
		},
		{
			RuleID:   "DET-0001",
			Location: determinism.CodeLocation{FilePath: "orders/workflow.go", Line: 12, Column: 9, Offset: 245},
			Message:  "'time.Now' reads ambient wall-clock time; use the orchestration context logical time accessor instead",
			Fixable:  true,
		},
		{
			RuleID:   "DET-0005",
			Location: determinism.CodeLocation{FilePath: "billing/workflow.go", Line: 8, Column: 2, Offset: 98},
			Message:  "'os.Getenv' accesses environment or host state, which is not replay-stable inside an orchestrator",
		},
	}
}

func TestReporter_Diagnostics(t *testing.T) {
	reporter := New(nil)
	diagnostics := reporter.Diagnostics(rules.Builtin(), sampleViolations())
	if !assert.Equal(t, 3, len(diagnostics)) {
		return
	}
	// canonical order: file then offset
	assert.Equal(t, "DET-0005", diagnostics[0].RuleID)
	assert.Equal(t, "DET-0001", diagnostics[1].RuleID)
	assert.Equal(t, "DET-0004", diagnostics[2].RuleID)
	for _, diagnostic := range diagnostics {
		assert.Equal(t, determinism.SeverityWarning, diagnostic.Severity)
	}
	assert.True(t, diagnostics[1].Fixable)
}

func TestReporter_SeverityOverride(t *testing.T) {
	cfg, err := config.Parse([]byte("severity:\n  DET-0001: error\n  DET-0005: none\n"))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	diagnostics := New(cfg).Diagnostics(rules.Builtin(), sampleViolations())
	if !assert.Equal(t, 2, len(diagnostics)) {
		return
	}
	assert.Equal(t, "DET-0001", diagnostics[0].RuleID)
	assert.Equal(t, determinism.SeverityError, diagnostics[0].Severity)
	assert.Equal(t, "DET-0004", diagnostics[1].RuleID)
	assert.Equal(t, determinism.SeverityWarning, diagnostics[1].Severity)
	assert.True(t, HasErrors(diagnostics))
}

func TestReporter_DisabledRules(t *testing.T) {
	cfg, err := config.Parse([]byte("disabledRules:\n  - DET-0001\n  - DET-0004\n"))
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	diagnostics := New(cfg).Diagnostics(rules.Builtin(), sampleViolations())
	if !assert.Equal(t, 1, len(diagnostics)) {
		return
	}
	assert.Equal(t, "DET-0005", diagnostics[0].RuleID)
	assert.False(t, HasErrors(diagnostics))
}

func TestHasErrors_Empty(t *testing.T) {
	assert.False(t, HasErrors(nil))
}

func TestReporter_Render(t *testing.T) {
	reporter := New(nil)
	diagnostics := reporter.Diagnostics(rules.Builtin(), sampleViolations())
	var buffer bytes.Buffer
	err := reporter.Render(&buffer, diagnostics)
	assert.Nil(t, err)
	g := goldie.New(t)
	g.Assert(t, "report", buffer.Bytes())
}
