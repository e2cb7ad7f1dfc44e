package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/replaylint/determinism"
	"gopkg.in/yaml.v3"
)

// Config holds the classification and rule tables the engine matches against.
// Symbols are fully qualified: "pkgpath.Name" for package-level functions and
// variables, "pkgpath.Type.Method" for methods (pointer receivers stripped).
// A trailing ".*" entry matches every symbol in the named package or type.
type Config struct {
	// Classification evidence
	OrchestratorMarkers       []string `yaml:"orchestratorMarkers,omitempty"`       // function directive comments, e.g. replay:orchestrator
	ActivityMarkers           []string `yaml:"activityMarkers,omitempty"`           // activity entry directive comments
	OrchestrationContextTypes []string `yaml:"orchestrationContextTypes,omitempty"` // parameter types designating an orchestrator
	ActivityContextTypes      []string `yaml:"activityContextTypes,omitempty"`      // parameter types designating an activity
	OrchestrationBaseTypes    []string `yaml:"orchestrationBaseTypes,omitempty"`    // embedded base types designating an orchestrator receiver

	// Durable-safe API surface provided by the orchestration context
	LogicalTimeAccessors     []string `yaml:"logicalTimeAccessors,omitempty"`
	DeterministicIDAccessors []string `yaml:"deterministicIdAccessors,omitempty"`
	DurableTimerAPIs         []string `yaml:"durableTimerApis,omitempty"`
	DurableHTTPAPIs          []string `yaml:"durableHttpApis,omitempty"`
	ActivityCallAPIs         []string `yaml:"activityCallApis,omitempty"`
	SubOrchestrationAPIs     []string `yaml:"subOrchestrationApis,omitempty"`
	CompletedTaskAPIs        []string `yaml:"completedTaskApis,omitempty"`
	TaskCombinators          []string `yaml:"taskCombinators,omitempty"`

	// Parameter binding rule tables
	BindingParameterTypes []string `yaml:"bindingParameterTypes,omitempty"`
	LoggerParameterTypes  []string `yaml:"loggerParameterTypes,omitempty"`

	// Types whose reads are replay-stable even when shared
	ImmutableCollectionTypes []string `yaml:"immutableCollectionTypes,omitempty"`

	// Host-side surfaces: severity overrides and disabled rules. The engine
	// ignores both; the reporter applies them.
	Severity      map[string]determinism.Severity `yaml:"severity,omitempty"`
	DisabledRules []string                        `yaml:"disabledRules,omitempty"`

	contextTypes  *symbolSet
	activityTypes *symbolSet
	baseTypes     *symbolSet
	logicalTime   *symbolSet
	idAccessors   *symbolSet
	timers        *symbolSet
	durableHTTP   *symbolSet
	activityCalls *symbolSet
	subOrch       *symbolSet
	completed     *symbolSet
	combinators   *symbolSet
	bindingTypes  *symbolSet
	loggerTypes   *symbolSet
	immutable     *symbolSet
	disabled      map[string]bool
}

// Init builds the lookup sets; it must be called after any mutation and is
// idempotent
func (c *Config) Init() *Config {
	c.contextTypes = newSymbolSet(c.OrchestrationContextTypes)
	c.activityTypes = newSymbolSet(c.ActivityContextTypes)
	c.baseTypes = newSymbolSet(c.OrchestrationBaseTypes)
	c.logicalTime = newSymbolSet(c.LogicalTimeAccessors)
	c.idAccessors = newSymbolSet(c.DeterministicIDAccessors)
	c.timers = newSymbolSet(c.DurableTimerAPIs)
	c.durableHTTP = newSymbolSet(c.DurableHTTPAPIs)
	c.activityCalls = newSymbolSet(c.ActivityCallAPIs)
	c.subOrch = newSymbolSet(c.SubOrchestrationAPIs)
	c.completed = newSymbolSet(c.CompletedTaskAPIs)
	c.combinators = newSymbolSet(c.TaskCombinators)
	c.bindingTypes = newSymbolSet(c.BindingParameterTypes)
	c.loggerTypes = newSymbolSet(c.LoggerParameterTypes)
	c.immutable = newSymbolSet(c.ImmutableCollectionTypes)
	c.disabled = make(map[string]bool)
	for _, id := range c.DisabledRules {
		c.disabled[id] = true
	}
	return c
}

// HasOrchestratorMarker reports whether a directive comment line carries an
// orchestration entry marker
func (c *Config) HasOrchestratorMarker(directive string) bool {
	return hasMarker(directive, c.OrchestratorMarkers)
}

// HasActivityMarker reports whether a directive comment line carries an
// activity entry marker
func (c *Config) HasActivityMarker(directive string) bool {
	return hasMarker(directive, c.ActivityMarkers)
}

func hasMarker(directive string, markers []string) bool {
	directive = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(directive), "//"))
	for _, marker := range markers {
		if directive == marker {
			return true
		}
	}
	return false
}

// IsOrchestrationContextType reports whether the type designates an orchestration context parameter
func (c *Config) IsOrchestrationContextType(typeName string) bool {
	return c.contextTypes.Contains(typeName)
}

// IsActivityContextType reports whether the type designates an activity context parameter
func (c *Config) IsActivityContextType(typeName string) bool {
	return c.activityTypes.Contains(typeName)
}

// IsOrchestrationBaseType reports whether embedding the type classifies a receiver as orchestrator
func (c *Config) IsOrchestrationBaseType(typeName string) bool {
	return c.baseTypes.Contains(typeName)
}

// IsLogicalTimeAccessor reports whether the symbol is the context logical-time accessor
func (c *Config) IsLogicalTimeAccessor(symbol string) bool {
	return c.logicalTime.Contains(symbol)
}

// IsDeterministicIDAccessor reports whether the symbol is the context deterministic id generator
func (c *Config) IsDeterministicIDAccessor(symbol string) bool {
	return c.idAccessors.Contains(symbol)
}

// IsDurableTimer reports whether the symbol is a durable timer primitive
func (c *Config) IsDurableTimer(symbol string) bool {
	return c.timers.Contains(symbol)
}

// IsCompletedTask reports whether the symbol wraps an immediately-completed deterministic task
func (c *Config) IsCompletedTask(symbol string) bool {
	return c.completed.Contains(symbol)
}

// IsTaskCombinator reports whether the symbol combines pending tasks (await all/any)
func (c *Config) IsTaskCombinator(symbol string) bool {
	return c.combinators.Contains(symbol)
}

// IsDurableSafeCall reports whether a call to the symbol is replay-consistent
// by contract: activity invocation, durable timer, sub-orchestration, durable
// HTTP, completed-task wrapper, logical time or deterministic id accessor
func (c *Config) IsDurableSafeCall(symbol string) bool {
	return c.activityCalls.Contains(symbol) ||
		c.timers.Contains(symbol) ||
		c.subOrch.Contains(symbol) ||
		c.durableHTTP.Contains(symbol) ||
		c.completed.Contains(symbol) ||
		c.logicalTime.Contains(symbol) ||
		c.idAccessors.Contains(symbol)
}

// IsBindingParameterType reports whether the type is a non-orchestration trigger/binding parameter
func (c *Config) IsBindingParameterType(typeName string) bool {
	return c.bindingTypes.Contains(typeName)
}

// IsLoggerParameterType reports whether the type is an allowed logging-capability parameter
func (c *Config) IsLoggerParameterType(typeName string) bool {
	return c.loggerTypes.Contains(typeName)
}

// IsImmutableCollectionType reports whether shared reads of the type are replay-stable
func (c *Config) IsImmutableCollectionType(typeName string) bool {
	return c.immutable.Contains(typeName)
}

// IsDisabled reports whether the rule id has been disabled by configuration
func (c *Config) IsDisabled(ruleID string) bool {
	return c.disabled[ruleID]
}

// SeverityOf returns the configured severity for the rule id, falling back to
// the supplied default
func (c *Config) SeverityOf(ruleID string, dflt determinism.Severity) determinism.Severity {
	if c.Severity == nil {
		return dflt
	}
	if severity, ok := c.Severity[ruleID]; ok && severity.Valid() {
		return severity
	}
	return dflt
}

// Load reads a YAML profile from the given URL (any scheme supported by afs)
// over the default configuration
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	return Parse(data)
}

// Parse unmarshals a YAML profile over the default configuration
func Parse(data []byte) (*Config, error) {
	result := Default()
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return result.Init(), nil
}
