package config

// Default returns the built-in configuration profile targeting the durable
// workflow SDK surface. Hosts overlay YAML profiles on top of it.
func Default() *Config {
	result := &Config{
		OrchestratorMarkers: []string{"replay:orchestrator"},
		ActivityMarkers:     []string{"replay:activity"},
		OrchestrationContextTypes: []string{
			"github.com/viant/replay/durable.Context",
		},
		ActivityContextTypes: []string{
			"github.com/viant/replay/durable.ActivityContext",
		},
		OrchestrationBaseTypes: []string{
			"github.com/viant/replay/durable.Workflow",
		},
		LogicalTimeAccessors: []string{
			"github.com/viant/replay/durable.Context.CurrentTime",
		},
		DeterministicIDAccessors: []string{
			"github.com/viant/replay/durable.Context.NewID",
		},
		DurableTimerAPIs: []string{
			"github.com/viant/replay/durable.Context.CreateTimer",
		},
		DurableHTTPAPIs: []string{
			"github.com/viant/replay/durable.Context.CallHTTP",
		},
		ActivityCallAPIs: []string{
			"github.com/viant/replay/durable.Context.CallActivity",
		},
		SubOrchestrationAPIs: []string{
			"github.com/viant/replay/durable.Context.CallSubOrchestration",
		},
		CompletedTaskAPIs: []string{
			"github.com/viant/replay/durable.CompletedTask",
		},
		TaskCombinators: []string{
			"github.com/viant/replay/durable.WhenAll",
			"github.com/viant/replay/durable.WhenAny",
		},
		BindingParameterTypes: []string{
			"net/http.Request",
			"github.com/viant/replay/durable.QueueMessage",
		},
		LoggerParameterTypes: []string{
			"log/slog.Logger",
			"github.com/viant/replay/durable.Logger",
		},
	}
	return result.Init()
}
