package determinism

// CodeLocation represents a span in the analyzed source
type CodeLocation struct {
	FilePath    string `yaml:"filePath"`              // File path
	Line        int    `yaml:"line"`                  // 1-based start line
	Column      int    `yaml:"column"`                // 1-based start column
	EndLine     int    `yaml:"endLine,omitempty"`     // 1-based end line
	EndColumn   int    `yaml:"endColumn,omitempty"`   // 1-based end column
	Offset      int    `yaml:"offset"`                // byte offset of span start
	EndOffset   int    `yaml:"endOffset"`             // byte offset of span end
	ModulePath  string `yaml:"modulePath,omitempty"`  // owning module path, if detected
	PackagePath string `yaml:"packagePath,omitempty"` // owning package path
}

// Violation records one classified function breaching one rule at one location
type Violation struct {
	RuleID      string       `yaml:"ruleId"`
	Location    CodeLocation `yaml:"location"`
	Message     string       `yaml:"message"`
	Function    FunctionID   `yaml:"function"`
	Symbol      string       `yaml:"symbol,omitempty"` // display name of the violating symbol
	Fixable     bool         `yaml:"fixable,omitempty"`
	Fingerprint uint64       `yaml:"fingerprint"` // stable identity across runs of the same unit
}

// FixEdit is a proposed textual replacement resolving a specific violation
type FixEdit struct {
	RuleID      string       `yaml:"ruleId"`
	Violation   uint64       `yaml:"violation"` // fingerprint of the violation being fixed
	Span        CodeLocation `yaml:"span"`      // anchor span to replace
	Replacement string       `yaml:"replacement"`
}

// Diagnostic is the record surfaced to the host for one violation
type Diagnostic struct {
	RuleID   string       `yaml:"ruleId"`
	Severity Severity     `yaml:"severity"`
	Message  string       `yaml:"message"`
	Span     CodeLocation `yaml:"span"`
	Fixable  bool         `yaml:"fixable,omitempty"`
}
