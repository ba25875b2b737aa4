package model

type Severity string

const (
	SevHigh   Severity = "HIGH"
	SevMedium Severity = "MEDIUM"
	SevLow    Severity = "LOW"
)

// Rank orders severities for report grouping: HIGH before MEDIUM before LOW.
// The order is fixed, never alphabetical.
func (s Severity) Rank() int {
	switch s {
	case SevHigh:
		return 0
	case SevMedium:
		return 1
	case SevLow:
		return 2
	}
	return 3
}

// Finding is a single rule match on one source line. It is identified by
// (File, Line, RuleID); the same line may yield one Finding per matching rule.
type Finding struct {
	File       string   `json:"file"`
	Line       int      `json:"line"` // 1-based
	Text       string   `json:"text"` // trimmed line content
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Risk       string   `json:"risk"`
	Suggestion string   `json:"suggestion"`
	Example    string   `json:"example,omitempty"`
}

// ExitCode defines the process exit codes shared by both commands.
type ExitCode int

const (
	ExitOK    ExitCode = 0 // no HIGH findings / no failed tests
	ExitFail  ExitCode = 1 // HIGH findings present, or test failures
	ExitError ExitCode = 2 // fatal error before any report was produced
)
