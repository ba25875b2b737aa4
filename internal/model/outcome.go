package model

import "time"

type TestStatus string

const (
	StatusPassed  TestStatus = "PASSED"
	StatusFailed  TestStatus = "FAILED"
	StatusIgnored TestStatus = "IGNORED"
	StatusTimeout TestStatus = "TIMEOUT"
)

// Outcome is the recorded result of one executed test. Duration is zero when
// the harness output carries no timing, which is the default cargo format.
type Outcome struct {
	Name      string        `json:"name"`
	Status    TestStatus    `json:"status"`
	Duration  time.Duration `json:"duration"`
	ErrorText string        `json:"error_text,omitempty"`
}

// Diagnosis is the classifier's verdict for one failed test.
type Diagnosis struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	Fixable    bool   `json:"fixable"`
}
