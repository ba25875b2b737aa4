package harness

import (
	"regexp"
	"strings"

	"github.com/ferrous-ci/rustgate/internal/model"
)

// resultLine matches cargo's per-test result lines:
//
//	test suite::case1 ... ok
//	test suite::case2 ... FAILED
//	test suite::case3 ... ignored
//
// The optional trailing group catches detail some harnesses append after the
// status token.
var resultLine = regexp.MustCompile(`^test\s+(.+?)\s+\.\.\.\s*(\w+)(?:\s+(.+))?$`)

// ParseResults extracts one outcome per recognized result line in the
// captured stdout of a batch run. Lines that do not match the grammar are
// silently skipped. This output format carries no timing, so Duration stays
// zero; callers must not assume timing accuracy.
func ParseResults(output string) []model.Outcome {
	var outcomes []model.Outcome
	for _, line := range strings.Split(output, "\n") {
		m := resultLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name, token, rest := m[1], m[2], m[3]

		var status model.TestStatus
		switch {
		case token == "ok":
			status = model.StatusPassed
		case token == "ignored" || strings.Contains(line, "should panic"):
			status = model.StatusIgnored
		default:
			// FAILED, and any token we do not recognize.
			status = model.StatusFailed
		}

		out := model.Outcome{Name: name, Status: status}
		if status == model.StatusFailed {
			out.ErrorText = rest
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
