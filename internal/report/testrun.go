package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ferrous-ci/rustgate/internal/model"
)

// passedDisplayCap bounds how many passed test names the report lists.
// It is presentation only and has no effect on status or exit code.
const passedDisplayCap = 10

// errorExcerptLen caps the error output quoted per failed test.
const errorExcerptLen = 300

// TestRunInput is everything the test-wrapper report needs: the parsed
// outcomes, a diagnosis per failed test (keyed by name), and whether the
// underlying invocation itself signalled failure.
type TestRunInput struct {
	Outcomes      []model.Outcome
	Diagnoses     map[string]model.Diagnosis
	HarnessFailed bool
}

// TestRun renders the test report and derives the exit code: non-zero when
// the harness invocation failed or any outcome is Failed/Timeout.
func TestRun(in TestRunInput) (string, model.ExitCode) {
	var passed, failed, ignored, timedOut []model.Outcome
	for _, o := range in.Outcomes {
		switch o.Status {
		case model.StatusPassed:
			passed = append(passed, o)
		case model.StatusFailed:
			failed = append(failed, o)
		case model.StatusIgnored:
			ignored = append(ignored, o)
		case model.StatusTimeout:
			timedOut = append(timedOut, o)
		}
	}

	var b strings.Builder
	b.WriteString("# Rust test report\n\n")
	b.WriteString("## 📊 Totals\n\n")
	fmt.Fprintf(&b, "- Tests run: %d\n", len(in.Outcomes))
	fmt.Fprintf(&b, "- ✅ Passed: %d\n", len(passed))
	fmt.Fprintf(&b, "- ❌ Failed: %d\n", len(failed))
	fmt.Fprintf(&b, "- ⚠️ Ignored: %d\n", len(ignored))
	if len(timedOut) > 0 {
		fmt.Fprintf(&b, "- ⏱️ Timed out: %d\n", len(timedOut))
	}

	if len(failed) > 0 || len(timedOut) > 0 {
		b.WriteString("\n## ❌ Failed tests\n")
		for _, o := range append(failed, timedOut...) {
			fmt.Fprintf(&b, "\n### %s\n", o.Name)
			fmt.Fprintf(&b, "- **Status**: %s\n", o.Status)
			if d, ok := in.Diagnoses[o.Name]; ok {
				fmt.Fprintf(&b, "- **Error type**: %s\n", d.Category)
				fmt.Fprintf(&b, "- **Suggestion**: %s\n", d.Suggestion)
				if d.Fixable {
					b.WriteString("- **Auto-fixable**: ✅ yes\n")
				}
			}
			if o.ErrorText != "" {
				b.WriteString("\n**Error output**:\n```\n")
				excerpt := o.ErrorText
				if len(excerpt) > errorExcerptLen {
					cut := errorExcerptLen
					for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
						cut--
					}
					excerpt = excerpt[:cut] + "\n..."
				}
				b.WriteString(excerpt)
				b.WriteString("\n```\n")
			}
		}
	}

	if len(passed) > 0 {
		b.WriteString("\n## ✅ Passed tests\n\n")
		shown := passed
		if len(shown) > passedDisplayCap {
			shown = shown[:passedDisplayCap]
		}
		for _, o := range shown {
			fmt.Fprintf(&b, "- %s\n", o.Name)
		}
		if extra := len(passed) - passedDisplayCap; extra > 0 {
			fmt.Fprintf(&b, "- ... and %d more\n", extra)
		}
	}

	exit := model.ExitOK
	if in.HarnessFailed || len(failed) > 0 || len(timedOut) > 0 {
		exit = model.ExitFail
	}
	return b.String(), exit
}
