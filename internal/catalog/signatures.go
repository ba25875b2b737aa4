package catalog

import "github.com/ferrous-ci/rustgate/internal/model"

// Signature pairs a stderr substring with the diagnosis it implies.
// Classification is first-match-wins over this list, so more specific
// signatures must be declared before generic ones.
type Signature struct {
	Needle    string
	Diagnosis model.Diagnosis
}

// FailureSignatures returns the ordered failure signature list for cargo
// test stderr.
func FailureSignatures() []Signature {
	return []Signature{
		{
			Needle: "assertion failed",
			Diagnosis: model.Diagnosis{
				Category:   "assertion failure",
				Suggestion: "Check the assertion; align the test expectation with the actual behavior",
			},
		},
		{
			Needle: "panicked at",
			Diagnosis: model.Diagnosis{
				Category:   "panic",
				Suggestion: "The code panicked; look for invalid data access or an explicit panic!",
			},
		},
		{
			Needle: "attempt to add with overflow",
			Diagnosis: model.Diagnosis{
				Category:   "arithmetic overflow",
				Suggestion: "Use checked_add, wrapping_add or saturating_add",
				Fixable:    true,
			},
		},
		{
			Needle: "borrow checker",
			Diagnosis: model.Diagnosis{
				Category:   "borrow checker error",
				Suggestion: "Review ownership and lifetimes; cloning or adjusting references may be needed",
			},
		},
		{
			Needle: "type mismatch",
			Diagnosis: model.Diagnosis{
				Category:   "type mismatch",
				Suggestion: "Check the type annotations; a conversion may be missing",
				Fixable:    true,
			},
		},
		{
			Needle: "no such file or directory",
			Diagnosis: model.Diagnosis{
				Category:   "missing file",
				Suggestion: "Make sure the fixture the test needs exists, or use a temp directory",
				Fixable:    true,
			},
		},
		{
			Needle: "connection refused",
			Diagnosis: model.Diagnosis{
				Category:   "connection refused",
				Suggestion: "Start the service the test depends on, or mock it",
			},
		},
		{
			Needle: "timeout",
			Diagnosis: model.Diagnosis{
				Category:   "timeout",
				Suggestion: "Speed the test up or raise the timeout",
			},
		},
	}
}

// UnknownDiagnosis is returned when no signature matches. Unmatched stderr is
// a normal outcome, not an error.
func UnknownDiagnosis() model.Diagnosis {
	return model.Diagnosis{
		Category:   "unknown",
		Suggestion: "Inspect the test and the code under test",
	}
}
