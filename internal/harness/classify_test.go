package harness

import (
	"testing"

	"github.com/ferrous-ci/rustgate/internal/catalog"
)

func TestClassify(t *testing.T) {
	sigs := catalog.FailureSignatures()

	tests := []struct {
		name         string
		stderr       string
		wantCategory string
		wantFixable  bool
	}{
		{
			"overflow",
			"thread 'main' panicked at 'attempt to add with overflow', src/lib.rs:42",
			// "panicked at" is declared earlier, so it wins over the
			// overflow signature even though both are present.
			"panic",
			false,
		},
		{
			"overflow_alone",
			"error: attempt to add with overflow",
			"arithmetic overflow",
			true,
		},
		{
			"first_match_wins",
			"assertion failed: left == right\nattempt to add with overflow",
			"assertion failure",
			false,
		},
		{
			"case_insensitive",
			"ASSERTION FAILED: expected 4",
			"assertion failure",
			false,
		},
		{
			"missing_file",
			"Error: No such file or directory (os error 2)",
			"missing file",
			true,
		},
		{
			"unmatched",
			"some entirely novel explosion",
			"unknown",
			false,
		},
		{
			"empty",
			"",
			"unknown",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.stderr, sigs)
			if d.Category != tt.wantCategory {
				t.Errorf("category: expected %q, got %q", tt.wantCategory, d.Category)
			}
			if d.Fixable != tt.wantFixable {
				t.Errorf("fixable: expected %v, got %v", tt.wantFixable, d.Fixable)
			}
		})
	}
}

func TestClassifyNeverEmptySuggestion(t *testing.T) {
	d := Classify("anything at all", catalog.FailureSignatures())
	if d.Suggestion == "" {
		t.Error("the default diagnosis must carry a generic suggestion")
	}
}
