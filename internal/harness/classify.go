package harness

import (
	"strings"

	"github.com/ferrous-ci/rustgate/internal/catalog"
	"github.com/ferrous-ci/rustgate/internal/model"
)

// Classify maps a failed test's stderr to exactly one diagnosis.
// The search is an ordered linear scan with early exit: the first signature
// that appears anywhere in the text wins, even when later ones also match.
// Nothing matching is normal and yields the unknown diagnosis.
func Classify(stderr string, sigs []catalog.Signature) model.Diagnosis {
	haystack := strings.ToLower(stderr)
	for _, sig := range sigs {
		if strings.Contains(haystack, strings.ToLower(sig.Needle)) {
			return sig.Diagnosis
		}
	}
	return catalog.UnknownDiagnosis()
}
