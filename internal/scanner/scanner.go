package scanner

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ferrous-ci/rustgate/internal/catalog"
	"github.com/ferrous-ci/rustgate/internal/model"
)

// Scanner evaluates the rule catalog against source lines. It holds no
// mutable state across files; each scan is an independent computation.
type Scanner struct {
	cat *catalog.Catalog
	log *zap.SugaredLogger
}

func New(cat *catalog.Catalog, log *zap.SugaredLogger) *Scanner {
	return &Scanner{cat: cat, log: log}
}

// ScanFile reads one file and scans it. An unreadable file is warned about
// and skipped; scanning of other files must continue, so no error escapes.
func (s *Scanner) ScanFile(path string) []model.Finding {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warnw("skipping unreadable file", "file", path, "error", err)
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		s.log.Warnw("skipping unreadable file", "file", path, "error", err)
		return nil
	}
	return s.ScanLines(path, lines)
}

// ScanLines scans already-split lines (1-indexed in the findings). Every rule
// is evaluated against every eligible line: a line matching several rules
// yields one finding per rule, in catalog declaration order. This is the
// opposite of failure classification, which stops at the first match — line
// auditing wants completeness, classification wants a single explanation.
func (s *Scanner) ScanLines(path string, lines []string) []model.Finding {
	var findings []model.Finding
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Pure comment lines are never scanned.
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		// Lines in a test annotation context are skipped entirely.
		if strings.Contains(line, "#[test]") || strings.Contains(line, "#test") {
			continue
		}

		for _, rule := range s.cat.Rules() {
			if rule.Matches(line) {
				findings = append(findings, model.Finding{
					File:       path,
					Line:       i + 1,
					Text:       trimmed,
					RuleID:     rule.ID,
					Severity:   rule.Severity,
					Category:   rule.Category,
					Risk:       rule.Risk,
					Suggestion: rule.Suggestion,
					Example:    rule.Example,
				})
			}
		}
	}
	return findings
}
