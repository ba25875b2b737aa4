package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ferrous-ci/rustgate/internal/model"
)

// severityOrder is the fixed rendering order. HIGH first, never alphabetical.
var severityOrder = []model.Severity{model.SevHigh, model.SevMedium, model.SevLow}

func glyph(s model.Severity) string {
	switch s {
	case model.SevHigh:
		return "🔴"
	case model.SevMedium:
		return "🟡"
	case model.SevLow:
		return "🟢"
	}
	return "•"
}

// Audit renders the auditor report and derives its exit code. The output is
// a pure function of the findings: grouped by severity, then by file path in
// lexicographic order, preserving original line order within a file.
// Exit code is 1 only when at least one HIGH finding exists; MEDIUM and LOW
// alone exit 0 — escalation beyond that is caller policy.
func Audit(findings []model.Finding) (string, model.ExitCode) {
	var b strings.Builder
	b.WriteString("# Rust error tolerance report\n\n")

	if len(findings) == 0 {
		b.WriteString("✅ No error tolerance issues found!\n")
		return b.String(), model.ExitOK
	}

	fmt.Fprintf(&b, "%d issue(s) found\n", len(findings))

	counts := map[model.Severity]int{}
	for _, sev := range severityOrder {
		var group []model.Finding
		for _, f := range findings {
			if f.Severity == sev {
				group = append(group, f)
			}
		}
		counts[sev] = len(group)
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s %s severity\n", glyph(sev), sev)

		byFile := map[string][]model.Finding{}
		for _, f := range group {
			byFile[f.File] = append(byFile[f.File], f)
		}
		files := make([]string, 0, len(byFile))
		for file := range byFile {
			files = append(files, file)
		}
		sort.Strings(files)

		for _, file := range files {
			fmt.Fprintf(&b, "\n### File: `%s`\n\n", file)
			for _, f := range byFile[file] {
				fmt.Fprintf(&b, "- **Line %d**: `%s`\n", f.Line, f.Text)
				fmt.Fprintf(&b, "  - **Category**: %s\n", f.Category)
				fmt.Fprintf(&b, "  - **Risk**: %s\n", f.Risk)
				fmt.Fprintf(&b, "  - **Suggestion**: %s\n", f.Suggestion)
				if f.Example != "" {
					b.WriteString("  - **Example**:\n")
					b.WriteString("    ```rust\n")
					for _, line := range strings.Split(f.Example, "\n") {
						fmt.Fprintf(&b, "    %s\n", line)
					}
					b.WriteString("    ```\n")
				}
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n---\n")
	b.WriteString("## 📊 Summary\n\n")
	b.WriteString("| Severity | Count | Priority |\n")
	b.WriteString("|----------|-------|----------|\n")
	fmt.Fprintf(&b, "| 🔴 HIGH | %d | P0 - fix immediately |\n", counts[model.SevHigh])
	fmt.Fprintf(&b, "| 🟡 MEDIUM | %d | P1 - fix soon |\n", counts[model.SevMedium])
	fmt.Fprintf(&b, "| 🟢 LOW | %d | P2 - code quality |\n", counts[model.SevLow])

	exit := model.ExitOK
	if counts[model.SevHigh] > 0 {
		exit = model.ExitFail
	}
	return b.String(), exit
}
