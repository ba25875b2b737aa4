package sarif

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ferrous-ci/rustgate/internal/model"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Result struct {
	RuleID    string     `json:"ruleId"`
	Message   Message    `json:"message"`
	Level     string     `json:"level"` // error, warning, note
	Locations []Location `json:"locations"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine"`
}

// Render produces a SARIF 2.1.0 document for the audit findings. Results are
// sorted by (file, line, rule) so identical inputs serialize identically.
func Render(findings []model.Finding, toolName, toolVersion string) ([]byte, error) {
	sorted := make([]model.Finding, len(findings))
	copy(sorted, findings)
	SortFindings(sorted)

	results := make([]Result, 0, len(sorted))
	for _, f := range sorted {
		uri := toURI(f.File)
		if uri == "" {
			uri = "UNKNOWN"
		}
		start := f.Line
		if start <= 0 {
			start = 1
		}
		results = append(results, Result{
			RuleID: f.RuleID,
			Level:  sevToLevel(f.Severity),
			Message: Message{
				Text: strings.TrimSpace(f.Category + ": " + f.Risk),
			},
			Locations: []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: uri},
						Region:           Region{StartLine: start},
					},
				},
			},
		})
	}

	log := Log{
		Version: "2.1.0",
		// RTM schema recognized by GitHub and VS Code
		Schema: "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{Name: toolName, Version: toolVersion},
				},
				Results: results,
			},
		},
	}
	return json.MarshalIndent(log, "", "  ")
}

func SortFindings(fs []model.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].File == fs[j].File {
			if fs[i].Line == fs[j].Line {
				return fs[i].RuleID < fs[j].RuleID
			}
			return fs[i].Line < fs[j].Line
		}
		return fs[i].File < fs[j].File
	})
}

func sevToLevel(s model.Severity) string {
	switch s {
	case model.SevHigh:
		return "error"
	case model.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "./")
}
