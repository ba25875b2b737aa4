package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ferrous-ci/rustgate/internal/model"
)

type ruleFile struct {
	// Replace drops the builtin rules instead of appending to them.
	Replace bool       `yaml:"replace"`
	Rules   []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	ID         string `yaml:"id"`
	Pattern    string `yaml:"pattern"`
	Exclude    string `yaml:"exclude"`
	Severity   string `yaml:"severity"`
	Category   string `yaml:"category"`
	Risk       string `yaml:"risk"`
	Suggestion string `yaml:"suggestion"`
	Example    string `yaml:"example"`
}

// Load builds a catalog from the builtin rules plus an optional YAML overlay.
// Any defect in the file (unreadable, bad YAML, bad pattern, bad severity)
// is returned as an error and must abort the run before scanning starts.
func Load(path string) (*Catalog, error) {
	rules := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rule file: %w", err)
		}
		var rf ruleFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse rule file %s: %w", path, err)
		}
		if rf.Replace {
			rules = nil
		}
		for _, yr := range rf.Rules {
			if yr.ID == "" || yr.Pattern == "" {
				return nil, fmt.Errorf("rule file %s: every rule needs an id and a pattern", path)
			}
			rules = append(rules, Rule{
				ID:         yr.ID,
				Pattern:    yr.Pattern,
				Exclude:    yr.Exclude,
				Severity:   model.Severity(yr.Severity),
				Category:   yr.Category,
				Risk:       yr.Risk,
				Suggestion: yr.Suggestion,
				Example:    yr.Example,
			})
		}
	}
	return New(rules)
}
