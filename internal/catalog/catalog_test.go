package catalog

import (
	"os"
	"testing"

	"github.com/ferrous-ci/rustgate/internal/model"
)

func TestDefaultOrderIsStable(t *testing.T) {
	want := []string{
		"unwrap-overuse",
		"unwrap-or-default",
		"unwrap-or",
		"discarded-result",
		"assert-in-prod",
		"expect-no-context",
		"panic-no-context",
		"swallowed-ok",
		"parse-unwrap",
		"unchecked-index",
		"todo-in-prod",
	}

	cat, err := New(Default())
	if err != nil {
		t.Fatal(err)
	}
	rules := cat.Rules()
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, id := range want {
		if rules[i].ID != id {
			t.Errorf("rule %d: expected %q, got %q", i, id, rules[i].ID)
		}
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New([]Rule{{ID: "broken", Pattern: "(", Severity: model.SevHigh}})
	if err == nil {
		t.Fatal("expected an error for a malformed pattern")
	}
}

func TestNewRejectsBadExclude(t *testing.T) {
	_, err := New([]Rule{{ID: "broken", Pattern: "x", Exclude: "[", Severity: model.SevHigh}})
	if err == nil {
		t.Fatal("expected an error for a malformed exclude pattern")
	}
}

func TestNewRejectsUnknownSeverity(t *testing.T) {
	_, err := New([]Rule{{ID: "odd", Pattern: "x", Severity: "CRITICAL"}})
	if err == nil {
		t.Fatal("expected an error for an unknown severity")
	}
}

func TestRuleMatches(t *testing.T) {
	cat, err := New(Default())
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]Rule{}
	for _, r := range cat.Rules() {
		byID[r.ID] = r
	}

	tests := []struct {
		name   string
		ruleID string
		line   string
		want   bool
	}{
		{"unwrap_call", "unwrap-overuse", `let user_id = get_user_id().unwrap();`, true},
		{"unwrap_test_comment", "unwrap-overuse", `let x = f().unwrap() // test helper`, false},
		{"unwrap_or_default", "unwrap-or-default", `let balance = query().unwrap_or_default();`, true},
		{"unwrap_or", "unwrap-or", `let price = fetch_price().unwrap_or(old_price);`, true},
		{"discarded_result", "discarded-result", `let _ = commit(tx);`, true},
		{"assert_macro", "assert-in-prod", `assert!(amount > 0, "must be positive")`, true},
		{"short_expect", "expect-no-context", `let cfg = load().expect("failed");`, true},
		{"long_expect", "expect-no-context", `let cfg = load().expect("Failed to load config from CONFIG_PATH env var");`, false},
		{"short_panic", "panic-no-context", `panic!("Invalid state");`, true},
		{"trailing_ok", "swallowed-ok", `some_operation().ok();`, true},
		{"parse_unwrap", "parse-unwrap", `let port: u16 = s.parse().unwrap();`, true},
		{"index_read", "unchecked-index", `let item = items[0];`, true},
		{"index_assign", "unchecked-index", `items[0] = item;`, false},
		{"uppercase_index_gap", "unchecked-index", `let item = ITEMS[0];`, false},
		{"todo_macro", "todo-in-prod", `todo!()`, true},
		{"unimplemented_macro", "todo-in-prod", `unimplemented!("later")`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := byID[tt.ruleID]
			if !ok {
				t.Fatalf("no rule %q", tt.ruleID)
			}
			if got := rule.Matches(tt.line); got != tt.want {
				t.Errorf("rule %q on %q: expected %v, got %v", tt.ruleID, tt.line, tt.want, got)
			}
		})
	}
}

func TestSignatureOrder(t *testing.T) {
	sigs := FailureSignatures()
	if len(sigs) == 0 {
		t.Fatal("signature list is empty")
	}
	if sigs[0].Needle != "assertion failed" {
		t.Errorf("first signature should be assertion failed, got %q", sigs[0].Needle)
	}
	for _, sig := range sigs {
		if sig.Needle == "attempt to add with overflow" {
			if !sig.Diagnosis.Fixable || sig.Diagnosis.Category != "arithmetic overflow" {
				t.Errorf("overflow signature misconfigured: %+v", sig.Diagnosis)
			}
			return
		}
	}
	t.Error("overflow signature missing")
}

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "rules-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestLoadAppendsOverlay(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - id: clone-in-loop
    pattern: '\.clone\(\)'
    severity: LOW
    category: clone in hot path
    risk: extra allocation per iteration
    suggestion: borrow instead of cloning
`)
	cat, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	rules := cat.Rules()
	last := rules[len(rules)-1]
	if last.ID != "clone-in-loop" || last.Severity != model.SevLow {
		t.Errorf("overlay rule not appended: %+v", last)
	}
	if len(rules) != len(Default())+1 {
		t.Errorf("expected builtin rules plus one, got %d", len(rules))
	}
}

func TestLoadReplaceDropsBuiltins(t *testing.T) {
	path := writeRuleFile(t, `
replace: true
rules:
  - id: only-rule
    pattern: 'x'
    severity: HIGH
`)
	cat, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Rules()) != 1 {
		t.Errorf("expected exactly one rule, got %d", len(cat.Rules()))
	}
}

func TestLoadFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_pattern", "rules:\n  - id: broken\n    pattern: '('\n    severity: HIGH\n"},
		{"bad_severity", "rules:\n  - id: odd\n    pattern: 'x'\n    severity: WHATEVER\n"},
		{"missing_id", "rules:\n  - pattern: 'x'\n    severity: HIGH\n"},
		{"bad_yaml", ": : :\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRuleFile(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected a construction error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/rules.yaml"); err == nil {
		t.Error("expected an error for a missing rule file")
	}
}

func TestLoadEmptyPathUsesBuiltins(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Rules()) != len(Default()) {
		t.Errorf("expected the builtin catalog, got %d rules", len(cat.Rules()))
	}
}
