package catalog

import (
	"fmt"
	"regexp"

	"github.com/ferrous-ci/rustgate/internal/model"
)

// Rule binds a textual pattern to a severity and remediation guidance.
// Declaration order is significant: the scanner reports matches on a line in
// catalog order, and tests pin that order down.
//
// Go's regexp has no lookahead, so rules that need one carry a separate
// Exclude pattern: a line matches only if Pattern matches and Exclude does
// not. The patterns are intentionally loose (lowercase identifier classes,
// bounded literal lengths); they miss uppercase identifiers and
// multi-statement lines, and that gap is a known property of the catalog,
// not something to tighten here.
type Rule struct {
	ID         string
	Pattern    string
	Exclude    string
	Severity   model.Severity
	Category   string
	Risk       string
	Suggestion string
	Example    string

	re      *regexp.Regexp
	exclude *regexp.Regexp
}

// Matches reports whether the rule fires on the given line.
func (r *Rule) Matches(line string) bool {
	if !r.re.MatchString(line) {
		return false
	}
	if r.exclude != nil && r.exclude.MatchString(line) {
		return false
	}
	return true
}

// Catalog is an immutable, ordered rule registry. Build it once per
// invocation and pass it to the scanner; there is no mutation API.
type Catalog struct {
	rules []Rule
}

// New compiles every rule pattern. A malformed pattern is the one fatal
// error class in the whole tool: the caller is expected to abort before any
// scanning starts.
func New(rules []Rule) (*Catalog, error) {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: bad pattern %q: %w", r.ID, r.Pattern, err)
		}
		r.re = re
		if r.Exclude != "" {
			ex, err := regexp.Compile(r.Exclude)
			if err != nil {
				return nil, fmt.Errorf("rule %q: bad exclude %q: %w", r.ID, r.Exclude, err)
			}
			r.exclude = ex
		}
		switch r.Severity {
		case model.SevHigh, model.SevMedium, model.SevLow:
		default:
			return nil, fmt.Errorf("rule %q: unknown severity %q", r.ID, r.Severity)
		}
		compiled[i] = r
	}
	return &Catalog{rules: compiled}, nil
}

// Rules returns the full ordered rule list. Callers must treat it as
// read-only.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Default returns the builtin error-tolerance rules for Rust sources, in
// their fixed declaration order.
func Default() []Rule {
	return []Rule{
		{
			ID:         "unwrap-overuse",
			Pattern:    `\bunwrap\(\)`,
			Exclude:    `unwrap\(\)\s*//.*test`,
			Severity:   model.SevHigh,
			Category:   "unwrap() overuse",
			Risk:       "Panics in production with no graceful degradation",
			Suggestion: "Propagate the error with ? or add context via map_err",
			Example: `// ❌ risky
let user_id = get_user_id().unwrap();

// ✅ better
let user_id = get_user_id()
    .map_err(|e| Error::UserIdNotFound(e))?;`,
		},
		{
			ID:         "unwrap-or-default",
			Pattern:    `\.unwrap_or_default\(\)`,
			Severity:   model.SevHigh,
			Category:   "misleading unwrap_or_default()",
			Risk:       "Masks the real error and corrupts downstream business logic",
			Suggestion: "Amounts, balances and state fields must handle the error explicitly",
			Example: `// ❌ a failed balance query becomes 0
let balance = query_balance(user_id).unwrap_or_default();

// ✅ handle the error
let balance = query_balance(user_id)
    .map_err(|e| {
        log::error!("Failed to query balance for {:?}: {:?}", user_id, e);
        Error::BalanceQueryFailed
    })?;`,
		},
		{
			ID:         "unwrap-or",
			Pattern:    `\.unwrap_or\([^)]+\)`,
			Severity:   model.SevHigh,
			Category:   "misleading unwrap_or()",
			Risk:       "Network and config errors silently collapse into fallback values",
			Suggestion: "Propagate a Result, or fail loudly at startup",
			Example: `// ❌ a network error is hidden
let price = fetch_price().unwrap_or(old_price);

// ✅ fail loudly
let price = fetch_price().await
    .map_err(|e| Error::PriceFetchFailed { context: e })?;`,
		},
		{
			ID:         "discarded-result",
			Pattern:    `let\s+_\s*=\s*[a-z_]+\(.*\)[;$]`,
			Severity:   model.SevHigh,
			Category:   "let _ = discards a must_use value",
			Risk:       "Important return values are dropped, leaking resources or skipping errors",
			Suggestion: "Handle the return value explicitly",
			Example: `// ❌ the commit result is dropped
let _ = tx.commit();

// ✅ handle it
tx.commit()?;`,
		},
		{
			ID:         "assert-in-prod",
			Pattern:    `assert!\([^,)]+(,[^)]+)?\)`,
			Severity:   model.SevHigh,
			Category:   "assert! in production code",
			Risk:       "Compiled out in release builds; only panics in debug",
			Suggestion: "Check with an if and return an error, or use debug_assert!",
			Example: `// ❌ not checked in release mode
assert!(amount > 0, "Amount must be positive");

// ✅ always checked
if amount <= 0 {
    return Err(Error::InvalidAmount { amount });
}`,
		},
		{
			ID:         "expect-no-context",
			Pattern:    `\.expect\("[^"]{0,20}"\)`,
			Severity:   model.SevMedium,
			Category:   "expect() without useful context",
			Risk:       "The panic message carries no debugging context",
			Suggestion: "Include enough context: addresses, IDs, parameters",
			Example: `// ❌ says nothing
let config = load_config().expect("failed");

// ✅ says where to look
let config = load_config().expect(
    "Failed to load config from CONFIG_PATH env var"
);`,
		},
		{
			ID:         "panic-no-context",
			Pattern:    `panic!\("[^"]{0,30}"\)`,
			Severity:   model.SevMedium,
			Category:   "panic! without useful context",
			Risk:       "Incomplete panic message makes the incident hard to debug",
			Suggestion: "Include request parameters, timestamps and identifiers",
			Example: `// ❌ no context
panic!("Invalid state");

// ✅ debuggable
panic!(
    "Invalid state: expected Active, got {:?} for order {}",
    state, order_id
);`,
		},
		{
			ID:         "swallowed-ok",
			Pattern:    `\.ok\(\)\s*;`,
			Severity:   model.SevMedium,
			Category:   "ok() silently drops the error",
			Risk:       "The error disappears without a trace and resurfaces later",
			Suggestion: "At least log it, or use inspect_err",
			Example: `// ❌ the error is swallowed
let result = some_operation().ok();

// ✅ at least log it
if let Err(e) = some_operation() {
    log::warn!("Operation failed: {:?}", e);
}`,
		},
		{
			ID:         "parse-unwrap",
			Pattern:    `\.parse\(\)\.unwrap\(\)`,
			Severity:   model.SevMedium,
			Category:   "parse().unwrap() pattern",
			Risk:       "A malformed string panics the process",
			Suggestion: "Handle the parse error with a clear message",
			Example: `// ❌ panics on bad input
let port: u16 = env::var("PORT").unwrap().parse().unwrap();

// ✅ handled
let port: u16 = env::var("PORT")
    .map_err(|_| Error::ConfigMissing("PORT".into()))?
    .parse()
    .map_err(|e| Error::ConfigInvalid { key: "PORT", source: e })?;`,
		},
		{
			ID:         "unchecked-index",
			Pattern:    `[a-z_]+\[[0-9]+\]`,
			Exclude:    `[a-z_]+\[[0-9]+\]\s*=`,
			Severity:   model.SevMedium,
			Category:   "unchecked slice indexing",
			Risk:       "An out-of-bounds access panics",
			Suggestion: "Use .get(), .first() or .last()",
			Example: `// ❌ may panic
let item = items[0];

// ✅ safe access
let item = items.get(0).ok_or(Error::EmptyList)?;`,
		},
		{
			ID:         "todo-in-prod",
			Pattern:    `(todo|unimplemented)!\(`,
			Severity:   model.SevLow,
			Category:   "todo!() / unimplemented!() in production code",
			Risk:       "Unfinished code panics when reached",
			Suggestion: "Return an explicit error, or guard with #[cfg(test)]",
			Example: `// ❌ unfinished in production
fn complex_feature(input: Input) -> Output {
    todo!()
}

// ✅ explicit error
fn complex_feature(input: Input) -> Result<Output, Error> {
    Err(Error::NotImplemented { feature: "complex_feature".into() })
}`,
		},
	}
}
