package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input is what every alert rule sees: raw lines plus classified counts.
type Input struct {
	Lines  []string
	Counts LevelCounts
}

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered bool
	Alert     Alert
}

// Rule evaluates one alert condition.
type Rule func(in Input) RuleResult

// DefaultRules is the built-in catalog, in emission order.
func DefaultRules() []Rule {
	return []Rule{
		DatabaseRule,
		TimeoutRule,
		HighErrorRateRule,
	}
}

// ---------- RULES ----------

// Repeated database mentions point at a failing datastore.
func DatabaseRule(in Input) RuleResult {
	if CountContaining(in.Lines, "database") >= 2 {
		return RuleResult{
			Triggered: true,
			Alert: Alert{
				Title:  "Database connection failures detected",
				Action: "Check DB connectivity, credentials, and connection pool",
			},
		}
	}
	return RuleResult{}
}

// Several timeouts in one batch indicate a slow backend.
func TimeoutRule(in Input) RuleResult {
	if CountContaining(in.Lines, "timeout") >= 3 {
		return RuleResult{
			Triggered: true,
			Alert: Alert{
				Title:  "Request timeout spike detected",
				Action: "Inspect backend response time and thread usage",
			},
		}
	}
	return RuleResult{}
}

// More than 30% of classified lines at ERROR.
func HighErrorRateRule(in Input) RuleResult {
	if in.Counts.Total == 0 {
		return RuleResult{}
	}

	rate := float64(in.Counts.Error) / float64(in.Counts.Total)
	if rate > 0.3 {
		return RuleResult{
			Triggered: true,
			Alert: Alert{
				Title:  "High error rate detected",
				Action: "Immediate investigation required",
			},
		}
	}
	return RuleResult{}
}

// CountContaining returns how many lines contain keyword, ignoring case.
// Case is compared with Unicode simple folding, so "ſ" matches "s" and the
// Kelvin sign U+212A matches "k".
func CountContaining(lines []string, keyword string) int {
	n := 0
	for _, line := range lines {
		if containsFold(line, keyword) {
			n++
		}
	}
	return n
}

// containsFold reports whether substr is within s under simple case folding.
// Folded runes may differ in encoded length, so candidates are matched rune
// by rune from every rune boundary of s.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	for i := range s {
		if hasPrefixFold(s[i:], substr) {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	for _, want := range prefix {
		if s == "" {
			return false
		}
		got, size := utf8.DecodeRuneInString(s)
		if !equalFoldRune(got, want) {
			return false
		}
		s = s[size:]
	}
	return true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// CountContainingExact is the case-sensitive variant of CountContaining.
func CountContainingExact(lines []string, keyword string) int {
	n := 0
	for _, line := range lines {
		if strings.Contains(line, keyword) {
			n++
		}
	}
	return n
}
