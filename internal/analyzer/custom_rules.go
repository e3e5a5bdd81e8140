package analyzer

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	apperrors "loghealth/pkg/errors"
)

// RuleDefinition is a user-supplied alert rule.
//
// Expression is an expr-lang boolean evaluated against RuleEnv, e.g.
//
//	Count("disk full") >= 1 && Error > 0
type RuleDefinition struct {
	ID         string `yaml:"id" json:"id"`
	Title      string `yaml:"title" json:"title"`
	Action     string `yaml:"action" json:"action"`
	Expression string `yaml:"expression" json:"expression"`
}

// RuleEnv is the environment a custom rule expression runs against.
type RuleEnv struct {
	Info    int
	Warn    int
	Error   int
	Total   int
	Lines   int
	Unknown int

	lines []string
}

func newRuleEnv(in Input) RuleEnv {
	return RuleEnv{
		Info:    in.Counts.Info,
		Warn:    in.Counts.Warn,
		Error:   in.Counts.Error,
		Total:   in.Counts.Total,
		Lines:   len(in.Lines),
		Unknown: len(in.Lines) - in.Counts.Total,
		lines:   in.Lines,
	}
}

// Count returns the number of lines containing keyword (case insensitive).
func (e RuleEnv) Count(keyword string) int {
	return CountContaining(e.lines, keyword)
}

// CountExact returns the number of lines containing keyword (case sensitive).
func (e RuleEnv) CountExact(keyword string) int {
	return CountContainingExact(e.lines, keyword)
}

// Ratio returns the share of classified lines at the given level.
// Zero when nothing was classified.
func (e RuleEnv) Ratio(level string) float64 {
	if e.Total == 0 {
		return 0
	}

	var n int
	switch Severity(strings.ToUpper(level)) {
	case SeverityInfo:
		n = e.Info
	case SeverityWarn:
		n = e.Warn
	case SeverityError:
		n = e.Error
	default:
		return 0
	}
	return float64(n) / float64(e.Total)
}

// CompiledRule is a RuleDefinition with its expression compiled.
type CompiledRule struct {
	Definition RuleDefinition
	program    *vm.Program
}

// CompileRules compiles every definition, failing on the first bad one.
func CompileRules(defs []RuleDefinition) ([]CompiledRule, error) {
	out := make([]CompiledRule, 0, len(defs))
	seen := make(map[string]bool, len(defs))

	for _, def := range defs {
		if def.ID == "" {
			return nil, apperrors.NewRuleError("<unnamed>", fmt.Errorf("missing id"))
		}
		if seen[def.ID] {
			return nil, apperrors.NewRuleError(def.ID, fmt.Errorf("duplicate id"))
		}
		seen[def.ID] = true

		if strings.TrimSpace(def.Title) == "" {
			return nil, apperrors.NewRuleError(def.ID, fmt.Errorf("missing title"))
		}
		if strings.TrimSpace(def.Expression) == "" {
			return nil, apperrors.NewRuleError(def.ID, fmt.Errorf("missing expression"))
		}

		program, err := expr.Compile(def.Expression, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, apperrors.NewRuleError(def.ID, err)
		}

		out = append(out, CompiledRule{Definition: def, program: program})
	}
	return out, nil
}

// Evaluate runs the rule against one analysis input.
func (r CompiledRule) Evaluate(in Input) (RuleResult, error) {
	output, err := expr.Run(r.program, newRuleEnv(in))
	if err != nil {
		return RuleResult{}, fmt.Errorf("rule %s: %w", r.Definition.ID, err)
	}

	matched, ok := output.(bool)
	if !ok || !matched {
		return RuleResult{}, nil
	}

	return RuleResult{
		Triggered: true,
		Alert: Alert{
			Title:  r.Definition.Title,
			Action: r.Definition.Action,
		},
	}, nil
}
