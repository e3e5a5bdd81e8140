package analyzer

import "go.uber.org/zap"

// TopErrorLimit caps the number of ranked error messages in a report.
const TopErrorLimit = 3

// Analyzer converts raw log text into a health report.
//
// It holds configuration only; Analyze keeps all working state local,
// so one Analyzer is safe to share across goroutines.
type Analyzer struct {
	rules  []Rule
	custom []CompiledRule
	logger *zap.SugaredLogger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCustomRules appends compiled rules after the built-in catalog.
func WithCustomRules(rules []CompiledRule) Option {
	return func(a *Analyzer) {
		a.custom = append(a.custom, rules...)
	}
}

// WithLogger sets the logger used to report custom rule failures.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a new analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		rules:  DefaultRules(),
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// Analyze runs the built-in pipeline with no custom rules.
func Analyze(text string) Report {
	return defaultAnalyzer.Analyze(text)
}

// Analyze classifies text and returns a fresh report. It never fails.
func (a *Analyzer) Analyze(text string) Report {
	lines := SplitLines(text)
	severities := ClassifyAll(lines)
	counts := CountLevels(severities)

	in := Input{Lines: lines, Counts: counts}

	/* ---------- ALERT RULES ---------- */

	alerts := []Alert{}
	failures := 0
	for _, rule := range a.rules {
		result := rule(in)
		if result.Triggered {
			alerts = append(alerts, result.Alert)
		}
	}

	for _, rule := range a.custom {
		result, err := rule.Evaluate(in)
		if err != nil {
			a.logger.Warnw("custom rule evaluation failed",
				"rule", rule.Definition.ID,
				"error", err,
			)
			failures++
			continue
		}
		if result.Triggered {
			alerts = append(alerts, result.Alert)
		}
	}

	/* ---------- SUMMARY ---------- */

	return Report{
		Summary: Summary{
			Total:  counts.Total,
			Info:   counts.Info,
			Warn:   counts.Warn,
			Error:  counts.Error,
			Health: DetermineHealth(counts),
		},
		Alerts:    alerts,
		TopErrors: TopErrors(lines, severities, TopErrorLimit),
		Chart:     Series(counts),
		Lines:     len(lines),
		Unknown:   len(lines) - counts.Total,

		RuleFailures: failures,
	}
}
