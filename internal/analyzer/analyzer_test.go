package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	report := Analyze("")

	assert.Equal(t, Summary{Health: StatusGreen}, report.Summary)
	assert.Empty(t, report.Alerts)
	assert.Empty(t, report.TopErrors)
	assert.Equal(t, 0, report.Lines)
	assert.Equal(t, []int{0, 0, 0}, report.Chart.Values)
}

func TestAnalyze_DatabaseOutage(t *testing.T) {
	report := Analyze("ERROR database down\nERROR database down\nINFO ok")

	assert.Equal(t, Summary{Total: 3, Info: 1, Warn: 0, Error: 2, Health: StatusGreen}, report.Summary)

	require.Len(t, report.Alerts, 2)
	assert.Equal(t, "Database connection failures detected", report.Alerts[0].Title)
	assert.Equal(t, "Check DB connectivity, credentials, and connection pool", report.Alerts[0].Action)
	assert.Equal(t, "High error rate detected", report.Alerts[1].Title)
	assert.Equal(t, "Immediate investigation required", report.Alerts[1].Action)

	assert.Equal(t, []TopError{{Message: "ERROR database down", Count: 2}}, report.TopErrors)
}

func TestAnalyze_SixErrorsIsRed(t *testing.T) {
	text := strings.Repeat("ERROR boom\n", 6)
	report := Analyze(text)

	assert.Equal(t, 6, report.Summary.Error)
	assert.Equal(t, StatusRed, report.Summary.Health)
}

func TestAnalyze_FourWarningsIsAmber(t *testing.T) {
	text := "WARN a\nWARN b\nWARN c\nWARN d"
	report := Analyze(text)

	assert.Equal(t, 4, report.Summary.Warn)
	assert.Equal(t, 0, report.Summary.Error)
	assert.Equal(t, StatusAmber, report.Summary.Health)
}

func TestAnalyze_TopErrorsRanking(t *testing.T) {
	text := strings.Join([]string{
		"ERROR first",
		"ERROR second",
		"ERROR repeated",
		"ERROR third",
		"ERROR repeated",
	}, "\n")

	report := Analyze(text)

	assert.Equal(t, []TopError{
		{Message: "ERROR repeated", Count: 2},
		{Message: "ERROR first", Count: 1},
		{Message: "ERROR second", Count: 1},
	}, report.TopErrors)
}

func TestAnalyze_TimeoutSpike(t *testing.T) {
	text := "INFO Timeout on /a\nINFO timeout on /b\nINFO TIMEOUT on /c"
	report := Analyze(text)

	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "Request timeout spike detected", report.Alerts[0].Title)
}

func TestAnalyze_AllAlertsInOrder(t *testing.T) {
	text := strings.Join([]string{
		"ERROR database timeout",
		"ERROR Database timeout",
		"ERROR request timeout",
	}, "\n")

	report := Analyze(text)

	require.Len(t, report.Alerts, 3)
	assert.Equal(t, "Database connection failures detected", report.Alerts[0].Title)
	assert.Equal(t, "Request timeout spike detected", report.Alerts[1].Title)
	assert.Equal(t, "High error rate detected", report.Alerts[2].Title)
}

func TestAnalyze_UnknownLinesStillFeedKeywordRules(t *testing.T) {
	// No level tokens at all: counts stay zero, keyword rules still scan raw text.
	text := "database unreachable\ndatabase unreachable\nwarn lowercase is not a level"
	report := Analyze(text)

	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, 3, report.Unknown)
	assert.Equal(t, StatusGreen, report.Summary.Health)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "Database connection failures detected", report.Alerts[0].Title)
}

func TestAnalyze_ErrorRateBoundary(t *testing.T) {
	// 3/10 is exactly 0.3 and must not fire.
	text := strings.Repeat("ERROR x\n", 3) + strings.Repeat("INFO y\n", 7)
	report := Analyze(text)

	assert.Equal(t, 10, report.Summary.Total)
	assert.Empty(t, report.Alerts)
}

func TestAnalyze_TotalInvariant(t *testing.T) {
	inputs := []string{
		"",
		"no levels here",
		"INFO a\nWARN b\nERROR c\nDEBUG d",
		"INFOWARNERROR\r\nERROR\rWARN",
		"\n\n\n",
	}

	for _, text := range inputs {
		r := Analyze(text)
		assert.Equal(t, r.Summary.Info+r.Summary.Warn+r.Summary.Error, r.Summary.Total, "input %q", text)
		assert.Equal(t, r.Lines, r.Summary.Total+r.Unknown, "input %q", text)
	}
}

func TestAnalyze_HealthMonotonicInErrors(t *testing.T) {
	base := "WARN a\nWARN b\nWARN c\nWARN d\n"
	prev := Analyze(base).Summary.Health

	for i := 1; i <= 8; i++ {
		text := base + strings.Repeat("ERROR e\n", i)
		health := Analyze(text).Summary.Health
		assert.False(t, prev.Worse(health), "health improved after adding error %d", i)
		prev = health
	}
	assert.Equal(t, StatusRed, prev)
}

func TestAnalyze_AlertRulesIndependent(t *testing.T) {
	dbOnly := "INFO database a\nINFO database b"
	both := dbOnly + "\nINFO timeout\nINFO timeout\nINFO timeout"

	assert.Equal(t, DatabaseRule(inputFor(dbOnly)), DatabaseRule(inputFor(both)))
	assert.Contains(t, Analyze(both).Alerts, Analyze(dbOnly).Alerts[0])
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := "ERROR a\nWARN b\nERROR a\nINFO database\nINFO database timeout"

	first := Analyze(text)
	second := Analyze(text)

	assert.Equal(t, first, second)
}

func TestAnalyzer_CustomRulesAppended(t *testing.T) {
	rules, err := CompileRules([]RuleDefinition{
		{ID: "disk", Title: "Disk full", Action: "Free space", Expression: `Count("disk full") >= 1`},
		{ID: "never", Title: "Never", Action: "-", Expression: `Lines > 1000`},
	})
	require.NoError(t, err)

	a := New(WithCustomRules(rules))
	report := a.Analyze("ERROR Disk Full on /var\nERROR database\nERROR database")

	require.Len(t, report.Alerts, 3)
	assert.Equal(t, "Database connection failures detected", report.Alerts[0].Title)
	assert.Equal(t, "High error rate detected", report.Alerts[1].Title)
	assert.Equal(t, Alert{Title: "Disk full", Action: "Free space"}, report.Alerts[2])
}

func inputFor(text string) Input {
	lines := SplitLines(text)
	return Input{Lines: lines, Counts: CountLevels(ClassifyAll(lines))}
}

func TestAnalyzer_FailingCustomRuleIsSkipped(t *testing.T) {
	rules, err := CompileRules([]RuleDefinition{
		{ID: "out-of-range", Title: "Broken", Action: "-", Expression: `[1, 2][Lines] > 0`},
		{ID: "any-error", Title: "Any error", Action: "Look", Expression: `Error > 0`},
	})
	require.NoError(t, err)

	a := New(WithCustomRules(rules))
	report := a.Analyze("ERROR a\nINFO b\nINFO c\nINFO d")

	assert.Equal(t, 1, report.RuleFailures)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "Any error", report.Alerts[0].Title)
}
