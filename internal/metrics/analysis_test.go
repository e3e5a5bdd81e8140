package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loghealth/internal/analyzer"
)

func TestRegistry_RecordReport(t *testing.T) {
	r := NewRegistry()

	r.RecordReport(analyzer.Analyze("ERROR database down\nERROR database gone\nINFO ok\nnoise"))
	r.RecordReport(analyzer.Analyze(""))

	assert.Equal(t, int64(2), r.Get(AnalysesTotal))
	assert.Equal(t, int64(4), r.Get(LinesTotal))
	assert.Equal(t, int64(1), r.Get(LinesUnknownTotal))
	assert.Equal(t, int64(2), r.Get(AlertsTotal), "database and error rate")
	assert.Equal(t, int64(2), r.Get(HealthGreenTotal))
	assert.Equal(t, int64(0), r.Get(HealthRedTotal))
	assert.Equal(t, int64(0), r.Get(RuleFailuresTotal))
}

func TestRegistry_RecordReport_HealthBuckets(t *testing.T) {
	r := NewRegistry()

	r.RecordReport(analyzer.Report{Summary: analyzer.Summary{Health: analyzer.StatusRed}, RuleFailures: 2})
	r.RecordReport(analyzer.Report{Summary: analyzer.Summary{Health: analyzer.StatusAmber}})

	assert.Equal(t, int64(1), r.Get(HealthRedTotal))
	assert.Equal(t, int64(1), r.Get(HealthAmberTotal))
	assert.Equal(t, int64(2), r.Get(RuleFailuresTotal))
}
