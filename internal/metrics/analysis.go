package metrics

import "loghealth/internal/analyzer"

var healthKeys = map[analyzer.HealthStatus]MetricKey{
	analyzer.StatusGreen: HealthGreenTotal,
	analyzer.StatusAmber: HealthAmberTotal,
	analyzer.StatusRed:   HealthRedTotal,
}

// RecordReport updates the analysis counters for one finished report.
func (r *Registry) RecordReport(report analyzer.Report) {
	r.Inc(AnalysesTotal)
	r.Add(LinesTotal, int64(report.Lines))
	r.Add(LinesUnknownTotal, int64(report.Unknown))
	r.Add(AlertsTotal, int64(len(report.Alerts)))

	if report.RuleFailures > 0 {
		r.Add(RuleFailuresTotal, int64(report.RuleFailures))
	}
	if key, ok := healthKeys[report.Summary.Health]; ok {
		r.Inc(key)
	}
}
