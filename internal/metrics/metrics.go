package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Analysis
	AnalysesTotal      MetricKey = "analyses_total"
	LinesTotal         MetricKey = "lines_total"
	LinesUnknownTotal  MetricKey = "lines_unknown_total"
	AlertsTotal        MetricKey = "alerts_total"
	HealthGreenTotal   MetricKey = "health_green_total"
	HealthAmberTotal   MetricKey = "health_amber_total"
	HealthRedTotal     MetricKey = "health_red_total"
	RuleFailuresTotal  MetricKey = "rule_failures_total"
	RequestsRejected   MetricKey = "requests_rejected_total"
	WatchEvaluations   MetricKey = "watch_evaluations_total"
	WatchLinesReceived MetricKey = "watch_lines_received_total"

	// Charts
	ChartsStoredTotal        MetricKey = "charts_stored_total"
	ChartsServedTotal        MetricKey = "charts_served_total"
	ChartsMissesTotal        MetricKey = "charts_misses_total"
	ChartsExpiredTotal       MetricKey = "charts_expired_total"
	ChartsLive               MetricKey = "charts_live"
	ChartRenderFailuresTotal MetricKey = "chart_render_failures_total"
	ChartCleanupRunsTotal    MetricKey = "chart_cleanup_runs_total"
	ChartCleanupRemovedTotal MetricKey = "chart_cleanup_removed_total"
)

// gauges are keys that go up and down; everything else is a counter.
var gauges = map[MetricKey]bool{
	ChartsLive: true,
}

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

// Get returns the current value of a single metric.
func (r *Registry) Get(key MetricKey) int64 {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if !ok {
		return 0
	}
	return atomic.LoadInt64(ptr)
}
