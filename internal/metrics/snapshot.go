package metrics

import (
	"sort"
	"sync/atomic"
)

// Snapshot returns a point-in-time copy of all metrics.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.counters))
	for key, ptr := range r.counters {
		out[string(key)] = atomic.LoadInt64(ptr)
	}
	return out
}

// Sample is one metric value with its kind.
type Sample struct {
	Key   MetricKey
	Value int64
	Gauge bool
}

// Samples returns the snapshot ordered by key.
func (r *Registry) Samples() []Sample {
	snap := r.Snapshot()

	out := make([]Sample, 0, len(snap))
	for k, v := range snap {
		key := MetricKey(k)
		out = append(out, Sample{Key: key, Value: v, Gauge: gauges[key]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
