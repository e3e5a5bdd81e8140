package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "loghealth"

// Collector exposes a Registry to Prometheus.
//
// Descriptors are unchecked: keys are created lazily, so the set is only
// known at scrape time.
type Collector struct {
	registry *Registry
}

// NewCollector wraps reg as a prometheus.Collector.
func NewCollector(reg *Registry) *Collector {
	return &Collector{registry: reg}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, sample := range c.registry.Samples() {
		valueType := prometheus.CounterValue
		if sample.Gauge {
			valueType = prometheus.GaugeValue
		}

		desc := prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", string(sample.Key)),
			"loghealth metric "+string(sample.Key),
			nil, nil,
		)
		ch <- prometheus.MustNewConstMetric(desc, valueType, float64(sample.Value))
	}
}

// NewPrometheusRegistry returns a dedicated registry holding the collector
// plus the standard Go and process collectors.
func NewPrometheusRegistry(reg *Registry) *prometheus.Registry {
	pr := prometheus.NewRegistry()
	pr.MustRegister(
		NewCollector(reg),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return pr
}
