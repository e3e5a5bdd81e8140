package ttl

import (
	"context"
	"time"

	"loghealth/internal/logs"
	"loghealth/internal/metrics"
)

// Store is what the cleaner needs from the chart store.
type Store interface {
	RemoveExpired() int
}

// Cleaner sweeps expired charts out of the store on a fixed interval.
// The store itself only drops an expired chart when it is fetched.
type Cleaner struct {
	store    Store
	interval time.Duration
	logger   *logs.Logger
	metrics  *metrics.Registry
}

func NewCleaner(
	store Store,
	interval time.Duration,
	logger *logs.Logger,
	reg *metrics.Registry,
) *Cleaner {
	return &Cleaner{
		store:    store,
		interval: interval,
		logger:   logger,
		metrics:  reg,
	}
}

// Start blocks, sweeping every interval until ctx is cancelled.
// A non-positive interval disables sweeping.
func (c *Cleaner) Start(ctx context.Context) {
	if c.interval <= 0 {
		c.logger.Warnw("chart cleaner disabled", "interval", c.interval)
		return
	}

	c.logger.Debugw("chart cleaner started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-ctx.Done():
			c.logger.Debug("chart cleaner stopped")
			return
		}
	}
}

// sweep removes expired charts once and returns how many went.
func (c *Cleaner) sweep() int {
	c.metrics.Inc(metrics.ChartCleanupRunsTotal)

	removed := c.store.RemoveExpired()
	if removed == 0 {
		return 0
	}

	c.metrics.Add(metrics.ChartCleanupRemovedTotal, int64(removed))
	c.logger.Infow("chart cleaner removed expired charts", "removed", removed)
	return removed
}
