package store

import (
	"sync"

	"signalflow/models"
)

// MetricsCache holds the current analytics aggregate as an opaque
// pass-through. Overwrite-only.
type MetricsCache struct {
	mu        sync.RWMutex
	metrics   models.Metrics
	populated bool
}

func NewMetricsCache() *MetricsCache {
	return &MetricsCache{}
}

// Replace overwrites the current metrics wholesale.
func (c *MetricsCache) Replace(metrics models.Metrics) {
	c.mu.Lock()
	c.metrics = metrics
	c.populated = true
	c.mu.Unlock()
}

// Snapshot returns the current metrics and whether any have been received.
func (c *MetricsCache) Snapshot() (models.Metrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics, c.populated
}
