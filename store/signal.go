package store

import (
	"sync"

	"signalflow/models"
)

// SignalCache holds the current trading signal. Overwrite-only; no history
// is retained by this subsystem.
type SignalCache struct {
	mu        sync.RWMutex
	signal    models.Signal
	populated bool
}

func NewSignalCache() *SignalCache {
	return &SignalCache{}
}

// Replace overwrites the current signal wholesale.
func (c *SignalCache) Replace(signal models.Signal) {
	c.mu.Lock()
	c.signal = signal
	c.populated = true
	c.mu.Unlock()
}

// Snapshot returns the current signal and whether one has been received yet.
func (c *SignalCache) Snapshot() (models.Signal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.signal, c.populated
}
