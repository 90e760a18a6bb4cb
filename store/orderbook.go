package store

import (
	"sync"

	"signalflow/models"
)

// OrderBookCache holds the latest order book snapshot. Each replacement is
// wholesale; nothing from the previous snapshot survives. The maximum level
// quantity across both sides is recomputed on every replacement and floored
// at 1 so bar scaling never divides by zero.
type OrderBookCache struct {
	mu          sync.RWMutex
	snapshot    models.OrderBookSnapshot
	maxQuantity float64
	populated   bool
}

func NewOrderBookCache() *OrderBookCache {
	return &OrderBookCache{maxQuantity: 1}
}

// Replace overwrites the current snapshot.
func (c *OrderBookCache) Replace(snapshot models.OrderBookSnapshot) {
	max := 0.0
	for _, level := range snapshot.Bids {
		if level.Quantity > max {
			max = level.Quantity
		}
	}
	for _, level := range snapshot.Asks {
		if level.Quantity > max {
			max = level.Quantity
		}
	}
	if max < 1 {
		max = 1
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.maxQuantity = max
	c.populated = true
	c.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot and whether one has been
// received yet.
func (c *OrderBookCache) Snapshot() (models.OrderBookSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.snapshot
	out.Bids = make([]models.OrderBookLevel, len(c.snapshot.Bids))
	copy(out.Bids, c.snapshot.Bids)
	out.Asks = make([]models.OrderBookLevel, len(c.snapshot.Asks))
	copy(out.Asks, c.snapshot.Asks)
	return out, c.populated
}

// MaxQuantity returns the derived bar-scaling divisor, always >= 1.
func (c *OrderBookCache) MaxQuantity() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxQuantity
}

// Scale converts a level quantity into a bar width percentage, capped at 100.
// The same scaling applies to both sides of the book.
func (c *OrderBookCache) Scale(quantity float64) float64 {
	c.mu.RLock()
	max := c.maxQuantity
	c.mu.RUnlock()

	pct := quantity / max * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
