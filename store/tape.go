package store

import (
	"sync"

	"signalflow/models"
)

// TradeTape retains a bounded sequence of the most recent trades, newest
// first. Once capacity is exceeded the oldest entries are silently discarded.
// It is safe for concurrent use.
type TradeTape struct {
	mu       sync.RWMutex
	items    []models.Trade
	capacity int
}

func NewTradeTape(capacity int) *TradeTape {
	if capacity <= 0 {
		capacity = 50
	}
	return &TradeTape{capacity: capacity}
}

// Push prepends the trade and truncates to capacity.
func (t *TradeTape) Push(trade models.Trade) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append([]models.Trade{trade}, t.items...)
	if len(t.items) > t.capacity {
		t.items = t.items[:t.capacity]
	}
}

// Snapshot returns a copy of the full tape, newest first.
func (t *TradeTape) Snapshot() []models.Trade {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Trade, len(t.items))
	copy(out, t.items)
	return out
}

func (t *TradeTape) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}
