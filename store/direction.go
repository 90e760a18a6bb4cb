package store

import "sync"

// Direction is the tri-state tick direction derived from consecutive trade
// prices.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// DirectionTracker compares each observed trade price against the previous
// one. A zero previous price (nothing observed yet) or an equal price yields
// DirectionNone. The new price is stored strictly after the comparison.
type DirectionTracker struct {
	mu            sync.Mutex
	lastPrice     float64
	lastDirection Direction
}

func NewDirectionTracker() *DirectionTracker {
	return &DirectionTracker{}
}

// Observe derives the direction for the new price and updates the tracker.
func (t *DirectionTracker) Observe(price float64) Direction {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir := DirectionNone
	switch {
	case t.lastPrice == 0:
		dir = DirectionNone
	case price > t.lastPrice:
		dir = DirectionUp
	case price < t.lastPrice:
		dir = DirectionDown
	}

	t.lastPrice = price
	t.lastDirection = dir
	return dir
}

// Last returns the most recently derived direction.
func (t *DirectionTracker) Last() Direction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastDirection
}
