package store

// State aggregates all bounded caches owned by one subsystem instance. All
// entities start empty and are populated asynchronously as stream events and
// poll responses arrive; consumers read through the caches only and never
// touch the transport.
type State struct {
	Tape      *TradeTape
	Book      *OrderBookCache
	Signal    *SignalCache
	Metrics   *MetricsCache
	Status    *StatusCache
	Direction *DirectionTracker
}

func NewState(tapeCapacity int) *State {
	return &State{
		Tape:      NewTradeTape(tapeCapacity),
		Book:      NewOrderBookCache(),
		Signal:    NewSignalCache(),
		Metrics:   NewMetricsCache(),
		Status:    NewStatusCache(),
		Direction: NewDirectionTracker(),
	}
}
