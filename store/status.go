package store

import (
	"sync"
	"time"

	"signalflow/models"
)

// Origin labels for the last status write.
const (
	OriginPoll   = "poll"
	OriginStream = "stream"
)

// StatusCache holds the connection status. Two uncoordinated producers write
// it: the polling fallback replaces the whole status, while stream
// "connection" events overwrite only the fields they carry. Whichever
// producer writes last determines the observed state; a stale poll arriving
// after a fresher stream event legitimately overwrites it. The cache stamps
// the origin and time of the last write so the overlap stays observable.
type StatusCache struct {
	mu        sync.RWMutex
	status    models.ConnectionStatus
	origin    string
	updated   time.Time
	populated bool
}

func NewStatusCache() *StatusCache {
	return &StatusCache{}
}

// ApplyPoll replaces the full status from a polling response.
func (c *StatusCache) ApplyPoll(status models.ConnectionStatus) {
	c.mu.Lock()
	c.status = status
	c.origin = OriginPoll
	c.updated = time.Now()
	c.populated = true
	c.mu.Unlock()
}

// ApplyStream overwrites the streaming flag and active symbol from a stream
// connection event, leaving the source-specific flags from the last poll
// untouched.
func (c *StatusCache) ApplyStream(evt models.ConnectionEvent) {
	c.mu.Lock()
	c.status.IsStreaming = evt.Connected
	c.status.ActiveSymbol = evt.Symbol
	c.origin = OriginStream
	c.updated = time.Now()
	c.populated = true
	c.mu.Unlock()
}

// ApplyInit seeds the streaming flag and symbol from the init envelope the
// server pushes right after the websocket is accepted.
func (c *StatusCache) ApplyInit(init models.InitPayload) {
	c.mu.Lock()
	c.status.IsStreaming = init.IsStreaming
	c.status.ActiveSymbol = init.ActiveSymbol
	c.origin = OriginStream
	c.updated = time.Now()
	c.populated = true
	c.mu.Unlock()
}

// Snapshot returns the current status and whether any write has happened yet.
func (c *StatusCache) Snapshot() (models.ConnectionStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status, c.populated
}

// LastWrite reports which producer wrote last and when.
func (c *StatusCache) LastWrite() (string, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.origin, c.updated
}
