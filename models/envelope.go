package models

import "encoding/json"

// Event type discriminants carried by the envelope.
const (
	EventTrade      = "trade"
	EventOrderbook  = "orderbook"
	EventSignal     = "signal"
	EventMetrics    = "metrics"
	EventConnection = "connection"
	EventInit       = "init"
	EventHeartbeat  = "heartbeat"
)

// Envelope is the outer {type, data} wrapper around every streamed event.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Request types the client may send over the stream to ask for an on-demand
// push of the current signal or metrics.
const (
	RequestSignal  = "get_signal"
	RequestMetrics = "get_metrics"
)

// Request is a client-to-server stream frame.
type Request struct {
	Type string `json:"type"`
}
