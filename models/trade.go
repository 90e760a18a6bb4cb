package models

import "time"

// Trade sides as emitted by the stream.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Trade is a single tape entry. Trades are ephemeral: they only live in the
// bounded tape and have no identity beyond their position in it.
type Trade struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Side      string  `json:"side"`
	Timestamp string  `json:"timestamp"`
}

// RawFrame carries one unparsed text frame from the transport to the
// dispatcher.
type RawFrame struct {
	Data     []byte
	Received time.Time
}
