package models

import "encoding/json"

// Metrics is the server's analytics aggregate. The sections are opaque to the
// client beyond their keys; they are passed through to the view untouched and
// replaced wholesale on each update.
type Metrics struct {
	Delta      json.RawMessage `json:"delta,omitempty"`
	Absorption json.RawMessage `json:"absorption,omitempty"`
	Iceberg    json.RawMessage `json:"iceberg,omitempty"`
	Momentum   json.RawMessage `json:"momentum,omitempty"`
	Structure  json.RawMessage `json:"structure,omitempty"`
	Liquidity  json.RawMessage `json:"liquidity,omitempty"`
}

// IsZero reports whether no section has been populated yet.
func (m Metrics) IsZero() bool {
	return m.Delta == nil && m.Absorption == nil && m.Iceberg == nil &&
		m.Momentum == nil && m.Structure == nil && m.Liquidity == nil
}
