package models

// ConnectionStatus mirrors the backend's data-source status. Two producers
// write it: the polling fallback (full replacement) and stream "connection"
// events (streaming flag and symbol only).
type ConnectionStatus struct {
	IsStreaming        bool   `json:"is_streaming"`
	BinanceConnected   bool   `json:"binance_connected"`
	RithmicConnected   bool   `json:"rithmic_connected"`
	SimulatedConnected bool   `json:"simulated_connected"`
	ActiveSymbol       string `json:"active_symbol"`
	ActiveSource       string `json:"active_source"`
}

// ConnectionEvent is the payload of a stream "connection" envelope.
type ConnectionEvent struct {
	Connected bool   `json:"connected"`
	Symbol    string `json:"symbol"`
	Timestamp string `json:"timestamp"`
}

// InitPayload is pushed by the server right after the websocket is accepted
// and seeds status and metrics before any other event arrives.
type InitPayload struct {
	IsStreaming  bool    `json:"is_streaming"`
	ActiveSymbol string  `json:"active_symbol"`
	Metrics      Metrics `json:"metrics"`
}
