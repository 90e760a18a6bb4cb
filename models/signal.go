package models

// Signal types produced by the backend.
const (
	SignalBuy     = "buy"
	SignalSell    = "sell"
	SignalNoTrade = "no_trade"
)

// Signal is the current trading signal, replaced wholesale on each update.
// Probabilities are each in [0,1] but are not required to sum to 1.
type Signal struct {
	SignalType         string  `json:"signal_type"`
	HFSSScore          float64 `json:"hfss_score"`
	ProbabilityBuy     float64 `json:"probability_buy"`
	ProbabilitySell    float64 `json:"probability_sell"`
	ProbabilityNoTrade float64 `json:"probability_no_trade"`
	Confidence         float64 `json:"confidence"`
	Reason             string  `json:"reason"`
	PriceAtSignal      float64 `json:"price_at_signal"`
	Timestamp          string  `json:"timestamp,omitempty"`
}
