package models

// OrderBookLevel is a single price level inside a snapshot. Levels are not
// independently addressable; they are replaced together with their snapshot.
type OrderBookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBookSnapshot is a complete replacement view of the book, never a diff.
// Bids are ordered descending by price, asks ascending.
type OrderBookSnapshot struct {
	Symbol    string           `json:"symbol"`
	BestBid   float64          `json:"best_bid"`
	BestAsk   float64          `json:"best_ask"`
	Spread    float64          `json:"spread"`
	MidPrice  float64          `json:"mid_price"`
	Bids      []OrderBookLevel `json:"bids"`
	Asks      []OrderBookLevel `json:"asks"`
	Timestamp string           `json:"timestamp"`
}
