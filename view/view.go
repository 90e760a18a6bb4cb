package view

import (
	"fmt"
	"strconv"
	"strings"

	"signalflow/models"
	"signalflow/store"
)

// The view layer formats cache snapshots for display. It is stateless and
// read-only: it never mutates a cache and never touches the transport.

// TapeRow is one formatted trade tape line, newest first.
type TapeRow struct {
	Side     string
	Price    string
	Quantity string
	Time     string
}

// TapeRows formats the tape in the order it was snapshotted.
func TapeRows(trades []models.Trade) []TapeRow {
	rows := make([]TapeRow, len(trades))
	for i, trade := range trades {
		rows[i] = TapeRow{
			Side:     trade.Side,
			Price:    formatPrice(trade.Price),
			Quantity: formatQuantity(trade.Quantity),
			Time:     trade.Timestamp,
		}
	}
	return rows
}

// BookRow pairs the bid and ask level at the same depth. Empty strings mark
// a missing side; bars are percentages in [0,100] for width scaling.
type BookRow struct {
	BidPrice    string
	BidQuantity string
	BidBar      float64
	AskPrice    string
	AskQuantity string
	AskBar      float64
}

// BookRows builds the ladder from a snapshot. The scale function converts a
// level quantity to a bar percentage and applies identically to both sides.
func BookRows(snapshot models.OrderBookSnapshot, scale func(float64) float64) []BookRow {
	depth := len(snapshot.Bids)
	if len(snapshot.Asks) > depth {
		depth = len(snapshot.Asks)
	}

	rows := make([]BookRow, depth)
	for i := 0; i < depth; i++ {
		if i < len(snapshot.Bids) {
			rows[i].BidPrice = formatPrice(snapshot.Bids[i].Price)
			rows[i].BidQuantity = formatQuantity(snapshot.Bids[i].Quantity)
			rows[i].BidBar = scale(snapshot.Bids[i].Quantity)
		}
		if i < len(snapshot.Asks) {
			rows[i].AskPrice = formatPrice(snapshot.Asks[i].Price)
			rows[i].AskQuantity = formatQuantity(snapshot.Asks[i].Quantity)
			rows[i].AskBar = scale(snapshot.Asks[i].Quantity)
		}
	}
	return rows
}

// SignalSummary renders the current signal as a single line.
func SignalSummary(signal models.Signal) string {
	line := fmt.Sprintf("%s hfss=%.2f conf=%.2f buy/sell/none=%.2f/%.2f/%.2f @ %s",
		strings.ToUpper(signal.SignalType),
		signal.HFSSScore,
		signal.Confidence,
		signal.ProbabilityBuy,
		signal.ProbabilitySell,
		signal.ProbabilityNoTrade,
		formatPrice(signal.PriceAtSignal),
	)
	if signal.Reason != "" {
		line += " (" + signal.Reason + ")"
	}
	return line
}

// StatusLine renders the connection status as a single line.
func StatusLine(status models.ConnectionStatus) string {
	state := "idle"
	if status.IsStreaming {
		state = "streaming"
	}

	var feeds []string
	if status.BinanceConnected {
		feeds = append(feeds, "binance")
	}
	if status.RithmicConnected {
		feeds = append(feeds, "rithmic")
	}
	if status.SimulatedConnected {
		feeds = append(feeds, "simulated")
	}

	line := state
	if status.ActiveSymbol != "" {
		line += " symbol=" + status.ActiveSymbol
	}
	if status.ActiveSource != "" {
		line += " source=" + status.ActiveSource
	}
	if len(feeds) > 0 {
		line += " feeds=" + strings.Join(feeds, ",")
	}
	return line
}

// DirectionArrow renders the tick direction for the price readout.
func DirectionArrow(d store.Direction) string {
	switch d {
	case store.DirectionUp:
		return "▲"
	case store.DirectionDown:
		return "▼"
	default:
		return "·"
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
