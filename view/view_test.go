package view

import (
	"strings"
	"testing"

	"signalflow/models"
	"signalflow/store"
)

func TestTapeRows(t *testing.T) {
	trades := []models.Trade{
		{Side: models.SideBuy, Price: 50000.5, Quantity: 0.25, Timestamp: "12:00:01"},
		{Side: models.SideSell, Price: 49999, Quantity: 1, Timestamp: "12:00:00"},
	}

	rows := TapeRows(trades)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Price != "50000.50" || rows[0].Quantity != "0.2500" {
		t.Errorf("unexpected formatting: %#v", rows[0])
	}
	if rows[1].Side != models.SideSell || rows[1].Time != "12:00:00" {
		t.Errorf("unexpected row: %#v", rows[1])
	}
}

func TestBookRowsPairsByDepth(t *testing.T) {
	snapshot := models.OrderBookSnapshot{
		Bids: []models.OrderBookLevel{
			{Price: 100, Quantity: 2},
			{Price: 99, Quantity: 4},
		},
		Asks: []models.OrderBookLevel{
			{Price: 101, Quantity: 1},
		},
	}

	rows := BookRows(snapshot, func(q float64) float64 { return q * 25 })
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].BidPrice != "100.00" || rows[0].AskPrice != "101.00" {
		t.Errorf("unexpected first row: %#v", rows[0])
	}
	if rows[0].BidBar != 50 || rows[0].AskBar != 25 {
		t.Errorf("scale not applied: %#v", rows[0])
	}

	// the short side leaves empty cells at depth
	if rows[1].AskPrice != "" || rows[1].AskQuantity != "" {
		t.Errorf("missing ask level should render empty: %#v", rows[1])
	}
	if rows[1].BidPrice != "99.00" {
		t.Errorf("unexpected second bid: %#v", rows[1])
	}
}

func TestSignalSummary(t *testing.T) {
	line := SignalSummary(models.Signal{
		SignalType:    models.SignalBuy,
		HFSSScore:     0.8,
		Confidence:    0.9,
		PriceAtSignal: 50000,
		Reason:        "delta surge",
	})

	if !strings.HasPrefix(line, "BUY ") {
		t.Errorf("summary should lead with the upper-cased type: %s", line)
	}
	if !strings.Contains(line, "@ 50000.00") {
		t.Errorf("summary should carry the signal price: %s", line)
	}
	if !strings.Contains(line, "(delta surge)") {
		t.Errorf("summary should carry the reason: %s", line)
	}
}

func TestSignalSummaryWithoutReason(t *testing.T) {
	line := SignalSummary(models.Signal{SignalType: models.SignalNoTrade})
	if strings.Contains(line, "(") {
		t.Errorf("empty reason should not render parentheses: %s", line)
	}
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(models.ConnectionStatus{
		IsStreaming:      true,
		BinanceConnected: true,
		ActiveSymbol:     "BTCUSDT",
		ActiveSource:     "binance",
	})
	if line != "streaming symbol=BTCUSDT source=binance feeds=binance" {
		t.Errorf("unexpected status line: %s", line)
	}

	if got := StatusLine(models.ConnectionStatus{}); got != "idle" {
		t.Errorf("empty status should render idle, got %s", got)
	}
}

func TestDirectionArrow(t *testing.T) {
	cases := map[store.Direction]string{
		store.DirectionUp:   "▲",
		store.DirectionDown: "▼",
		store.DirectionNone: "·",
	}
	for d, want := range cases {
		if got := DirectionArrow(d); got != want {
			t.Errorf("DirectionArrow(%v) = %s, want %s", d, got, want)
		}
	}
}
