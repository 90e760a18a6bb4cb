package stream

import (
	"errors"
	"testing"

	"signalflow/models"
)

func TestDecodeTrade(t *testing.T) {
	frame := `{"type":"trade","data":{"symbol":"BTCUSDT","price":50000.5,"quantity":0.25,"side":"buy","timestamp":"2024-01-01T00:00:00Z"}}`

	evt, err := DecodeEnvelope([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.Type != models.EventTrade || evt.Trade == nil {
		t.Fatalf("unexpected event: %#v", evt)
	}
	if evt.Trade.Price != 50000.5 || evt.Trade.Side != models.SideBuy {
		t.Errorf("unexpected trade payload: %#v", evt.Trade)
	}
}

func TestDecodeTradeRejectsBadSide(t *testing.T) {
	frame := `{"type":"trade","data":{"symbol":"BTCUSDT","price":1,"quantity":1,"side":"hold"}}`
	if _, err := DecodeEnvelope([]byte(frame)); err == nil {
		t.Fatal("expected error for invalid trade side")
	}
}

func TestDecodeOrderBook(t *testing.T) {
	frame := `{"type":"orderbook","data":{"symbol":"BTCUSDT","best_bid":50000,"best_ask":50001,"spread":1,"mid_price":50000.5,"bids":[{"price":50000,"quantity":2}],"asks":[{"price":50001,"quantity":3}]}}`

	evt, err := DecodeEnvelope([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.OrderBook == nil || len(evt.OrderBook.Bids) != 1 || len(evt.OrderBook.Asks) != 1 {
		t.Fatalf("unexpected orderbook payload: %#v", evt.OrderBook)
	}
}

func TestDecodeSignal(t *testing.T) {
	frame := `{"type":"signal","data":{"signal_type":"buy","hfss_score":0.8,"probability_buy":0.7,"probability_sell":0.1,"probability_no_trade":0.2,"confidence":0.9,"reason":"momentum","price_at_signal":50000}}`

	evt, err := DecodeEnvelope([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.Signal == nil || evt.Signal.SignalType != models.SignalBuy {
		t.Fatalf("unexpected signal payload: %#v", evt.Signal)
	}
}

func TestDecodeConnection(t *testing.T) {
	frame := `{"type":"connection","data":{"connected":true,"symbol":"BTCUSDT"}}`

	evt, err := DecodeEnvelope([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.Connection == nil || !evt.Connection.Connected {
		t.Fatalf("unexpected connection payload: %#v", evt.Connection)
	}
}

func TestDecodeInit(t *testing.T) {
	frame := `{"type":"init","data":{"is_streaming":true,"active_symbol":"BTCUSDT","metrics":{"delta":{"cvd":12.5}}}}`

	evt, err := DecodeEnvelope([]byte(frame))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.Init == nil || !evt.Init.IsStreaming {
		t.Fatalf("unexpected init payload: %#v", evt.Init)
	}
	if evt.Init.Metrics.IsZero() {
		t.Error("init metrics should carry the delta section")
	}
}

func TestDecodeHeartbeat(t *testing.T) {
	evt, err := DecodeEnvelope([]byte(`{"type":"heartbeat"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if evt.Type != models.EventHeartbeat {
		t.Fatalf("unexpected event type: %s", evt.Type)
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"type":"trade","data":"nope"}`,
		`{"data":{"price":1}}`,
		``,
	}
	for _, frame := range cases {
		if _, err := DecodeEnvelope([]byte(frame)); err == nil {
			t.Errorf("expected error for frame %q", frame)
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"type":"vwap_update","data":{}}`))
	if !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("expected ErrUnknownEventType, got %v", err)
	}
}
