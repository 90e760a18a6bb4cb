package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"signalflow/models"
)

// ErrUnknownEventType marks envelopes with a discriminant this client does
// not understand. They are dropped without noise so newer servers can add
// event kinds without breaking older clients.
var ErrUnknownEventType = errors.New("unknown event type")

// Event is one decoded stream envelope. Exactly one payload field is set,
// matching Type; heartbeat events carry no payload.
type Event struct {
	Type       string
	Trade      *models.Trade
	OrderBook  *models.OrderBookSnapshot
	Signal     *models.Signal
	Metrics    *models.Metrics
	Connection *models.ConnectionEvent
	Init       *models.InitPayload
}

// DecodeEnvelope parses one raw text frame into a typed event. Any malformed
// payload returns an error; the caller drops the frame and the stream stays
// alive.
func DecodeEnvelope(data []byte) (Event, error) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("malformed envelope: %w", err)
	}

	evt := Event{Type: env.Type}

	switch env.Type {
	case models.EventTrade:
		var trade models.Trade
		if err := json.Unmarshal(env.Data, &trade); err != nil {
			return Event{}, fmt.Errorf("malformed trade payload: %w", err)
		}
		if trade.Side != models.SideBuy && trade.Side != models.SideSell {
			return Event{}, fmt.Errorf("invalid trade side %q", trade.Side)
		}
		evt.Trade = &trade

	case models.EventOrderbook:
		var snapshot models.OrderBookSnapshot
		if err := json.Unmarshal(env.Data, &snapshot); err != nil {
			return Event{}, fmt.Errorf("malformed orderbook payload: %w", err)
		}
		evt.OrderBook = &snapshot

	case models.EventSignal:
		var signal models.Signal
		if err := json.Unmarshal(env.Data, &signal); err != nil {
			return Event{}, fmt.Errorf("malformed signal payload: %w", err)
		}
		evt.Signal = &signal

	case models.EventMetrics:
		var metrics models.Metrics
		if err := json.Unmarshal(env.Data, &metrics); err != nil {
			return Event{}, fmt.Errorf("malformed metrics payload: %w", err)
		}
		evt.Metrics = &metrics

	case models.EventConnection:
		var conn models.ConnectionEvent
		if err := json.Unmarshal(env.Data, &conn); err != nil {
			return Event{}, fmt.Errorf("malformed connection payload: %w", err)
		}
		evt.Connection = &conn

	case models.EventInit:
		var init models.InitPayload
		if err := json.Unmarshal(env.Data, &init); err != nil {
			return Event{}, fmt.Errorf("malformed init payload: %w", err)
		}
		evt.Init = &init

	case models.EventHeartbeat:
		// liveness only, no payload

	case "":
		return Event{}, fmt.Errorf("envelope without event type")

	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}

	return evt, nil
}
