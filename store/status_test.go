package store

import (
	"testing"

	"signalflow/models"
)

func TestStatusLastWriterWins(t *testing.T) {
	cache := NewStatusCache()

	cache.ApplyStream(models.ConnectionEvent{Connected: true, Symbol: "BTCUSDT"})
	status, ok := cache.Snapshot()
	if !ok || !status.IsStreaming {
		t.Fatalf("stream event not applied: %#v", status)
	}

	// a later (possibly stale) poll fully overwrites the stream write
	cache.ApplyPoll(models.ConnectionStatus{IsStreaming: false, ActiveSource: "binance"})
	status, _ = cache.Snapshot()
	if status.IsStreaming {
		t.Fatal("poll write should overwrite stream write")
	}
	if origin, _ := cache.LastWrite(); origin != OriginPoll {
		t.Errorf("unexpected last write origin: %s", origin)
	}
}

func TestStatusStreamWritesPartialFields(t *testing.T) {
	cache := NewStatusCache()

	cache.ApplyPoll(models.ConnectionStatus{
		IsStreaming:      true,
		BinanceConnected: true,
		ActiveSymbol:     "BTCUSDT",
		ActiveSource:     "binance",
	})

	cache.ApplyStream(models.ConnectionEvent{Connected: false, Symbol: "ETHUSDT"})

	status, _ := cache.Snapshot()
	if status.IsStreaming {
		t.Error("stream event should clear streaming flag")
	}
	if status.ActiveSymbol != "ETHUSDT" {
		t.Errorf("stream event should update symbol, got %s", status.ActiveSymbol)
	}
	if !status.BinanceConnected || status.ActiveSource != "binance" {
		t.Errorf("stream event should not touch poll-only fields: %#v", status)
	}
	if origin, _ := cache.LastWrite(); origin != OriginStream {
		t.Errorf("unexpected last write origin: %s", origin)
	}
}

func TestStatusApplyInit(t *testing.T) {
	cache := NewStatusCache()

	cache.ApplyInit(models.InitPayload{IsStreaming: true, ActiveSymbol: "SOLUSDT"})

	status, ok := cache.Snapshot()
	if !ok {
		t.Fatal("init should populate the cache")
	}
	if !status.IsStreaming || status.ActiveSymbol != "SOLUSDT" {
		t.Fatalf("init not applied: %#v", status)
	}
}

func TestStatusEmptyUntilFirstWrite(t *testing.T) {
	cache := NewStatusCache()
	if _, ok := cache.Snapshot(); ok {
		t.Fatal("cache should report unpopulated before any write")
	}
}
