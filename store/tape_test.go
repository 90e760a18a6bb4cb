package store

import (
	"testing"

	"signalflow/models"
)

func TestTradeTapeBounded(t *testing.T) {
	tape := NewTradeTape(50)
	for i := 0; i < 60; i++ {
		tape.Push(models.Trade{Price: float64(i), Side: models.SideBuy})
	}

	snapshot := tape.Snapshot()
	if len(snapshot) != 50 {
		t.Fatalf("expected 50 trades in tape, got %d", len(snapshot))
	}
	if snapshot[0].Price != 59 {
		t.Errorf("newest trade should be first, got price %v", snapshot[0].Price)
	}
	if snapshot[49].Price != 10 {
		t.Errorf("oldest retained trade should be 10, got %v", snapshot[49].Price)
	}
}

func TestTradeTapeUnderCapacity(t *testing.T) {
	tape := NewTradeTape(50)
	for i := 0; i < 3; i++ {
		tape.Push(models.Trade{Price: float64(i)})
	}

	if tape.Len() != 3 {
		t.Fatalf("expected 3 trades, got %d", tape.Len())
	}

	snapshot := tape.Snapshot()
	if snapshot[0].Price != 2 || snapshot[1].Price != 1 || snapshot[2].Price != 0 {
		t.Fatalf("unexpected tape order: %#v", snapshot)
	}
}

func TestTradeTapeSnapshotIsCopy(t *testing.T) {
	tape := NewTradeTape(10)
	tape.Push(models.Trade{Price: 100})

	snapshot := tape.Snapshot()
	snapshot[0].Price = 1

	if again := tape.Snapshot(); again[0].Price != 100 {
		t.Fatalf("snapshot mutation leaked into tape: %v", again[0].Price)
	}
}
