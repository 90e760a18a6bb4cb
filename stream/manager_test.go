package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	appconfig "signalflow/config"
	"signalflow/models"
)

func testStreamConfig() *appconfig.Config {
	return &appconfig.Config{
		Server: appconfig.ServerConfig{HandshakeTimeout: time.Second},
		Stream: appconfig.StreamConfig{ReconnectDelay: 50 * time.Millisecond, RawBuffer: 16},
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestManagerForwardsFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"heartbeat"}`)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	raw := make(chan models.RawFrame, 16)
	m := NewManager(testStreamConfig(), wsURL(srv), raw)
	if err := m.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer m.Stop()

	select {
	case frame := <-raw:
		if string(frame.Data) != `{"type":"heartbeat"}` {
			t.Fatalf("unexpected frame: %s", frame.Data)
		}
		if frame.Received.IsZero() {
			t.Error("frame should carry a receive timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame forwarded within deadline")
	}
}

func TestManagerReconnectsOnceAfterClose(t *testing.T) {
	var dials int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			// server-initiated close triggers the client reconnect path
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	raw := make(chan models.RawFrame, 16)
	m := NewManager(testStreamConfig(), wsURL(srv), raw)
	if err := m.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer m.Stop()

	if !waitUntil(t, 2*time.Second, func() bool { return atomic.LoadInt32(&dials) >= 2 }) {
		t.Fatalf("no reconnect observed, %d dials", atomic.LoadInt32(&dials))
	}

	// one close event yields exactly one attempt; a healthy connection must
	// not spawn more
	time.Sleep(5 * testStreamConfig().Stream.ReconnectDelay)
	if got := atomic.LoadInt32(&dials); got != 2 {
		t.Fatalf("expected exactly 2 dials after one close, got %d", got)
	}
}

func TestManagerStopSuppressesReconnect(t *testing.T) {
	var dials int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	raw := make(chan models.RawFrame, 16)
	m := NewManager(testStreamConfig(), wsURL(srv), raw)
	if err := m.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	m.Stop()

	time.Sleep(5 * testStreamConfig().Stream.ReconnectDelay)
	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Fatalf("stop should suppress reconnects, got %d dials", got)
	}

	if err := m.Start(); err == nil {
		t.Fatal("start after stop should fail")
	}

	// second stop must be a no-op
	m.Stop()
}

func TestManagerStartSupersedes(t *testing.T) {
	var open int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&open, 1)
		defer atomic.AddInt32(&open, -1)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	raw := make(chan models.RawFrame, 16)
	m := NewManager(testStreamConfig(), wsURL(srv), raw)
	if err := m.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !waitUntil(t, 2*time.Second, func() bool { return atomic.LoadInt32(&open) == 1 }) {
		t.Fatal("first connection never opened")
	}

	if err := m.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	defer m.Stop()

	// the first transport is closed before the second dial, so the server
	// settles back to a single open connection
	if !waitUntil(t, 2*time.Second, func() bool { return atomic.LoadInt32(&open) == 1 }) {
		t.Fatalf("expected a single canonical connection, %d open", atomic.LoadInt32(&open))
	}
}

func TestManagerSupersededCloseDoesNotReconnect(t *testing.T) {
	var dials int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}))
	defer srv.Close()

	raw := make(chan models.RawFrame, 16)
	m := NewManager(testStreamConfig(), wsURL(srv), raw)
	if err := m.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	defer m.Stop()

	if !waitUntil(t, 2*time.Second, func() bool { return atomic.LoadInt32(&dials) == 2 }) {
		t.Fatalf("expected 2 dials after supersede, got %d", atomic.LoadInt32(&dials))
	}

	// the superseded pump winds down without touching the canonical
	// connection, so no reconnect cycle starts while the server stays healthy
	time.Sleep(10 * testStreamConfig().Stream.ReconnectDelay)
	if got := atomic.LoadInt32(&dials); got != 2 {
		t.Fatalf("supersede triggered spurious reconnects: %d dials (want 2)", got)
	}
}
