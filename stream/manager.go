package stream

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	appconfig "signalflow/config"
	"signalflow/logger"
	"signalflow/models"
)

// Manager owns the lifecycle of the single streaming connection: dial, read,
// detect failure, reconnect after a fixed delay, and clean shutdown. Exactly
// one transport is canonical at a time; Start supersedes and closes whatever
// occupied the slot before dialing.
type Manager struct {
	config  *appconfig.Config
	url     string
	rawChan chan<- models.RawFrame
	log     *logger.Log
	dialer  *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	pending *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewManager creates a manager for the given stream URL. Frames read from the
// transport are forwarded to rawChan in arrival order.
func NewManager(cfg *appconfig.Config, url string, rawChan chan<- models.RawFrame) *Manager {
	return &Manager{
		config:  cfg,
		url:     url,
		rawChan: rawChan,
		log:     logger.GetLogger(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.Server.HandshakeTimeout,
		},
	}
}

// Start dials the stream endpoint and begins forwarding frames. On dial
// failure a reconnect is scheduled; the error is returned for logging only
// and is never fatal.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return fmt.Errorf("stream manager already stopped")
	}
	if m.conn != nil {
		// supersede any previous transport before dialing
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	log := m.log.WithComponent("stream_manager").WithFields(logger.Fields{"url": m.url})

	conn, _, err := m.dialer.Dial(m.url, nil)
	if err != nil {
		log.WithError(err).Warn("failed to connect stream")
		m.scheduleReconnect()
		return fmt.Errorf("dial %s: %w", m.url, err)
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		conn.Close()
		return fmt.Errorf("stream manager stopped during dial")
	}
	m.conn = conn
	m.mu.Unlock()

	log.Info("stream connected")

	m.requestCurrentState(conn)

	m.wg.Add(1)
	go m.readPump(conn)

	return nil
}

// requestCurrentState asks the server to push the current signal and metrics
// immediately after connecting so the caches do not wait for the next
// organic update.
func (m *Manager) requestCurrentState(conn *websocket.Conn) {
	log := m.log.WithComponent("stream_manager")
	for _, typ := range []string{models.RequestSignal, models.RequestMetrics} {
		payload, err := json.Marshal(models.Request{Type: typ})
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.WithError(err).WithFields(logger.Fields{"request": typ}).Warn("failed to send state request")
			return
		}
	}
}

func (m *Manager) readPump(conn *websocket.Conn) {
	defer m.wg.Done()

	log := m.log.WithComponent("stream_manager").WithFields(logger.Fields{"worker": "read_pump"})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			// Read errors are only logged here; the close path owns recovery.
			log.WithError(err).Warn("stream read failed")
			m.handleClose(conn)
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		logger.IncrementFrameRead(len(data))

		frame := models.RawFrame{Data: data, Received: time.Now()}
		select {
		case m.rawChan <- frame:
		default:
			logger.IncrementFrameDropped()
			log.Warn("raw frame channel full, dropping frame")
		}
	}
}

// handleClose clears the connection slot and schedules the fixed-delay
// reconnect. The same path runs for read errors, server-initiated closes and
// local stops; only the canonical connection's close triggers recovery.
func (m *Manager) handleClose(conn *websocket.Conn) {
	m.mu.Lock()
	canonical := m.conn == conn
	if canonical {
		m.conn = nil
	}
	stopped := m.stopped
	m.mu.Unlock()

	conn.Close()

	// A superseded transport winding down must not disturb the live one.
	if stopped || !canonical {
		return
	}

	m.log.WithComponent("stream_manager").Warn("stream disconnected, scheduling reconnect")
	m.scheduleReconnect()
}

// scheduleReconnect arms a single fixed-delay reconnect timer. A pending
// timer is never duplicated, so one close event yields exactly one attempt.
func (m *Manager) scheduleReconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || m.pending != nil {
		return
	}

	logger.IncrementReconnect()
	m.pending = time.AfterFunc(m.config.Stream.ReconnectDelay, func() {
		m.mu.Lock()
		m.pending = nil
		stopped := m.stopped
		m.mu.Unlock()

		if stopped {
			return
		}
		if err := m.Start(); err != nil {
			// Start already scheduled the next attempt.
			m.log.WithComponent("stream_manager").WithError(err).Warn("reconnect attempt failed")
		}
	})
}

// Stop closes the active transport and suppresses any pending reconnect.
// Idempotent and safe to call multiple times.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	m.wg.Wait()

	m.log.WithComponent("stream_manager").Info("stream manager stopped")
}
