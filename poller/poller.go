package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	appconfig "signalflow/config"
	"signalflow/logger"
	"signalflow/models"
	"signalflow/store"
)

// REST endpoints refreshed by the fallback, relative to the server base
// address.
const (
	signalPath  = "/api/signals/current"
	metricsPath = "/api/metrics"
	statusPath  = "/api/data-source/status"
)

// Poller is the polling fallback: a fixed-interval refresh that issues three
// concurrent read requests and writes results into the caches with the same
// wholesale-replace contract as the stream path. It runs from subsystem
// start, continues regardless of stream health, and is the only path that
// populates state before the first stream message or during outages.
type Poller struct {
	config  *appconfig.Config
	client  *http.Client
	state   *store.State
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
	mu      sync.RWMutex
	running bool
	log     *logger.Log
}

func NewPoller(cfg *appconfig.Config, state *store.State) *Poller {
	return &Poller{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Poll.Timeout,
		},
		state:   state,
		limiter: rate.NewLimiter(rate.Limit(cfg.Poll.RequestsPerSecond), cfg.Poll.BurstSize),
		wg:      &sync.WaitGroup{},
		log:     logger.GetLogger(),
	}
}

func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	// Own a derived context so Stop works without the caller cancelling first.
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	log := p.log.WithComponent("poller").WithFields(logger.Fields{
		"interval": p.config.Poll.Interval,
		"timeout":  p.config.Poll.Timeout,
	})
	log.Info("starting poller")

	p.wg.Add(1)
	go p.loop()

	log.Info("poller started successfully")
	return nil
}

func (p *Poller) Stop() {
	p.mu.Lock()
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	p.log.WithComponent("poller").Info("stopping poller")
	p.wg.Wait()
	p.log.WithComponent("poller").Info("poller stopped")
}

func (p *Poller) loop() {
	defer p.wg.Done()

	// An immediate first cycle seeds the caches before the stream delivers
	// anything.
	p.cycle()

	ticker := time.NewTicker(p.config.Poll.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.cycle()
		}
	}
}

// cycle issues the three reads concurrently. Failure of any one request
// leaves its cache untouched and never cancels the other two.
func (p *Poller) cycle() {
	log := p.log.WithComponent("poller").WithFields(logger.Fields{
		"cycle_id": uuid.New().String(),
	})

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		p.fetchSignal(log)
	}()
	go func() {
		defer wg.Done()
		p.fetchMetrics(log)
	}()
	go func() {
		defer wg.Done()
		p.fetchStatus(log)
	}()
	wg.Wait()

	logger.LogPerformanceEntry(log, "poller", "poll_cycle", time.Since(start), nil)
}

func (p *Poller) fetchSignal(log *logger.Entry) {
	var signal models.Signal
	if err := p.get(signalPath, &signal); err != nil {
		logger.RecordPollRequest("signal", true)
		log.WithError(err).Warn("signal poll failed, keeping last value")
		return
	}
	logger.RecordPollRequest("signal", false)
	p.state.Signal.Replace(signal)
}

func (p *Poller) fetchMetrics(log *logger.Entry) {
	var metrics models.Metrics
	if err := p.get(metricsPath, &metrics); err != nil {
		logger.RecordPollRequest("metrics", true)
		log.WithError(err).Warn("metrics poll failed, keeping last value")
		return
	}
	logger.RecordPollRequest("metrics", false)
	p.state.Metrics.Replace(metrics)
}

func (p *Poller) fetchStatus(log *logger.Entry) {
	var status models.ConnectionStatus
	if err := p.get(statusPath, &status); err != nil {
		logger.RecordPollRequest("status", true)
		log.WithError(err).Warn("status poll failed, keeping last value")
		return
	}
	logger.RecordPollRequest("status", false)
	p.state.Status.ApplyPoll(status)
}

func (p *Poller) get(path string, out any) error {
	if err := p.limiter.Wait(p.ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodGet, p.config.Server.Endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
