package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	appconfig "signalflow/config"
	"signalflow/logger"
	"signalflow/models"
	"signalflow/store"
	"signalflow/stream"
)

// Dispatcher drains the raw frame channel, decodes each envelope and applies
// it to the caches. Malformed frames are dropped and logged; they never
// terminate the pipeline.
type Dispatcher struct {
	config  *appconfig.Config
	rawChan <-chan models.RawFrame
	state   *store.State
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
	mu      sync.RWMutex
	running bool
	log     *logger.Log

	framesProcessed int64
	framesDropped   int64
}

func NewDispatcher(cfg *appconfig.Config, rawChan <-chan models.RawFrame, state *store.State) *Dispatcher {
	return &Dispatcher{
		config:  cfg,
		rawChan: rawChan,
		state:   state,
		wg:      &sync.WaitGroup{},
		log:     logger.GetLogger(),
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("dispatcher already running")
	}
	d.running = true
	// Own a derived context so Stop works without the caller cancelling first.
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	log := d.log.WithComponent("dispatcher").WithFields(logger.Fields{"operation": "start"})
	log.Info("starting dispatcher")

	// Events within the stream must be applied in arrival order, so exactly
	// one worker drains the channel.
	d.wg.Add(1)
	go d.worker()

	go d.metricsReporter(d.ctx)

	log.Info("dispatcher started successfully")
	return nil
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.running = false
	cancel := d.cancel
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	d.log.WithComponent("dispatcher").Info("stopping dispatcher")
	d.wg.Wait()
	d.log.WithComponent("dispatcher").Info("dispatcher stopped")
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	log := d.log.WithComponent("dispatcher").WithFields(logger.Fields{"worker": "dispatch"})

	for {
		select {
		case <-d.ctx.Done():
			log.Info("worker stopped due to context cancellation")
			return
		case frame, ok := <-d.rawChan:
			if !ok {
				log.Info("raw channel closed, worker stopping")
				return
			}
			d.processFrame(frame)
		}
	}
}

func (d *Dispatcher) processFrame(frame models.RawFrame) {
	log := d.log.WithComponent("dispatcher")

	evt, err := stream.DecodeEnvelope(frame.Data)
	if err != nil {
		atomic.AddInt64(&d.framesDropped, 1)
		logger.IncrementFrameDropped()
		if errors.Is(err, stream.ErrUnknownEventType) {
			log.WithError(err).Debug("ignoring unknown event type")
		} else {
			log.WithError(err).Warn("dropping malformed frame")
		}
		return
	}

	switch evt.Type {
	case models.EventTrade:
		// direction compares against the previous trade before the tape moves
		d.state.Direction.Observe(evt.Trade.Price)
		d.state.Tape.Push(*evt.Trade)

	case models.EventOrderbook:
		d.state.Book.Replace(*evt.OrderBook)

	case models.EventSignal:
		d.state.Signal.Replace(*evt.Signal)

	case models.EventMetrics:
		d.state.Metrics.Replace(*evt.Metrics)

	case models.EventConnection:
		d.state.Status.ApplyStream(*evt.Connection)

	case models.EventInit:
		d.state.Status.ApplyInit(*evt.Init)
		if !evt.Init.Metrics.IsZero() {
			d.state.Metrics.Replace(evt.Init.Metrics)
		}

	case models.EventHeartbeat:
		log.Debug("heartbeat received")
	}

	atomic.AddInt64(&d.framesProcessed, 1)
}

func (d *Dispatcher) metricsReporter(ctx context.Context) {
	ticker := time.NewTicker(d.config.Metrics.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.reportMetrics()
		}
	}
}

func (d *Dispatcher) reportMetrics() {
	framesProcessed := atomic.LoadInt64(&d.framesProcessed)
	framesDropped := atomic.LoadInt64(&d.framesDropped)

	dropRate := float64(0)
	if framesProcessed+framesDropped > 0 {
		dropRate = float64(framesDropped) / float64(framesProcessed+framesDropped)
	}

	d.log.LogMetric("dispatcher", "frames_processed", framesProcessed, "counter", logger.Fields{})
	d.log.LogMetric("dispatcher", "frames_dropped", framesDropped, "counter", logger.Fields{})
	d.log.LogMetric("dispatcher", "frame_drop_rate", dropRate, "gauge", logger.Fields{})

	d.log.WithComponent("dispatcher").WithFields(logger.Fields{
		"frames_processed": framesProcessed,
		"frames_dropped":   framesDropped,
		"frame_drop_rate":  dropRate,
		"raw_channel_len":  len(d.rawChan),
		"raw_channel_cap":  cap(d.rawChan),
		"tape_len":         d.state.Tape.Len(),
	}).Info("dispatcher metrics")
}
