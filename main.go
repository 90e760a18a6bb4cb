package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"signalflow/config"
	"signalflow/logger"
	"signalflow/models"
	"signalflow/poller"
	"signalflow/processor"
	"signalflow/store"
	"signalflow/stream"
	"signalflow/view"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Signalflow.Name,
		"version": cfg.Signalflow.Version,
	}).Info("starting signalflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.StartReport(ctx, log, cfg.Metrics.ReportInterval)

	wsURL, err := cfg.Server.WebsocketURL()
	if err != nil {
		log.WithError(err).Error("failed to derive stream URL")
		os.Exit(1)
	}

	state := store.NewState(cfg.Tape.Capacity)
	rawFrames := make(chan models.RawFrame, cfg.Stream.RawBuffer)

	manager := stream.NewManager(cfg, wsURL, rawFrames)
	dispatcher := processor.NewDispatcher(cfg, rawFrames, state)
	poll := poller.NewPoller(cfg, state)

	if err := dispatcher.Start(ctx); err != nil {
		log.WithError(err).Error("failed to start dispatcher")
		os.Exit(1)
	}
	if err := poll.Start(ctx); err != nil {
		log.WithError(err).Error("failed to start poller")
		os.Exit(1)
	}
	if err := manager.Start(); err != nil {
		// reconnect already scheduled; the poller covers the gap
		log.WithError(err).Warn("initial stream connect failed")
	}

	go summaryReporter(ctx, log, state, cfg.Metrics.ReportInterval)

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	log.Info("stopping stream manager")
	manager.Stop()

	log.Info("stopping poller")
	poll.Stop()

	log.Info("stopping dispatcher")
	dispatcher.Stop()

	log.Info("signalflow stopped")
}

// summaryReporter periodically logs a one-line projection of the current
// state for operational visibility.
func summaryReporter(ctx context.Context, log *logger.Log, state *store.State, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fields := logger.Fields{
				"tape_len":  state.Tape.Len(),
				"direction": view.DirectionArrow(state.Direction.Last()),
			}
			if status, ok := state.Status.Snapshot(); ok {
				fields["status"] = view.StatusLine(status)
			}
			if sig, ok := state.Signal.Snapshot(); ok {
				fields["signal"] = view.SignalSummary(sig)
			}
			if book, ok := state.Book.Snapshot(); ok {
				fields["mid_price"] = book.MidPrice
				fields["spread"] = book.Spread
			}
			log.WithComponent("summary").WithFields(fields).Info("state summary")
		}
	}
}
