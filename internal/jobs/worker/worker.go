package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

// Purger removes observations older than the retention window.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type Config struct {
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"`
}

func DefaultConfig() Config {
	return Config{Interval: 10 * time.Minute, Retention: 72 * time.Hour}
}

// RetentionWorker is the only writer that deletes observations.
type RetentionWorker struct {
	log    *logger.Logger
	purger Purger
	cfg    Config
}

func NewRetentionWorker(baseLog *logger.Logger, purger Purger, cfg Config) *RetentionWorker {
	d := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if cfg.Retention <= 0 {
		cfg.Retention = d.Retention
	}
	return &RetentionWorker{
		log:    baseLog.With("component", "RetentionWorker"),
		purger: purger,
		cfg:    cfg,
	}
}

// Start runs one sweep immediately and then one per interval until ctx is done.
func (w *RetentionWorker) Start(ctx context.Context) {
	w.log.Info("Starting retention worker", "interval", w.cfg.Interval, "retention", w.cfg.Retention)
	go w.runLoop(ctx)
}

func (w *RetentionWorker) runLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Retention worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep never lets a failure or panic stop the loop.
func (w *RetentionWorker) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Retention sweep panic", "panic", fmt.Sprint(r))
		}
	}()
	n, err := w.purger.Purge(ctx, w.cfg.Retention)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("Retention sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		w.log.Debug("Retention sweep done", "purged", n)
	}
}
