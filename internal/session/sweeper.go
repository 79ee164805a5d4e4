package session

import (
	"context"
	"time"

	"github.com/lenilani/lenilani-ai/pkg/logging"
)

// Sweeper periodically evicts idle sessions from the store.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	logger   *logging.Logger
}

// NewSweeper creates a sweeper that evicts sessions idle longer than ttl,
// checking every interval.
func NewSweeper(store Store, ttl, interval time.Duration, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{store: store, ttl: ttl, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sw.sweepOnce(ctx)
		}
	}
}

func (sw *Sweeper) sweepOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-sw.ttl)
	evicted, err := sw.store.Sweep(ctx, cutoff)
	if err != nil {
		sw.logger.Error("session sweep failed", "error", err)
		return
	}
	if evicted > 0 {
		sw.logger.Info("session sweep complete", "evicted", evicted)
	}
}
