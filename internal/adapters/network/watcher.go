package network

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// ChainIDReader is anything that reports the chain it is connected to
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Watcher polls the wallet's endpoint and publishes active network switches
type Watcher struct {
	feed     usecase.NetworkFeed
	interval time.Duration
	log      *slog.Logger
}

// NewWatcher creates a watcher publishing to feed
func NewWatcher(cfg *config.RuntimeConfig, feed usecase.NetworkFeed, log *slog.Logger) *Watcher {
	interval := cfg.Connect.PollInterval
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &Watcher{
		feed:     feed,
		interval: interval,
		log:      log.With("component", "NetworkWatcher"),
	}
}

// Watch blocks until ctx is done, publishing a change whenever source reports
// a chain other than the last one seen. Read errors are logged and retried on
// the next tick.
func (w *Watcher) Watch(ctx context.Context, source ChainIDReader, current uint64) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		id, err := source.ChainID(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Debug("failed to read chain ID", "error", err)
			continue
		}
		if next := id.Uint64(); next != current {
			w.log.Info("active network changed", "from", current, "to", next)
			w.feed.Publish(domain.NetworkChange{Previous: current, ChainID: next})
			current = next
		}
	}
}
