package events

import (
	"log/slog"

	evbus "github.com/asaskevich/EventBus"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// TopicNetworkChanged carries domain.NetworkChange values
const TopicNetworkChanged = "network:changed"

// Feed is the in-process network change feed
type Feed struct {
	bus evbus.Bus
	log *slog.Logger
}

// NewFeed creates a feed on a fresh event bus
func NewFeed(log *slog.Logger) *Feed {
	return &Feed{
		bus: evbus.New(),
		log: log.With("component", "NetworkFeed"),
	}
}

// Publish delivers change to every subscriber before returning
func (f *Feed) Publish(change domain.NetworkChange) {
	f.log.Debug("publishing network change", "from", change.Previous, "to", change.ChainID)
	f.bus.Publish(TopicNetworkChanged, change)
}

// Subscribe registers fn for network changes. Handlers run synchronously on
// the publishing goroutine.
func (f *Feed) Subscribe(fn func(domain.NetworkChange)) (func(), error) {
	if err := f.bus.Subscribe(TopicNetworkChanged, fn); err != nil {
		return nil, err
	}
	return func() {
		if err := f.bus.Unsubscribe(TopicNetworkChanged, fn); err != nil {
			f.log.Debug("unsubscribe failed", "error", err)
		}
	}, nil
}

// Ensure the adapter implements the interface
var _ usecase.NetworkFeed = (*Feed)(nil)
