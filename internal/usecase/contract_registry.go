package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-l2/internal/domain"
)

// connectTask is one in-flight connection attempt for a chain
type connectTask struct {
	chainID uint64
	gen     uint64
	done    chan struct{}
	err     error
}

// ContractRegistry maps (name, chain) to live contract bindings.
//
// It keeps one adaptor per chain. Pinned chains are connected once and never
// change; the active chain follows the user's network and is replaced on every
// switch, taking its bindings with it.
type ContractRegistry struct {
	manifest  ContractManifest
	connector NetworkConnector
	log       *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	gen      uint64
	adaptors map[uint64]*domain.Adaptor
	pinned   map[uint64]bool
	active   uint64
	bindings map[domain.ContractKey]*domain.Binding
	pending  map[uint64]*connectTask
	lastErr  map[uint64]error
	unsub    func()
}

// NewContractRegistry creates a registry and subscribes it to active network changes
func NewContractRegistry(
	manifest ContractManifest,
	connector NetworkConnector,
	feed NetworkFeed,
	log *slog.Logger,
) (*ContractRegistry, error) {
	r := &ContractRegistry{
		manifest:  manifest,
		connector: connector,
		log:       log.With("component", "ContractRegistry"),
	}
	r.init()

	if feed != nil {
		unsub, err := feed.Subscribe(r.HandleNetworkChange)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to network changes: %w", err)
		}
		r.unsub = unsub
	}
	return r, nil
}

func (r *ContractRegistry) init() {
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.gen++
	r.adaptors = make(map[uint64]*domain.Adaptor)
	r.pinned = make(map[uint64]bool)
	r.active = 0
	r.bindings = make(map[domain.ContractKey]*domain.Binding)
	r.pending = make(map[uint64]*connectTask)
	r.lastErr = make(map[uint64]error)
}

// Resolve returns the binding for name on chainID.
//
// A nil binding with a nil error means the chain is still connecting: a
// read-only connection has been queued and a later call will succeed.
// Unknown names and unreachable chains are reported as *domain.ConfigurationError.
func (r *ContractRegistry) Resolve(ctx context.Context, name string, chainID uint64) (*domain.Binding, error) {
	b, _, err := r.resolve(name, chainID)
	return b, err
}

// Await resolves name on chainID, waiting for a queued connection if needed
func (r *ContractRegistry) Await(ctx context.Context, name string, chainID uint64) (*domain.Binding, error) {
	b, task, err := r.resolve(name, chainID)
	if err != nil || b != nil {
		return b, err
	}

	select {
	case <-task.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if task.err != nil {
		return nil, task.err
	}

	b, _, err = r.resolve(name, chainID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		// the registry was reset or the chain switched away while we waited
		return nil, fmt.Errorf("%w: %s on chain %d", domain.ErrBindingNotReady, name, chainID)
	}
	return b, nil
}

func (r *ContractRegistry) resolve(name string, chainID uint64) (*domain.Binding, *connectTask, error) {
	entry, err := r.manifest.Lookup(name, chainID)
	if err != nil {
		return nil, nil, err
	}
	if !r.connector.Reachable(chainID) {
		return nil, nil, &domain.ConfigurationError{
			Name:    name,
			ChainID: chainID,
			Reason:  "chain is not reachable (no RPC endpoint configured)",
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	adaptor, ok := r.adaptors[chainID]
	if !ok {
		return nil, r.queueConnectLocked(chainID), nil
	}

	key := entry.Key()
	if b, ok := r.bindings[key]; ok && b.BoundTo(adaptor) {
		return b, nil, nil
	}

	b := domain.NewBinding(entry, adaptor)
	r.bindings[key] = b
	r.log.Debug("bound contract", "contract", key.String(), "address", entry.Address.Hex(), "capability", adaptor.Capability().String())
	return b, nil, nil
}

// queueConnectLocked starts a read-only connection for chainID unless one is running
func (r *ContractRegistry) queueConnectLocked(chainID uint64) *connectTask {
	if task, ok := r.pending[chainID]; ok {
		return task
	}

	task := &connectTask{chainID: chainID, gen: r.gen, done: make(chan struct{})}
	r.pending[chainID] = task
	ctx := r.ctx

	r.log.Debug("queued connection", "chain_id", chainID)
	go func() {
		adaptor, err := r.connector.Connect(ctx, chainID, domain.CapabilityReadOnly)

		r.mu.Lock()
		if task.gen == r.gen {
			delete(r.pending, chainID)
			if err != nil {
				r.lastErr[chainID] = err
				r.log.Warn("connection failed", "chain_id", chainID, "error", err)
			} else if _, exists := r.adaptors[chainID]; !exists {
				delete(r.lastErr, chainID)
				r.adaptors[chainID] = adaptor
				r.log.Debug("connected", "chain_id", chainID, "capability", adaptor.Capability().String())
			}
		}
		task.err = err
		r.mu.Unlock()
		close(task.done)
	}()
	return task
}

// ConnectPinned connects chainID once, read-only, for the life of the registry.
// Calling it again for a connected pinned chain does nothing.
func (r *ContractRegistry) ConnectPinned(ctx context.Context, chainID uint64) error {
	if !r.connector.Reachable(chainID) {
		return &domain.ConfigurationError{ChainID: chainID, Reason: "chain is not reachable (no RPC endpoint configured)"}
	}

	r.mu.Lock()
	if r.pinned[chainID] {
		r.mu.Unlock()
		return nil
	}
	if r.active == chainID {
		r.mu.Unlock()
		return &domain.ConfigurationError{ChainID: chainID, Reason: "chain is the active network and cannot be pinned"}
	}
	r.mu.Unlock()

	adaptor, err := r.connector.Connect(ctx, chainID, domain.CapabilityReadOnly)
	if err != nil {
		return fmt.Errorf("failed to connect pinned chain %d: %w", chainID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pinned[chainID] {
		return nil
	}
	if current, ok := r.adaptors[chainID]; !ok || current.ID() != adaptor.ID() {
		r.adaptors[chainID] = adaptor
		r.invalidateLocked(chainID)
	}
	r.pinned[chainID] = true
	delete(r.lastErr, chainID)
	r.log.Info("pinned network connected", "chain_id", chainID)
	return nil
}

// ConnectActive makes chainID the active network with a read/write adaptor.
// Every binding on chainID is replaced, the previous active chain is dropped,
// and pinned chains are left alone.
func (r *ContractRegistry) ConnectActive(ctx context.Context, chainID uint64) error {
	r.mu.Lock()
	if r.pinned[chainID] {
		r.mu.Unlock()
		return &domain.ConfigurationError{ChainID: chainID, Reason: "chain is pinned and cannot become the active network"}
	}
	r.mu.Unlock()

	adaptor, err := r.connector.Connect(ctx, chainID, domain.CapabilityReadWrite)
	if err != nil {
		return fmt.Errorf("failed to connect active chain %d: %w", chainID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.active
	if previous != 0 && previous != chainID && !r.pinned[previous] {
		delete(r.adaptors, previous)
		dropped := r.invalidateLocked(previous)
		r.log.Debug("dropped previous active network", "chain_id", previous, "bindings", dropped)
	}

	r.adaptors[chainID] = adaptor
	replaced := r.invalidateLocked(chainID)
	r.active = chainID
	delete(r.lastErr, chainID)
	r.log.Info("active network connected", "chain_id", chainID, "previous", previous, "invalidated", replaced)
	return nil
}

// HandleNetworkChange reconnects the active adaptor when the user's network switches
func (r *ContractRegistry) HandleNetworkChange(change domain.NetworkChange) {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	if err := r.ConnectActive(ctx, change.ChainID); err != nil {
		r.log.Error("failed to follow network change", "from", change.Previous, "to", change.ChainID, "error", err)
	}
}

// invalidateLocked drops every binding keyed to chainID
func (r *ContractRegistry) invalidateLocked(chainID uint64) int {
	count := 0
	for key := range r.bindings {
		if key.ChainID == chainID {
			delete(r.bindings, key)
			count++
		}
	}
	return count
}

// ActiveChainID returns the active chain, or 0 when none is connected
func (r *ContractRegistry) ActiveChainID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// IsPinned reports whether chainID was connected through ConnectPinned
func (r *ContractRegistry) IsPinned(chainID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pinned[chainID]
}

// Adaptor returns the current adaptor for chainID
func (r *ContractRegistry) Adaptor(chainID uint64) (*domain.Adaptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adaptors[chainID]
	return a, ok
}

// LastError returns the most recent failed connection attempt for chainID
func (r *ContractRegistry) LastError(chainID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr[chainID]
}

// Bindings returns the live bindings ordered by chain and name
func (r *ContractRegistry) Bindings() []*domain.Binding {
	r.mu.Lock()
	bindings := lo.Values(r.bindings)
	r.mu.Unlock()

	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].ChainID != bindings[j].ChainID {
			return bindings[i].ChainID < bindings[j].ChainID
		}
		return bindings[i].Name < bindings[j].Name
	})
	return bindings
}

// Reset drops every adaptor and binding and abandons queued connections
func (r *ContractRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel()
	r.init()
	r.log.Debug("registry reset")
}

// Close resets the registry and stops following network changes
func (r *ContractRegistry) Close() {
	if r.unsub != nil {
		r.unsub()
	}
	r.Reset()
}
