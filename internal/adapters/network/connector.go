package network

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// DialFunc opens a backend for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (domain.Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (domain.Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Connector establishes adaptors over ethclient. One client is kept per chain;
// read-only adaptors are cached so pinned connects are idempotent, while every
// read/write connect returns a fresh adaptor with the current signer.
type Connector struct {
	resolver *Resolver
	signers  usecase.SignerProvider
	dial     DialFunc
	attempts uint
	delay    time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	clients  map[uint64]domain.Backend
	readOnly map[uint64]*domain.Adaptor
}

// NewConnector creates a connector for the configured networks
func NewConnector(cfg *config.RuntimeConfig, resolver *Resolver, signers usecase.SignerProvider, log *slog.Logger) *Connector {
	attempts := cfg.Connect.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return &Connector{
		resolver: resolver,
		signers:  signers,
		dial:     dialEthclient,
		attempts: attempts,
		delay:    cfg.Connect.Delay,
		log:      log.With("component", "Connector"),
		clients:  make(map[uint64]domain.Backend),
		readOnly: make(map[uint64]*domain.Adaptor),
	}
}

// Reachable reports whether chainID has an RPC endpoint configured
func (c *Connector) Reachable(chainID uint64) bool {
	_, err := c.resolver.GetRPCURL(chainID)
	return err == nil
}

// Connect returns an adaptor for chainID with the requested capability
func (c *Connector) Connect(ctx context.Context, chainID uint64, capability domain.Capability) (*domain.Adaptor, error) {
	rpcURL, err := c.resolver.GetRPCURL(chainID)
	if err != nil {
		return nil, &domain.ConfigurationError{ChainID: chainID, Reason: err.Error()}
	}

	if capability == domain.CapabilityReadOnly {
		c.mu.Lock()
		adaptor, ok := c.readOnly[chainID]
		c.mu.Unlock()
		if ok {
			return adaptor, nil
		}
	}

	backend, err := c.backend(ctx, chainID, rpcURL)
	if err != nil {
		return nil, err
	}

	if capability == domain.CapabilityReadOnly {
		c.mu.Lock()
		defer c.mu.Unlock()
		if adaptor, ok := c.readOnly[chainID]; ok {
			return adaptor, nil
		}
		adaptor := domain.NewAdaptor(chainID, backend, nil)
		c.readOnly[chainID] = adaptor
		return adaptor, nil
	}

	if c.signers == nil {
		return nil, domain.ErrNoSigner
	}
	signer, err := c.signers.Signer(ctx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for chain %d: %w", chainID, err)
	}
	return domain.NewAdaptor(chainID, backend, signer), nil
}

// backend returns the shared client for chainID, dialing it if needed
func (c *Connector) backend(ctx context.Context, chainID uint64, rpcURL string) (domain.Backend, error) {
	c.mu.Lock()
	if b, ok := c.clients[chainID]; ok {
		c.mu.Unlock()
		return b, nil
	}
	c.mu.Unlock()

	b, err := retry.DoWithData(func() (domain.Backend, error) {
		b, err := c.dial(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RPC: %w", err)
		}

		// Verify chain ID matches
		remote, err := b.ChainID(ctx)
		if err != nil {
			closeBackend(b)
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		if remote.Uint64() != chainID {
			closeBackend(b)
			return nil, retry.Unrecoverable(&domain.ConfigurationError{
				ChainID: chainID,
				Reason:  fmt.Sprintf("chain ID mismatch: RPC reports %d", remote.Uint64()),
			})
		}
		return b, nil
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.log.Debug("connect attempt failed", "chain_id", chainID, "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.clients[chainID]; ok {
		closeBackend(b)
		return existing, nil
	}
	c.clients[chainID] = b
	c.log.Debug("connected", "chain_id", chainID)
	return b, nil
}

// Close closes every client opened by the connector
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for chainID, b := range c.clients {
		closeBackend(b)
		delete(c.clients, chainID)
	}
	c.readOnly = make(map[uint64]*domain.Adaptor)
}

func closeBackend(b domain.Backend) {
	if closer, ok := b.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Ensure the adapter implements the interface
var _ usecase.NetworkConnector = (*Connector)(nil)
