package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
)

// ContractManifest is the static list of known contracts per chain
type ContractManifest interface {
	// Lookup returns a *domain.ConfigurationError for unknown names or chains
	Lookup(name string, chainID uint64) (domain.ContractEntry, error)
	Entries() []domain.ContractEntry
	Names() []string
}

// NetworkResolver resolves network names and chain ids to configured networks
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, nameOrChainID string) (*config.Network, error)
	GetNetworkByChainID(chainID uint64) (*config.Network, error)
}

// NetworkConnector is the network connection boundary.
// Read-only connections are cached per chain, so repeated calls are idempotent.
type NetworkConnector interface {
	Connect(ctx context.Context, chainID uint64, capability domain.Capability) (*domain.Adaptor, error)
	Reachable(chainID uint64) bool
}

// SignerProvider is the signer boundary
type SignerProvider interface {
	Signer(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// NetworkFeed delivers active network changes
type NetworkFeed interface {
	Publish(change domain.NetworkChange)
	Subscribe(fn func(domain.NetworkChange)) (unsubscribe func(), err error)
}

// GasPricePolicy sets gas pricing on outgoing transactions
type GasPricePolicy interface {
	Name() string
	Apply(ctx context.Context, backend domain.Backend, opts *bind.TransactOpts) error
}

// PendingCall is a contract method invocation waiting to be submitted
type PendingCall struct {
	Binding *domain.Binding
	Method  string
	Args    []any
	Value   *big.Int
}

// TransactionHandle is a submitted transaction
type TransactionHandle interface {
	Hash() common.Hash
	Transaction() *types.Transaction
	// Wait blocks until the transaction is mined. Reverts and wait errors
	// are reported as *domain.MiningFailure.
	Wait(ctx context.Context) (*types.Receipt, error)
}

// Transactor submits pending calls through the binding's signer
type Transactor interface {
	Submit(ctx context.Context, call PendingCall, policy GasPricePolicy) (TransactionHandle, error)
}

// EventDecoder decodes receipt logs against a contract ABI
type EventDecoder interface {
	DecodeReceipt(receipt *types.Receipt, contractABI abi.ABI) ([]domain.ReceiptEvent, error)
}

// BindingResolver hands out contract bindings by name and chain
type BindingResolver interface {
	// Resolve returns (nil, nil) while the chain's adaptor is still connecting
	Resolve(ctx context.Context, name string, chainID uint64) (*domain.Binding, error)
	// Await blocks until the binding is ready or the connection fails
	Await(ctx context.Context, name string, chainID uint64) (*domain.Binding, error)
}

// SessionObserver receives every deployment session transition, in order
type SessionObserver interface {
	OnTransition(ctx context.Context, transition domain.SessionTransition)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// InteractionPauser is implemented by sinks that draw on the terminal. Pause
// stops live output until the returned resume func is called.
type InteractionPauser interface {
	Pause() (resume func())
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
