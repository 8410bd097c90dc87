package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

var (
	daiMainnet    = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	daiOptimism   = common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1")
	factoryAddr   = common.HexToAddress("0x4200000000000000000000000000000000000012")
	deployedToken = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

// MockContractManifest is a mock implementation of ContractManifest
type MockContractManifest struct {
	mock.Mock
}

func (m *MockContractManifest) Lookup(name string, chainID uint64) (domain.ContractEntry, error) {
	args := m.Called(name, chainID)
	return args.Get(0).(domain.ContractEntry), args.Error(1)
}

func (m *MockContractManifest) Entries() []domain.ContractEntry {
	args := m.Called()
	return args.Get(0).([]domain.ContractEntry)
}

func (m *MockContractManifest) Names() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// staticManifest answers lookups from a fixed entry list
type staticManifest struct {
	entries []domain.ContractEntry
}

func newStaticManifest() *staticManifest {
	erc20 := bindings.NewERC20().ABI()
	factory := bindings.NewL2StandardTokenFactory().ABI()
	return &staticManifest{entries: []domain.ContractEntry{
		{Name: "DAI", ChainID: 1, Address: daiMainnet, ABIName: "ERC20", ABI: erc20},
		{Name: "DAI", ChainID: 10, Address: daiOptimism, ABIName: "ERC20", ABI: erc20},
		{Name: domain.ContractL2TokenFactory, ChainID: 10, Address: factoryAddr, ABIName: "L2StandardTokenFactory", ABI: factory},
		{Name: domain.ContractL2TokenFactory, ChainID: 420, Address: factoryAddr, ABIName: "L2StandardTokenFactory", ABI: factory},
	}}
}

func (m *staticManifest) Lookup(name string, chainID uint64) (domain.ContractEntry, error) {
	known := false
	for _, e := range m.entries {
		if e.Name == name {
			known = true
			if e.ChainID == chainID {
				return e, nil
			}
		}
	}
	if !known {
		return domain.ContractEntry{}, &domain.ConfigurationError{Name: name, ChainID: chainID, Reason: "unknown contract"}
	}
	return domain.ContractEntry{}, &domain.ConfigurationError{Name: name, ChainID: chainID, Reason: "not deployed on this chain"}
}

func (m *staticManifest) Entries() []domain.ContractEntry { return m.entries }

func (m *staticManifest) Names() []string { return []string{"DAI", domain.ContractL2TokenFactory} }

// fakeConnector hands out adaptors without a network. Connects for chains in
// gates block until the gate is closed.
type fakeConnector struct {
	mu        sync.Mutex
	reachable map[uint64]bool
	gates     map[uint64]chan struct{}
	failures  map[uint64]error
	backend   domain.Backend
	signer    *bind.TransactOpts
	calls     map[uint64]int
	readOnly  map[uint64]*domain.Adaptor
}

func newFakeConnector(chains ...uint64) *fakeConnector {
	c := &fakeConnector{
		reachable: make(map[uint64]bool),
		gates:     make(map[uint64]chan struct{}),
		failures:  make(map[uint64]error),
		calls:     make(map[uint64]int),
		readOnly:  make(map[uint64]*domain.Adaptor),
		signer:    &bind.TransactOpts{From: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")},
	}
	for _, id := range chains {
		c.reachable[id] = true
	}
	return c
}

func (c *fakeConnector) gate(chainID uint64) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.gates[chainID] = ch
	return ch
}

func (c *fakeConnector) fail(chainID uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, chainID)
		return
	}
	c.failures[chainID] = err
}

func (c *fakeConnector) callCount(chainID uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[chainID]
}

func (c *fakeConnector) Reachable(chainID uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reachable[chainID]
}

func (c *fakeConnector) Connect(ctx context.Context, chainID uint64, capability domain.Capability) (*domain.Adaptor, error) {
	c.mu.Lock()
	c.calls[chainID]++
	gate := c.gates[chainID]
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failures[chainID]; err != nil {
		return nil, err
	}
	if !c.reachable[chainID] {
		return nil, &domain.ConfigurationError{ChainID: chainID, Reason: "no RPC URL"}
	}
	if capability == domain.CapabilityReadOnly {
		if a, ok := c.readOnly[chainID]; ok {
			return a, nil
		}
		a := domain.NewAdaptor(chainID, c.backend, nil)
		c.readOnly[chainID] = a
		return a, nil
	}
	return domain.NewAdaptor(chainID, c.backend, c.signer), nil
}

// fakeFeed stores subscribers and calls them inline
type fakeFeed struct {
	mu   sync.Mutex
	subs map[int]func(domain.NetworkChange)
	next int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{subs: make(map[int]func(domain.NetworkChange))}
}

func (f *fakeFeed) Publish(change domain.NetworkChange) {
	f.mu.Lock()
	subs := make([]func(domain.NetworkChange), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}

func (f *fakeFeed) Subscribe(fn func(domain.NetworkChange)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}, nil
}

// mockBindingResolver resolves bindings through resolveFunc
type mockBindingResolver struct {
	resolveFunc func(ctx context.Context, name string, chainID uint64) (*domain.Binding, error)
}

func (m *mockBindingResolver) Resolve(ctx context.Context, name string, chainID uint64) (*domain.Binding, error) {
	return m.resolveFunc(ctx, name, chainID)
}

func (m *mockBindingResolver) Await(ctx context.Context, name string, chainID uint64) (*domain.Binding, error) {
	return m.resolveFunc(ctx, name, chainID)
}

// fakeHandle is a submitted transaction whose receipt is scripted
type fakeHandle struct {
	tx      *types.Transaction
	release chan struct{}
	receipt *types.Receipt
	err     error
}

func newFakeHandle(nonce uint64) *fakeHandle {
	return &fakeHandle{
		tx: types.NewTx(&types.LegacyTx{Nonce: nonce, To: &factoryAddr}),
	}
}

func (h *fakeHandle) Hash() common.Hash               { return h.tx.Hash() }
func (h *fakeHandle) Transaction() *types.Transaction { return h.tx }

func (h *fakeHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	if h.release != nil {
		select {
		case <-h.release:
		case <-ctx.Done():
			return nil, &domain.MiningFailure{TxHash: h.Hash().Hex(), Reason: "no receipt", Err: ctx.Err()}
		}
	}
	return h.receipt, h.err
}

// MockTransactor is a mock implementation of Transactor
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) Submit(ctx context.Context, call usecase.PendingCall, policy usecase.GasPricePolicy) (usecase.TransactionHandle, error) {
	args := m.Called(ctx, call, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.TransactionHandle), args.Error(1)
}

// MockEventDecoder is a mock implementation of EventDecoder
type MockEventDecoder struct {
	mock.Mock
}

func (m *MockEventDecoder) DecodeReceipt(receipt *types.Receipt, contractABI abi.ABI) ([]domain.ReceiptEvent, error) {
	args := m.Called(receipt, contractABI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptEvent), args.Error(1)
}

// recordingObserver keeps every transition it sees
type recordingObserver struct {
	mu          sync.Mutex
	transitions []domain.SessionTransition
	onEach      func(domain.SessionTransition)
}

func (o *recordingObserver) OnTransition(_ context.Context, t domain.SessionTransition) {
	o.mu.Lock()
	o.transitions = append(o.transitions, t)
	onEach := o.onEach
	o.mu.Unlock()
	if onEach != nil {
		onEach(t)
	}
}

func (o *recordingObserver) states() []domain.DeploymentState {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.DeploymentState, 0, len(o.transitions))
	for _, t := range o.transitions {
		out = append(out, t.To)
	}
	return out
}

func (o *recordingObserver) all() []domain.SessionTransition {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.SessionTransition(nil), o.transitions...)
}

func (o *recordingObserver) String() string {
	return fmt.Sprint(o.states())
}
