// Package testutil runs an in-process EVM chain for adapter and use case tests.
package testutil

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-l2/internal/domain"
)

var prefundAmountWei = new(big.Int).Mul(big.NewInt(1000), big.NewInt(params.Ether))

// SimChain is a simulated backend with one funded deployer account
type SimChain struct {
	mu sync.Mutex

	Backend  *simulated.Backend
	Client   simulated.Client
	ChainID  uint64
	Key      *ecdsa.PrivateKey
	Deployer *bind.TransactOpts
}

// NewSimChain starts a simulated chain that is closed when the test ends
func NewSimChain(t *testing.T) *SimChain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	chainID := params.AllDevChainProtocolChanges.ChainID
	deployer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	require.NoError(t, err)

	backend := simulated.NewBackend(
		types.GenesisAlloc{deployer.From: {Balance: prefundAmountWei}},
		simulated.WithBlockGasLimit(50_000_000),
	)
	t.Cleanup(func() { _ = backend.Close() })
	backend.Commit()

	return &SimChain{
		Backend:  backend,
		Client:   backend.Client(),
		ChainID:  chainID.Uint64(),
		Key:      key,
		Deployer: deployer,
	}
}

// Commit mines the pending transactions into a new block
func (s *SimChain) Commit() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Backend.Commit()
}

// AutoMine commits a block every blockTime until the test ends
func (s *SimChain) AutoMine(t *testing.T, blockTime time.Duration) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ticker := time.NewTicker(blockTime)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Commit()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Adaptor wraps the client in a read/write adaptor signing with the deployer key
func (s *SimChain) Adaptor() *domain.Adaptor {
	return domain.NewAdaptor(s.ChainID, s.Client, s.Deployer)
}

// ReadOnlyAdaptor wraps the client without a signer
func (s *SimChain) ReadOnlyAdaptor() *domain.Adaptor {
	return domain.NewAdaptor(s.ChainID, s.Client, nil)
}

// DeployTokenFactory deploys a factory stub whose createStandardL2Token
// emits StandardL2TokenCreated(_l1Token, l2Token) for any input.
func (s *SimChain) DeployTokenFactory(t *testing.T, l2Token common.Address) common.Address {
	t.Helper()

	sig := crypto.Keccak256Hash([]byte("StandardL2TokenCreated(address,address)"))

	runtime := []byte{0x73}
	runtime = append(runtime, l2Token.Bytes()...) // PUSH20 l2Token
	runtime = append(runtime, 0x60, 0x04, 0x35)   // CALLDATALOAD(4) = _l1Token
	runtime = append(runtime, 0x7f)
	runtime = append(runtime, sig.Bytes()...)         // PUSH32 topic0
	runtime = append(runtime, 0x60, 0x00, 0x60, 0x00) // size, offset
	runtime = append(runtime, 0xa3, 0x00)             // LOG3, STOP

	return s.deployRuntime(t, runtime)
}

// DeployReverter deploys a contract that reverts on every call
func (s *SimChain) DeployReverter(t *testing.T) common.Address {
	t.Helper()
	return s.deployRuntime(t, []byte{0x60, 0x00, 0x60, 0x00, 0xfd})
}

// DeployConstant deploys a contract that returns value as a uint256 from any
// call, standing in for view methods such as balanceOf.
func (s *SimChain) DeployConstant(t *testing.T, value *big.Int) common.Address {
	t.Helper()

	runtime := []byte{0x7f}
	runtime = append(runtime, common.BigToHash(value).Bytes()...) // PUSH32 value
	runtime = append(runtime, 0x60, 0x00, 0x52)                   // MSTORE(0, value)
	runtime = append(runtime, 0x60, 0x20, 0x60, 0x00, 0xf3)       // RETURN(0, 32)

	return s.deployRuntime(t, runtime)
}

// FactoryEntry is a manifest entry for a factory deployed on this chain
func (s *SimChain) FactoryEntry(addr common.Address) domain.ContractEntry {
	return domain.ContractEntry{
		Name:    domain.ContractL2TokenFactory,
		ChainID: s.ChainID,
		Address: addr,
		ABIName: "L2StandardTokenFactory",
		ABI:     bindings.NewL2StandardTokenFactory().ABI(),
	}
}

// deployRuntime wraps runtime in a minimal constructor that returns it
func (s *SimChain) deployRuntime(t *testing.T, runtime []byte) common.Address {
	t.Helper()
	require.Less(t, len(runtime), 256)

	size := byte(len(runtime))
	initcode := []byte{
		0x60, size, 0x60, 0x0c, 0x60, 0x00, 0x39, // CODECOPY(0, 12, size)
		0x60, size, 0x60, 0x00, 0xf3, // RETURN(0, size)
	}
	initcode = append(initcode, runtime...)

	addr, tx, _, err := bind.DeployContract(s.Deployer, abi.ABI{}, initcode, s.Client)
	require.NoError(t, err)
	s.Commit()

	receipt, err := s.Client.TransactionReceipt(context.Background(), tx.Hash())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	return addr
}
