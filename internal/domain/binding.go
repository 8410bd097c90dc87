package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Well-known contract names
const (
	ContractL2TokenFactory = "L2TokenFactory"
)

// ContractKey identifies a binding: names are only unique within a chain
type ContractKey struct {
	Name    string
	ChainID uint64
}

func (k ContractKey) String() string {
	return fmt.Sprintf("%s@%d", k.Name, k.ChainID)
}

// ContractEntry is one row of the static contract manifest
type ContractEntry struct {
	Name    string
	ChainID uint64
	Address common.Address
	ABIName string
	ABI     abi.ABI
}

func (e ContractEntry) Key() ContractKey {
	return ContractKey{Name: e.Name, ChainID: e.ChainID}
}

// Binding is a named contract on one chain, connected through an Adaptor.
// A Binding never changes after creation; a reconnect yields a new pointer.
type Binding struct {
	Name     string
	ChainID  uint64
	Address  common.Address
	ABI      abi.ABI
	Adaptor  *Adaptor
	Contract *bind.BoundContract
}

// NewBinding binds a manifest entry to an adaptor
func NewBinding(entry ContractEntry, adaptor *Adaptor) *Binding {
	backend := adaptor.Backend()
	return &Binding{
		Name:     entry.Name,
		ChainID:  entry.ChainID,
		Address:  entry.Address,
		ABI:      entry.ABI,
		Adaptor:  adaptor,
		Contract: bind.NewBoundContract(entry.Address, entry.ABI, backend, backend, backend),
	}
}

func (b *Binding) Key() ContractKey {
	return ContractKey{Name: b.Name, ChainID: b.ChainID}
}

// BoundTo reports whether the binding still uses the given adaptor
func (b *Binding) BoundTo(adaptor *Adaptor) bool {
	return b != nil && adaptor != nil && b.Adaptor.ID() == adaptor.ID()
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s@%d (%s)", b.Name, b.ChainID, b.Address.Hex())
}
