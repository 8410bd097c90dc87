package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Capability is the access level of an adaptor's connection
type Capability int

const (
	CapabilityReadOnly Capability = iota
	CapabilityReadWrite
)

func (c Capability) String() string {
	if c == CapabilityReadWrite {
		return "read/write"
	}
	return "read-only"
}

// Backend is the network connection carried by an Adaptor
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Adaptor pairs a network connection with its chain id. It is immutable once
// built: a network or signer change produces a new Adaptor.
type Adaptor struct {
	id      string
	chainID uint64
	backend Backend
	signer  *bind.TransactOpts
}

// NewAdaptor creates an adaptor. A nil signer makes it read-only.
func NewAdaptor(chainID uint64, backend Backend, signer *bind.TransactOpts) *Adaptor {
	var s *bind.TransactOpts
	if signer != nil {
		cp := *signer
		s = &cp
	}
	return &Adaptor{
		id:      uuid.NewString(),
		chainID: chainID,
		backend: backend,
		signer:  s,
	}
}

func (a *Adaptor) ID() string       { return a.id }
func (a *Adaptor) ChainID() uint64  { return a.chainID }
func (a *Adaptor) Backend() Backend { return a.backend }

func (a *Adaptor) Capability() Capability {
	if a.signer != nil {
		return CapabilityReadWrite
	}
	return CapabilityReadOnly
}

// CanWrite reports whether transactions can be sent through this adaptor
func (a *Adaptor) CanWrite() bool {
	return a != nil && a.signer != nil
}

// From returns the signing account, or the zero address for read-only adaptors
func (a *Adaptor) From() common.Address {
	if a.signer == nil {
		return common.Address{}
	}
	return a.signer.From
}

// TransactOpts returns a fresh copy of the signer options, or nil when read-only.
// Callers may mutate the copy (gas price, context) freely.
func (a *Adaptor) TransactOpts() *bind.TransactOpts {
	if a.signer == nil {
		return nil
	}
	opts := *a.signer
	return &opts
}
