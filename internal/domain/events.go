package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Event contract with the L2 standard token factory
const (
	EventStandardL2TokenCreated = "StandardL2TokenCreated"
	ArgL1Token                  = "_l1Token"
	ArgL2Token                  = "_l2Token"
)

// ReceiptEvent is a decoded log from a transaction receipt
type ReceiptEvent struct {
	Name      string
	Signature common.Hash
	Address   common.Address
	LogIndex  uint
	Args      map[string]any
}

// FindEventFrom returns the first event with the given name emitted by emitter
func FindEventFrom(events []ReceiptEvent, name string, emitter common.Address) (ReceiptEvent, bool) {
	for _, ev := range events {
		if ev.Name == name && ev.Address == emitter {
			return ev, true
		}
	}
	return ReceiptEvent{}, false
}

// AddressArg returns an address-typed argument
func (e ReceiptEvent) AddressArg(name string) (common.Address, error) {
	v, ok := e.Args[name]
	if !ok {
		return common.Address{}, fmt.Errorf("argument %s missing from %s", name, e.Name)
	}
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("argument %s of %s is %T, not an address", name, e.Name, v)
	}
	return addr, nil
}

// NetworkChange is published when the active network switches
type NetworkChange struct {
	Previous uint64
	ChainID  uint64
}
