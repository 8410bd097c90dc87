package bindings

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
)

// L2StandardTokenFactoryMetaData contains all meta data concerning the L2StandardTokenFactory contract.
var L2StandardTokenFactoryMetaData = bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"createStandardL2Token\",\"inputs\":[{\"name\":\"_l1Token\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"_name\",\"type\":\"string\",\"internalType\":\"string\"},{\"name\":\"_symbol\",\"type\":\"string\",\"internalType\":\"string\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"},{\"type\":\"event\",\"name\":\"StandardL2TokenCreated\",\"inputs\":[{\"name\":\"_l1Token\",\"type\":\"address\",\"indexed\":true,\"internalType\":\"address\"},{\"name\":\"_l2Token\",\"type\":\"address\",\"indexed\":true,\"internalType\":\"address\"}],\"anonymous\":false}]",
	ID:  "L2StandardTokenFactory",
}

// L2StandardTokenFactory is a Go binding around the L2 standard token factory.
type L2StandardTokenFactory struct {
	abi abi.ABI
}

// NewL2StandardTokenFactory creates a new instance of L2StandardTokenFactory.
func NewL2StandardTokenFactory() *L2StandardTokenFactory {
	parsed, err := L2StandardTokenFactoryMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &L2StandardTokenFactory{abi: *parsed}
}

// ABI returns the parsed contract ABI.
func (f *L2StandardTokenFactory) ABI() abi.ABI {
	return f.abi
}
