package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-l2/internal/domain"
)

// ReadTokenBalanceParams contains parameters for a cross-chain balance read
type ReadTokenBalanceParams struct {
	Contract string
	ChainID  uint64
	Account  string
}

// ReadTokenBalanceResult contains the balance read through a binding
type ReadTokenBalanceResult struct {
	Binding *domain.Binding
	Account common.Address
	Balance *big.Int
}

// ReadTokenBalance reads an ERC20 balance through the registry. It works on
// any connected chain, including pinned ones the user's wallet is not on.
type ReadTokenBalance struct {
	bindings BindingResolver
}

// NewReadTokenBalance creates a new ReadTokenBalance use case
func NewReadTokenBalance(bindings BindingResolver) *ReadTokenBalance {
	return &ReadTokenBalance{bindings: bindings}
}

// Run executes the use case
func (uc *ReadTokenBalance) Run(ctx context.Context, params ReadTokenBalanceParams) (*ReadTokenBalanceResult, error) {
	if !common.IsHexAddress(params.Account) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, params.Account)
	}
	account := common.HexToAddress(params.Account)

	binding, err := uc.bindings.Await(ctx, params.Contract, params.ChainID)
	if err != nil {
		return nil, err
	}
	if _, ok := binding.ABI.Methods["balanceOf"]; !ok {
		return nil, &domain.ConfigurationError{
			Name:    params.Contract,
			ChainID: params.ChainID,
			Reason:  "contract has no balanceOf method",
		}
	}

	var out []any
	if err := binding.Contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return nil, fmt.Errorf("failed to call balanceOf on %s: %w", binding, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("balanceOf on %s returned no data", binding)
	}

	return &ReadTokenBalanceResult{
		Binding: binding,
		Account: account,
		Balance: abi.ConvertType(out[0], new(big.Int)).(*big.Int),
	}, nil
}
