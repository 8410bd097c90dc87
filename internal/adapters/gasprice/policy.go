package gasprice

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// DefaultFastMultiplier bumps the node's suggestion for the "fast" tier
const DefaultFastMultiplier = 1.25

// Auto leaves pricing to go-ethereum, which prefers EIP-1559 fees when available
type Auto struct{}

func (Auto) Name() string { return string(config.GasPolicyAuto) }

func (Auto) Apply(context.Context, domain.Backend, *bind.TransactOpts) error { return nil }

// Suggested uses the node's legacy gas price suggestion
type Suggested struct{}

func (Suggested) Name() string { return string(config.GasPolicySuggested) }

func (Suggested) Apply(ctx context.Context, backend domain.Backend, opts *bind.TransactOpts) error {
	price, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to suggest gas price: %w", err)
	}
	opts.GasPrice = price
	return nil
}

// Fast scales the node's suggestion by Multiplier
type Fast struct {
	Multiplier float64
}

func (Fast) Name() string { return string(config.GasPolicyFast) }

func (p Fast) Apply(ctx context.Context, backend domain.Backend, opts *bind.TransactOpts) error {
	price, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to suggest gas price: %w", err)
	}
	opts.GasPrice = Scale(price, p.Multiplier)
	return nil
}

// Fixed always uses the same price
type Fixed struct {
	Wei *big.Int
}

func (Fixed) Name() string { return string(config.GasPolicyFixed) }

func (p Fixed) Apply(_ context.Context, _ domain.Backend, opts *bind.TransactOpts) error {
	opts.GasPrice = new(big.Int).Set(p.Wei)
	return nil
}

// Scale multiplies price by factor, rounding down. Factors <= 0 leave it unchanged.
func Scale(price *big.Int, factor float64) *big.Int {
	if factor <= 0 {
		return new(big.Int).Set(price)
	}
	scaled := new(big.Float).Mul(new(big.Float).SetInt(price), big.NewFloat(factor))
	out, _ := scaled.Int(nil)
	return out
}

// GweiToWei converts a (possibly fractional) gwei amount to wei
func GweiToWei(gwei float64) *big.Int {
	wei := new(big.Float).Mul(big.NewFloat(gwei), new(big.Float).SetInt64(params.GWei))
	out, _ := wei.Int(nil)
	return out
}

// FromConfig builds the configured policy
func FromConfig(cfg *config.RuntimeConfig) (usecase.GasPricePolicy, error) {
	switch cfg.Gas.Policy {
	case "", config.GasPolicyAuto:
		return Auto{}, nil
	case config.GasPolicySuggested:
		return Suggested{}, nil
	case config.GasPolicyFast:
		multiplier := cfg.Gas.Multiplier
		if multiplier == 0 {
			multiplier = DefaultFastMultiplier
		}
		return Fast{Multiplier: multiplier}, nil
	case config.GasPolicyFixed:
		if cfg.Gas.Gwei <= 0 {
			return nil, fmt.Errorf("fixed gas policy requires gas.gwei > 0")
		}
		return Fixed{Wei: GweiToWei(cfg.Gas.Gwei)}, nil
	default:
		return nil, fmt.Errorf("unknown gas policy %q", cfg.Gas.Policy)
	}
}

// Ensure the policies implement the interface
var (
	_ usecase.GasPricePolicy = Auto{}
	_ usecase.GasPricePolicy = Suggested{}
	_ usecase.GasPricePolicy = Fast{}
	_ usecase.GasPricePolicy = Fixed{}
)
