package transactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

const defaultPollInterval = 2 * time.Second

// Transactor submits contract calls through the binding's adaptor signer
type Transactor struct {
	pollInterval time.Duration
	log          *slog.Logger
}

// NewTransactor creates a new transactor
func NewTransactor(cfg *config.RuntimeConfig, log *slog.Logger) *Transactor {
	interval := cfg.Connect.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Transactor{
		pollInterval: interval,
		log:          log.With("component", "Transactor"),
	}
}

// Submit applies the gas policy and sends call. A user rejection from the
// signer is returned as is so callers can tell it apart from other failures.
func (t *Transactor) Submit(ctx context.Context, call usecase.PendingCall, policy usecase.GasPricePolicy) (usecase.TransactionHandle, error) {
	if call.Binding == nil {
		return nil, domain.ErrBindingNotReady
	}
	adaptor := call.Binding.Adaptor
	if !adaptor.CanWrite() {
		return nil, fmt.Errorf("%w: %s is bound to a read-only connection", domain.ErrNoSigner, call.Binding)
	}

	opts := adaptor.TransactOpts()
	opts.Context = ctx
	if call.Value != nil {
		opts.Value = call.Value
	}
	if policy != nil {
		if err := policy.Apply(ctx, adaptor.Backend(), opts); err != nil {
			return nil, fmt.Errorf("failed to apply %s gas policy: %w", policy.Name(), err)
		}
	}

	t.log.Debug("submitting", "contract", call.Binding.String(), "method", call.Method, "from", opts.From.Hex(), "gas_price", opts.GasPrice)
	tx, err := call.Binding.Contract.Transact(opts, call.Method, call.Args...)
	if err != nil {
		if domain.IsUserRejection(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to submit %s.%s: %w", call.Binding.Name, call.Method, err)
	}

	t.log.Debug("submitted", "tx", tx.Hash().Hex())
	return &Handle{
		tx:       tx,
		backend:  adaptor.Backend(),
		interval: t.pollInterval,
		log:      t.log,
	}, nil
}

// Handle is a submitted transaction
type Handle struct {
	tx       *types.Transaction
	backend  bind.DeployBackend
	interval time.Duration
	log      *slog.Logger
}

func (h *Handle) Hash() common.Hash               { return h.tx.Hash() }
func (h *Handle) Transaction() *types.Transaction { return h.tx }

// Wait polls for the receipt until it is available or ctx is done.
// There is no internal timeout.
func (h *Handle) Wait(ctx context.Context) (*types.Receipt, error) {
	hash := h.tx.Hash()
	receipt, err := WaitMinedWithInterval(ctx, h.interval, h.backend, hash, h.log)
	if err != nil {
		return nil, &domain.MiningFailure{TxHash: hash.Hex(), Reason: "no receipt", Err: err}
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, &domain.MiningFailure{TxHash: hash.Hex(), Reason: fmt.Sprintf("reverted in block %s", receipt.BlockNumber)}
	}
	return receipt, nil
}

// WaitMinedWithInterval polls the receipt for txHash every tick
func WaitMinedWithInterval(ctx context.Context, tick time.Duration, b bind.DeployBackend, txHash common.Hash, log *slog.Logger) (*types.Receipt, error) {
	queryTicker := time.NewTicker(tick)
	defer queryTicker.Stop()
	for {
		receipt, err := b.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			log.Debug("receipt lookup failed", "tx", txHash.Hex(), "error", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

// Ensure the adapter implements the interface
var (
	_ usecase.Transactor        = (*Transactor)(nil)
	_ usecase.TransactionHandle = (*Handle)(nil)
)
