package signer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// Approver decides whether a transaction may be signed
type Approver interface {
	Approve(ctx context.Context, chainID *big.Int, from common.Address, tx *types.Transaction) (bool, error)
}

// ApprovalSigner asks an Approver before every signature. A declined
// transaction fails with the standard user rejection code.
type ApprovalSigner struct {
	inner    usecase.SignerProvider
	approver Approver
	pauser   usecase.InteractionPauser
}

// NewApprovalSigner wraps inner with an approval step. When pauser is set,
// live progress output is paused while the approver runs.
func NewApprovalSigner(inner usecase.SignerProvider, approver Approver, pauser usecase.InteractionPauser) *ApprovalSigner {
	return &ApprovalSigner{inner: inner, approver: approver, pauser: pauser}
}

// Signer returns transact options whose SignerFn consults the approver first
func (s *ApprovalSigner) Signer(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := s.inner.Signer(ctx, chainID)
	if err != nil {
		return nil, err
	}

	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		ok, err := s.approve(ctx, chainID, from, tx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.RejectedError{Code: domain.RejectionCode, Message: "transaction declined"}
		}
		return sign(from, tx)
	}
	return opts, nil
}

func (s *ApprovalSigner) approve(ctx context.Context, chainID *big.Int, from common.Address, tx *types.Transaction) (bool, error) {
	if s.pauser != nil {
		resume := s.pauser.Pause()
		defer resume()
	}
	return s.approver.Approve(ctx, chainID, from, tx)
}

// PromptApprover asks on the terminal
type PromptApprover struct{}

// Approve shows a summary of tx and waits for y/N
func (PromptApprover) Approve(ctx context.Context, chainID *big.Int, from common.Address, tx *types.Transaction) (bool, error) {
	fmt.Println(color.New(color.Bold).Sprint("Transaction request"))
	for _, line := range Summarize(chainID, from, tx) {
		fmt.Println("  " + line)
	}

	prompt := promptui.Prompt{
		Label:     "Sign and send",
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
		return false, nil
	}
	return false, fmt.Errorf("approval prompt failed: %w", err)
}

// Summarize renders the fields a user needs to approve tx
func Summarize(chainID *big.Int, from common.Address, tx *types.Transaction) []string {
	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	lines := []string{
		fmt.Sprintf("chain:     %s", chainID),
		fmt.Sprintf("from:      %s", from.Hex()),
		fmt.Sprintf("to:        %s", to),
		fmt.Sprintf("value:     %s wei", tx.Value()),
		fmt.Sprintf("gas limit: %d", tx.Gas()),
	}
	if tx.GasPrice() != nil && tx.Type() == types.LegacyTxType {
		lines = append(lines, fmt.Sprintf("gas price: %s gwei", formatGwei(tx.GasPrice())))
	} else if tx.GasFeeCap() != nil {
		lines = append(lines, fmt.Sprintf("max fee:   %s gwei", formatGwei(tx.GasFeeCap())))
	}
	if data := tx.Data(); len(data) >= 4 {
		lines = append(lines, fmt.Sprintf("selector:  0x%x", data[:4]))
	}
	return lines
}

func formatGwei(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.GWei))
	return f.Text('f', 2)
}

// AutoApprover approves everything, for non-interactive runs
type AutoApprover struct{}

func (AutoApprover) Approve(context.Context, *big.Int, common.Address, *types.Transaction) (bool, error) {
	return true, nil
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.SignerProvider = (*ApprovalSigner)(nil)
	_ Approver               = PromptApprover{}
	_ Approver               = AutoApprover{}
)
