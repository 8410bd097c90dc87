package domain

import (
	"errors"
	"fmt"
	"strings"
)

// RejectionCode is the EIP-1193 code a signer returns when the user declines a request
const RejectionCode = 4001

// Sentinel errors for domain operations
var (
	// ErrConfiguration is returned for unknown contract names or unreachable chains
	ErrConfiguration = errors.New("configuration error")

	// ErrNoSigner is returned when a write is attempted without a write-capable adaptor
	ErrNoSigner = errors.New("no signer available")

	// ErrUserRejected is returned when the user declines to approve a transaction
	ErrUserRejected = errors.New("user rejected the request")

	// ErrMiningFailure is returned when a transaction reverts or waiting for it fails
	ErrMiningFailure = errors.New("mining failure")

	// ErrEventNotFound is returned when a receipt lacks the expected event
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrSessionBusy is returned when a deployment session is already in flight
	ErrSessionBusy = errors.New("deployment session busy")

	// ErrBindingNotReady is returned when a binding has no connected adaptor yet
	ErrBindingNotReady = errors.New("binding not ready")
)

// ConfigurationError reports a registry lookup that can never succeed as configured.
type ConfigurationError struct {
	Name        string
	ChainID     uint64
	Reason      string
	Suggestions []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.Name != "" {
		fmt.Fprintf(&b, "contract %q", e.Name)
		if e.ChainID != 0 {
			fmt.Fprintf(&b, " on chain %d", e.ChainID)
		}
	} else {
		fmt.Fprintf(&b, "chain %d", e.ChainID)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// RejectedError is a user rejection carrying the signer's numeric code.
type RejectedError struct {
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("user rejected the request (code %d)", e.Code)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *RejectedError) ErrorCode() int {
	return e.Code
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrUserRejected && e.Code == RejectionCode
}

// codedError matches rpc.Error from go-ethereum without importing the rpc package.
type codedError interface {
	error
	ErrorCode() int
}

// IsUserRejection reports whether err carries the well-known rejection code.
// Any other failure, including other coded errors, is not a rejection.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserRejected) {
		return true
	}
	var coded codedError
	if errors.As(err, &coded) {
		return coded.ErrorCode() == RejectionCode
	}
	return false
}

// MiningFailure describes a transaction that did not produce a successful receipt.
type MiningFailure struct {
	TxHash string
	Reason string
	Err    error
}

func (e *MiningFailure) Error() string {
	msg := fmt.Sprintf("transaction %s failed: %s", e.TxHash, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MiningFailure) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMiningFailure}
	}
	return []error{ErrMiningFailure, e.Err}
}

// EventNotFoundError reports a receipt that lacks the event the workflow depends on.
type EventNotFoundError struct {
	Event  string
	Arg    string
	TxHash string
}

func (e *EventNotFoundError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("event %s in tx %s has no usable %s argument", e.Event, e.TxHash, e.Arg)
	}
	return fmt.Sprintf("event %s not emitted by tx %s", e.Event, e.TxHash)
}

func (e *EventNotFoundError) Unwrap() error {
	return ErrEventNotFound
}
