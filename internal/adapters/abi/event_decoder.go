package abi

import (
	"fmt"
	"log/slog"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// EventDecoder decodes the logs of a transaction receipt into named events
type EventDecoder struct {
	log *slog.Logger
}

// NewEventDecoder creates a new event decoder
func NewEventDecoder(log *slog.Logger) *EventDecoder {
	return &EventDecoder{
		log: log.With("component", "EventDecoder"),
	}
}

// DecodeReceipt decodes every log whose signature matches an event in contractABI.
// Logs from other contracts or events are skipped, preserving receipt order.
func (e *EventDecoder) DecodeReceipt(receipt *types.Receipt, contractABI ethabi.ABI) ([]domain.ReceiptEvent, error) {
	if receipt == nil {
		return nil, fmt.Errorf("nil receipt")
	}

	events := make([]domain.ReceiptEvent, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {
		ev, ok, err := e.DecodeLog(log, contractABI)
		if err != nil {
			return nil, fmt.Errorf("log %d: %w", log.Index, err)
		}
		if !ok {
			e.log.Debug("skipping unknown log", "address", log.Address.Hex(), "index", log.Index)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeLog decodes one log. ok is false when no event in contractABI matches.
func (e *EventDecoder) DecodeLog(log *types.Log, contractABI ethabi.ABI) (domain.ReceiptEvent, bool, error) {
	// If there are no topics, we can't decode
	if log == nil || len(log.Topics) == 0 {
		return domain.ReceiptEvent{}, false, nil
	}

	event, err := contractABI.EventByID(log.Topics[0])
	if err != nil {
		return domain.ReceiptEvent{}, false, nil
	}

	params := make(map[string]any)

	// First decode indexed parameters from topics
	var indexedInputs ethabi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexedInputs = append(indexedInputs, input)
		}
	}
	// Same signature, different indexing (e.g. ERC20 vs ERC721 Transfer)
	if len(log.Topics)-1 != len(indexedInputs) {
		e.log.Debug("topic count mismatch", "event", event.Name, "want", len(indexedInputs), "got", len(log.Topics)-1)
		return domain.ReceiptEvent{}, false, nil
	}
	if len(indexedInputs) > 0 {
		if err := ethabi.ParseTopicsIntoMap(params, indexedInputs, log.Topics[1:]); err != nil {
			return domain.ReceiptEvent{}, false, fmt.Errorf("failed to parse topics of %s: %w", event.Name, err)
		}
	}

	// Then decode non-indexed parameters from data
	nonIndexedInputs := event.Inputs.NonIndexed()
	if len(nonIndexedInputs) > 0 && len(log.Data) > 0 {
		values, err := nonIndexedInputs.Unpack(log.Data)
		if err != nil {
			return domain.ReceiptEvent{}, false, fmt.Errorf("failed to unpack data of %s: %w", event.Name, err)
		}
		for i, input := range nonIndexedInputs {
			if i < len(values) {
				params[input.Name] = values[i]
			}
		}
	}

	return domain.ReceiptEvent{
		Name:      event.Name,
		Signature: event.ID,
		Address:   log.Address,
		LogIndex:  log.Index,
		Args:      params,
	}, true, nil
}

// Ensure the adapter implements the interface
var _ usecase.EventDecoder = (*EventDecoder)(nil)
