package abi

import (
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-l2/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/treb-l2/internal/domain"
)

var (
	factoryAddr = common.HexToAddress("0x4200000000000000000000000000000000000012")
	l1Token     = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	l2Token     = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func TestEventDecoder_DecodeReceipt(t *testing.T) {
	factoryABI := bindings.NewL2StandardTokenFactory().ABI()
	erc20ABI := bindings.NewERC20().ABI()
	createdID := factoryABI.Events[domain.EventStandardL2TokenCreated].ID
	transferID := erc20ABI.Events["Transfer"].ID

	transferData, err := erc20ABI.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(1000))
	require.NoError(t, err)

	tests := []struct {
		name       string
		logs       []*types.Log
		useERC20   bool
		wantEvents []string
		check      func(t *testing.T, events []domain.ReceiptEvent)
	}{
		{
			name: "token created event",
			logs: []*types.Log{
				{
					Address: factoryAddr,
					Topics:  []common.Hash{createdID, addressTopic(l1Token), addressTopic(l2Token)},
					Index:   0,
				},
			},
			wantEvents: []string{domain.EventStandardL2TokenCreated},
			check: func(t *testing.T, events []domain.ReceiptEvent) {
				addr, err := events[0].AddressArg(domain.ArgL2Token)
				require.NoError(t, err)
				assert.Equal(t, l2Token, addr)
				addr, err = events[0].AddressArg(domain.ArgL1Token)
				require.NoError(t, err)
				assert.Equal(t, l1Token, addr)
				assert.Equal(t, factoryAddr, events[0].Address)
			},
		},
		{
			name: "unknown logs are skipped",
			logs: []*types.Log{
				{Address: factoryAddr, Topics: []common.Hash{common.HexToHash("0xdead")}},
				{Address: factoryAddr},
				{
					Address: factoryAddr,
					Topics:  []common.Hash{createdID, addressTopic(l1Token), addressTopic(l2Token)},
					Index:   2,
				},
			},
			wantEvents: []string{domain.EventStandardL2TokenCreated},
			check: func(t *testing.T, events []domain.ReceiptEvent) {
				assert.Equal(t, uint(2), events[0].LogIndex)
			},
		},
		{
			name: "topic count mismatch is skipped",
			logs: []*types.Log{
				{Address: factoryAddr, Topics: []common.Hash{createdID, addressTopic(l1Token)}},
			},
			wantEvents: []string{},
		},
		{
			name:       "empty receipt",
			logs:       nil,
			wantEvents: []string{},
		},
		{
			name:     "indexed and data params",
			useERC20: true,
			logs: []*types.Log{
				{
					Address: l1Token,
					Topics:  []common.Hash{transferID, addressTopic(l1Token), addressTopic(l2Token)},
					Data:    transferData,
				},
			},
			wantEvents: []string{"Transfer"},
			check: func(t *testing.T, events []domain.ReceiptEvent) {
				assert.Equal(t, l1Token, events[0].Args["from"])
				assert.Equal(t, l2Token, events[0].Args["to"])
				assert.Equal(t, big.NewInt(1000), events[0].Args["value"])
			},
		},
	}

	decoder := NewEventDecoder(slog.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contractABI := factoryABI
			if tt.useERC20 {
				contractABI = erc20ABI
			}

			events, err := decoder.DecodeReceipt(&types.Receipt{Logs: tt.logs}, contractABI)
			require.NoError(t, err)

			names := make([]string, 0, len(events))
			for _, ev := range events {
				names = append(names, ev.Name)
			}
			assert.Equal(t, tt.wantEvents, names)

			if tt.check != nil {
				tt.check(t, events)
			}
		})
	}
}

func TestEventDecoder_NilReceipt(t *testing.T) {
	decoder := NewEventDecoder(slog.Default())
	_, err := decoder.DecodeReceipt(nil, bindings.NewERC20().ABI())
	assert.Error(t, err)
}
