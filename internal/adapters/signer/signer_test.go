package signer

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// anvil's first dev account
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var devAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type stubApprover struct {
	approve bool
	err     error
	calls   int
	onCall  func()
}

func (s *stubApprover) Approve(ctx context.Context, chainID *big.Int, from common.Address, tx *types.Transaction) (bool, error) {
	s.calls++
	if s.onCall != nil {
		s.onCall()
	}
	return s.approve, s.err
}

// recordingPauser is a progress sink that tracks Pause and resume calls
type recordingPauser struct {
	usecase.NopProgress
	paused  bool
	pauses  int
	resumes int
}

func (p *recordingPauser) Pause() func() {
	p.paused = true
	p.pauses++
	return func() {
		p.paused = false
		p.resumes++
	}
}

func newTx() *types.Transaction {
	to := common.HexToAddress("0x4200000000000000000000000000000000000012")
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Gas:      100000,
		GasPrice: big.NewInt(1_000_000_000),
		Data:     []byte{0x89, 0x6f, 0x93, 0xd1},
	})
}

func TestPrivateKeySigner(t *testing.T) {
	for _, key := range []string{devKey, "0x" + devKey, " 0x" + devKey + "\n"} {
		s, err := NewPrivateKeySigner(key)
		require.NoError(t, err)
		assert.Equal(t, devAddress, s.Address())
	}

	_, err := NewPrivateKeySigner("not-a-key")
	assert.Error(t, err)
}

func TestPrivateKeySigner_SignsForChain(t *testing.T) {
	s, err := NewPrivateKeySigner(devKey)
	require.NoError(t, err)

	opts, err := s.Signer(context.Background(), big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, devAddress, opts.From)

	signed, err := opts.Signer(opts.From, newTx())
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(10)), signed)
	require.NoError(t, err)
	assert.Equal(t, devAddress, sender)
}

func TestApprovalSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	inner := FromKey(key)

	tests := []struct {
		name         string
		approver     *stubApprover
		wantRejected bool
		wantErr      bool
	}{
		{name: "approved", approver: &stubApprover{approve: true}},
		{name: "declined", approver: &stubApprover{approve: false}, wantRejected: true, wantErr: true},
		{name: "prompt error", approver: &stubApprover{err: errors.New("no tty")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewApprovalSigner(inner, tt.approver, nil)
			opts, err := s.Signer(context.Background(), big.NewInt(69))
			require.NoError(t, err)

			signed, err := opts.Signer(opts.From, newTx())
			assert.Equal(t, 1, tt.approver.calls)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, signed)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantRejected, domain.IsUserRejection(err))

			var rejected *domain.RejectedError
			if tt.wantRejected {
				require.ErrorAs(t, err, &rejected)
				assert.Equal(t, domain.RejectionCode, rejected.Code)
			}
		})
	}
}

func TestApprovalSigner_PausesProgressWhilePrompting(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name    string
		approve bool
	}{
		{name: "approved", approve: true},
		{name: "declined", approve: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pauser := &recordingPauser{}
			approver := &stubApprover{approve: tt.approve}
			approver.onCall = func() {
				assert.True(t, pauser.paused, "progress must be paused while the approver runs")
			}

			s := NewApprovalSigner(FromKey(key), approver, pauser)
			opts, err := s.Signer(context.Background(), big.NewInt(10))
			require.NoError(t, err)

			_, _ = opts.Signer(opts.From, newTx())
			assert.Equal(t, 1, approver.calls)
			assert.Equal(t, 1, pauser.pauses)
			assert.Equal(t, 1, pauser.resumes)
			assert.False(t, pauser.paused)
		})
	}
}

func TestNone(t *testing.T) {
	_, err := None{}.Signer(context.Background(), big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrNoSigner)
}

func TestFromConfig(t *testing.T) {
	sink := &recordingPauser{}

	p, err := FromConfig(&config.RuntimeConfig{}, sink)
	require.NoError(t, err)
	assert.IsType(t, None{}, p)

	p, err = FromConfig(&config.RuntimeConfig{Signer: config.SignerConfig{PrivateKey: devKey}}, sink)
	require.NoError(t, err)
	assert.IsType(t, &PrivateKeySigner{}, p)

	p, err = FromConfig(&config.RuntimeConfig{Signer: config.SignerConfig{PrivateKey: devKey, Confirm: true}}, sink)
	require.NoError(t, err)
	require.IsType(t, &ApprovalSigner{}, p)
	assert.Same(t, sink, p.(*ApprovalSigner).pauser)
	assert.IsType(t, PromptApprover{}, p.(*ApprovalSigner).approver)

	p, err = FromConfig(&config.RuntimeConfig{
		NonInteractive: true,
		Signer:         config.SignerConfig{PrivateKey: devKey, Confirm: true},
	}, sink)
	require.NoError(t, err)
	require.IsType(t, &ApprovalSigner{}, p)
	assert.IsType(t, AutoApprover{}, p.(*ApprovalSigner).approver)
	assert.Nil(t, p.(*ApprovalSigner).pauser)

	p, err = FromConfig(&config.RuntimeConfig{Signer: config.SignerConfig{PrivateKey: devKey, Confirm: true}}, usecase.NopProgress{})
	require.NoError(t, err)
	assert.Nil(t, p.(*ApprovalSigner).pauser, "sinks that cannot pause are ignored")

	_, err = FromConfig(&config.RuntimeConfig{Signer: config.SignerConfig{PrivateKey: "zz"}}, sink)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	lines := Summarize(big.NewInt(10), devAddress, newTx())
	assert.Contains(t, lines, "to:        0x4200000000000000000000000000000000000012")
	assert.Contains(t, lines, "gas price: 1.00 gwei")
	assert.Contains(t, lines, "selector:  0x896f93d1")
}
