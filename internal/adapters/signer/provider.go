package signer

import (
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// FromConfig builds the signer provider described by the [signer] section.
// The approval prompt pauses sink while it waits for the user.
func FromConfig(cfg *config.RuntimeConfig, sink usecase.ProgressSink) (usecase.SignerProvider, error) {
	if cfg.Signer.PrivateKey == "" {
		return None{}, nil
	}

	key, err := NewPrivateKeySigner(cfg.Signer.PrivateKey)
	if err != nil {
		return nil, err
	}
	if !cfg.Signer.Confirm {
		return key, nil
	}

	if cfg.NonInteractive {
		return NewApprovalSigner(key, AutoApprover{}, nil), nil
	}
	pauser, _ := sink.(usecase.InteractionPauser)
	return NewApprovalSigner(key, PromptApprover{}, pauser), nil
}
