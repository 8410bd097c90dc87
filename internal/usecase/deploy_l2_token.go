package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/domain/config"
)

const createStandardL2TokenMethod = "createStandardL2Token"

// DeployL2TokenParams contains parameters for deploying an L2 token
type DeployL2TokenParams struct {
	SourceAddress string
}

// DeployL2TokenResult contains the final session of a deployment
type DeployL2TokenResult struct {
	Session domain.DeploymentSession
	Network *config.Network
}

// DeployL2Token drives the L2 standard token deployment state machine.
// It owns a single session; only one deployment may be in flight at a time.
type DeployL2Token struct {
	config     *config.RuntimeConfig
	bindings   BindingResolver
	transactor Transactor
	gasPolicy  GasPricePolicy
	decoder    EventDecoder
	log        *slog.Logger

	mu        sync.Mutex
	session   domain.DeploymentSession
	observers []SessionObserver
}

// NewDeployL2Token creates a new DeployL2Token use case
func NewDeployL2Token(
	cfg *config.RuntimeConfig,
	bindings BindingResolver,
	transactor Transactor,
	gasPolicy GasPricePolicy,
	decoder EventDecoder,
	log *slog.Logger,
) *DeployL2Token {
	return &DeployL2Token{
		config:     cfg,
		bindings:   bindings,
		transactor: transactor,
		gasPolicy:  gasPolicy,
		decoder:    decoder,
		log:        log.With("component", "DeployL2Token"),
		session:    domain.DeploymentSession{State: domain.StateNotStarted},
	}
}

// Observe registers an observer for session transitions
func (uc *DeployL2Token) Observe(observer SessionObserver) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.observers = append(uc.observers, observer)
}

// Session returns a snapshot of the current session
func (uc *DeployL2Token) Session() domain.DeploymentSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.session
}

// Run executes the use case
func (uc *DeployL2Token) Run(ctx context.Context, params DeployL2TokenParams) (*DeployL2TokenResult, error) {
	session, err := uc.Deploy(ctx, params.SourceAddress)
	if err != nil {
		return nil, err
	}
	return &DeployL2TokenResult{Session: session, Network: uc.config.Network}, nil
}

// Deploy submits createStandardL2Token for the L1 token at sourceAddress and
// follows it to DEPLOYED or FAILED.
//
// Malformed addresses and calls made while a deployment is in flight are
// rejected without touching the session. Every other outcome, including user
// rejection, is reported through the returned session state.
func (uc *DeployL2Token) Deploy(ctx context.Context, sourceAddress string) (domain.DeploymentSession, error) {
	if !common.IsHexAddress(sourceAddress) {
		return uc.Session(), fmt.Errorf("%w: %q", domain.ErrInvalidAddress, sourceAddress)
	}
	source := common.HexToAddress(sourceAddress)

	uc.mu.Lock()
	switch uc.session.State {
	case domain.StateNotStarted, domain.StateFailed:
	case domain.StateDeployed:
		uc.mu.Unlock()
		return uc.Session(), fmt.Errorf("%w: token already deployed, reset the session first", domain.ErrSessionBusy)
	default:
		state := uc.session.State
		uc.mu.Unlock()
		return uc.Session(), fmt.Errorf("%w: deployment is %s", domain.ErrSessionBusy, state)
	}
	fresh := uc.session.State == domain.StateNotStarted
	submitted := uc.applyLocked(domain.StateSubmitted, func(s *domain.DeploymentSession) {
		if fresh || s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.SourceAddress = source
		s.TxHash = nil
	})
	uc.mu.Unlock()
	uc.publish(ctx, submitted)

	uc.run(ctx, source)
	return uc.Session(), nil
}

// Retry re-submits the last failed deployment
func (uc *DeployL2Token) Retry(ctx context.Context) (domain.DeploymentSession, error) {
	session := uc.Session()
	if session.State != domain.StateFailed {
		return session, fmt.Errorf("%w: nothing to retry in state %s", domain.ErrSessionBusy, session.State)
	}
	return uc.Deploy(ctx, session.SourceAddress.Hex())
}

// Reset returns a finished session to NOT_STARTED
func (uc *DeployL2Token) Reset(ctx context.Context) error {
	uc.mu.Lock()
	switch uc.session.State {
	case domain.StateNotStarted:
		uc.mu.Unlock()
		return nil
	case domain.StateSubmitted, domain.StateConfirming:
		state := uc.session.State
		uc.mu.Unlock()
		return fmt.Errorf("%w: deployment is %s", domain.ErrSessionBusy, state)
	}
	t := uc.applyLocked(domain.StateNotStarted, func(s *domain.DeploymentSession) {
		*s = domain.DeploymentSession{State: s.State}
	})
	uc.mu.Unlock()
	uc.publish(ctx, t)
	return nil
}

func (uc *DeployL2Token) run(ctx context.Context, source common.Address) {
	chainID, err := uc.targetChain()
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	factoryName := uc.config.Deploy.Factory
	factory, err := uc.bindings.Await(ctx, factoryName, chainID)
	if err != nil {
		uc.fail(ctx, fmt.Errorf("failed to resolve %s: %w", factoryName, err))
		return
	}
	if factory == nil {
		uc.fail(ctx, fmt.Errorf("%w: %s on chain %d", domain.ErrBindingNotReady, factoryName, chainID))
		return
	}

	call := PendingCall{
		Binding: factory,
		Method:  createStandardL2TokenMethod,
		Args:    []any{source, uc.config.Deploy.TokenName, uc.config.Deploy.TokenSymbol},
	}
	handle, err := uc.transactor.Submit(ctx, call, uc.gasPolicy)
	if err != nil {
		if domain.IsUserRejection(err) {
			uc.log.Info("deployment cancelled by user", "source", source.Hex())
			uc.step(ctx, domain.StateNotStarted, func(s *domain.DeploymentSession) {
				s.FailureReason = nil
				s.TxHash = nil
			})
			return
		}
		uc.fail(ctx, err)
		return
	}

	hash := handle.Hash()
	uc.log.Info("deployment submitted", "tx", hash.Hex(), "chain_id", chainID)
	uc.step(ctx, domain.StateConfirming, func(s *domain.DeploymentSession) {
		s.TxHash = &hash
	})

	receipt, err := handle.Wait(ctx)
	if err != nil {
		var mining *domain.MiningFailure
		if !errors.As(err, &mining) {
			err = &domain.MiningFailure{TxHash: hash.Hex(), Reason: "wait failed", Err: err}
		}
		uc.fail(ctx, err)
		return
	}
	uc.log.Debug("receipt", "tx", hash.Hex(), "block", receipt.BlockNumber, "gas_used", receipt.GasUsed, "logs", len(receipt.Logs))

	events, err := uc.decoder.DecodeReceipt(receipt, factory.ABI)
	if err != nil {
		uc.fail(ctx, fmt.Errorf("%w: failed to decode receipt %s: %v", domain.ErrEventNotFound, hash.Hex(), err))
		return
	}

	// only the factory's own log may name the new token
	created, ok := domain.FindEventFrom(events, domain.EventStandardL2TokenCreated, factory.Address)
	if !ok {
		uc.fail(ctx, &domain.EventNotFoundError{Event: domain.EventStandardL2TokenCreated, TxHash: hash.Hex()})
		return
	}
	l2Token, err := created.AddressArg(domain.ArgL2Token)
	if err != nil {
		uc.log.Debug("malformed event", "error", err)
		uc.fail(ctx, &domain.EventNotFoundError{Event: domain.EventStandardL2TokenCreated, Arg: domain.ArgL2Token, TxHash: hash.Hex()})
		return
	}

	uc.log.Info("L2 token deployed", "l1_token", source.Hex(), "l2_token", l2Token.Hex(), "tx", hash.Hex())
	uc.step(ctx, domain.StateDeployed, func(s *domain.DeploymentSession) {
		s.ResultAddress = &l2Token
	})
}

func (uc *DeployL2Token) targetChain() (uint64, error) {
	if uc.config.Network == nil || uc.config.Network.ChainID == 0 {
		return 0, &domain.ConfigurationError{Name: uc.config.Deploy.Factory, Reason: "no target network configured"}
	}
	return uc.config.Network.ChainID, nil
}

func (uc *DeployL2Token) fail(ctx context.Context, reason error) {
	uc.log.Warn("deployment failed", "error", reason)
	uc.step(ctx, domain.StateFailed, func(s *domain.DeploymentSession) {
		s.FailureReason = reason
	})
}

// step applies one transition and notifies observers before returning
func (uc *DeployL2Token) step(ctx context.Context, to domain.DeploymentState, mutate func(*domain.DeploymentSession)) {
	uc.mu.Lock()
	t := uc.applyLocked(to, mutate)
	uc.mu.Unlock()
	uc.publish(ctx, t)
}

// applyLocked moves the session to the next state. Result and failure fields
// are cleared unless the target state owns them.
func (uc *DeployL2Token) applyLocked(to domain.DeploymentState, mutate func(*domain.DeploymentSession)) *domain.SessionTransition {
	from := uc.session.State
	if !domain.CanTransition(from, to) {
		uc.log.Error("illegal session transition", "from", from.String(), "to", to.String())
		return nil
	}

	uc.session.State = to
	if to != domain.StateDeployed {
		uc.session.ResultAddress = nil
	}
	if to != domain.StateFailed {
		uc.session.FailureReason = nil
	}
	if mutate != nil {
		mutate(&uc.session)
	}
	uc.session.State = to
	uc.session.UpdatedAt = time.Now()

	return &domain.SessionTransition{From: from, To: to, Session: uc.session}
}

func (uc *DeployL2Token) publish(ctx context.Context, t *domain.SessionTransition) {
	if t == nil {
		return
	}
	uc.mu.Lock()
	observers := make([]SessionObserver, len(uc.observers))
	copy(observers, uc.observers)
	uc.mu.Unlock()

	for _, o := range observers {
		o.OnTransition(ctx, *t)
	}
}
