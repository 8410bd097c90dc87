package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentState is the state of a deployment session
type DeploymentState int

const (
	StateNotStarted DeploymentState = iota
	StateSubmitted
	StateConfirming
	StateDeployed
	StateFailed
)

func (s DeploymentState) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateSubmitted:
		return "SUBMITTED"
	case StateConfirming:
		return "CONFIRMING"
	case StateDeployed:
		return "DEPLOYED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// InFlight reports whether a deployment is running in this state
func (s DeploymentState) InFlight() bool {
	return s == StateSubmitted || s == StateConfirming
}

// transitions lists every allowed edge. DEPLOYED is only reachable from CONFIRMING.
var transitions = map[DeploymentState][]DeploymentState{
	StateNotStarted: {StateSubmitted},
	StateSubmitted:  {StateNotStarted, StateConfirming, StateFailed},
	StateConfirming: {StateDeployed, StateFailed},
	StateDeployed:   {StateNotStarted},
	StateFailed:     {StateSubmitted, StateNotStarted},
}

// CanTransition reports whether the session may move from one state to another
func CanTransition(from, to DeploymentState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DeploymentSession is a snapshot of one deployment workflow.
// ResultAddress is set only in StateDeployed and FailureReason only in StateFailed.
type DeploymentSession struct {
	ID            string
	State         DeploymentState
	SourceAddress common.Address
	ResultAddress *common.Address
	TxHash        *common.Hash
	FailureReason error
	UpdatedAt     time.Time
}

// SessionTransition is published to observers for every state change
type SessionTransition struct {
	From    DeploymentState
	To      DeploymentState
	Session DeploymentSession
}
