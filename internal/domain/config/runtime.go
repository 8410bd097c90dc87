package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string // path of treb-l2.toml, empty when running on defaults

	// Context settings
	Network      *Network // active network, nil if not specified
	PinnedChains []uint64 // chains connected once at startup, independent of the active network

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved configurations
	RPCEndpoints map[string]string
	Networks     map[string]*Network
	Deploy       DeployConfig
	Signer       SignerConfig
	Gas          GasConfig
	Connect      ConnectConfig
	ManifestPath string
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// DeployConfig holds the token deployment parameters
type DeployConfig struct {
	Factory     string // manifest name of the factory contract
	TokenName   string
	TokenSymbol string
}

// SignerConfig selects how transactions are signed
type SignerConfig struct {
	PrivateKey string
	Confirm    bool // ask before signing each transaction
}

// GasPolicyKind names a gas price policy
type GasPolicyKind string

const (
	GasPolicyAuto      GasPolicyKind = "auto"
	GasPolicySuggested GasPolicyKind = "suggested"
	GasPolicyFast      GasPolicyKind = "fast"
	GasPolicyFixed     GasPolicyKind = "fixed"
)

// GasConfig holds the gas price policy settings
type GasConfig struct {
	Policy     GasPolicyKind
	Multiplier float64 // used by the fast policy
	Gwei       float64 // used by the fixed policy
}

// ConnectConfig controls how network connections are established
type ConnectConfig struct {
	Attempts     uint
	Delay        time.Duration
	PollInterval time.Duration // receipt and chain id polling
}

// Validate checks the settings that cannot be defaulted
func (c *RuntimeConfig) Validate() error {
	var errs []error

	if c.Deploy.Factory == "" {
		errs = append(errs, errors.New("deploy.factory must name a manifest contract"))
	}

	switch c.Gas.Policy {
	case "", GasPolicyAuto, GasPolicySuggested:
	case GasPolicyFast:
		if c.Gas.Multiplier < 0 {
			errs = append(errs, fmt.Errorf("gas.multiplier must not be negative, got %v", c.Gas.Multiplier))
		}
	case GasPolicyFixed:
		if c.Gas.Gwei <= 0 {
			errs = append(errs, errors.New("fixed gas policy requires gas.gwei > 0"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown gas policy %q", c.Gas.Policy))
	}

	if c.Network != nil && slices.Contains(c.PinnedChains, c.Network.ChainID) {
		errs = append(errs, fmt.Errorf("network %s is pinned and cannot also be the active network", c.Network.Name))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
