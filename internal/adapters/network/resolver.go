package network

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/trebuchet-org/treb-l2/internal/domain/config"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// Resolver handles network configuration resolution
type Resolver struct {
	networks      map[string]*config.Network
	chainIDLookup map[uint64]string // chainID -> network name
}

// NewResolver creates a network resolver from the runtime configuration
func NewResolver(cfg *config.RuntimeConfig) *Resolver {
	r := &Resolver{
		networks:      make(map[string]*config.Network),
		chainIDLookup: make(map[uint64]string),
	}

	// Initialize with default networks
	r.initializeDefaultNetworks()

	r.LoadNetworks(cfg.Networks)
	r.LoadRPCEndpoints(cfg.RPCEndpoints)

	return r
}

// initializeDefaultNetworks sets up well-known networks
func (r *Resolver) initializeDefaultNetworks() {
	defaultNetworks := []config.Network{
		{ChainID: 1, Name: "mainnet", ExplorerURL: "https://etherscan.io"},
		{ChainID: 11155111, Name: "sepolia", ExplorerURL: "https://sepolia.etherscan.io"},
		{ChainID: 5, Name: "goerli", ExplorerURL: "https://goerli.etherscan.io"},
		{ChainID: 42, Name: "kovan", ExplorerURL: "https://kovan.etherscan.io"},
		{ChainID: 10, Name: "optimism", ExplorerURL: "https://optimistic.etherscan.io"},
		{ChainID: 11155420, Name: "optimism-sepolia", ExplorerURL: "https://sepolia-optimism.etherscan.io"},
		{ChainID: 420, Name: "optimism-goerli", ExplorerURL: "https://goerli-optimism.etherscan.io"},
		{ChainID: 69, Name: "optimism-kovan", ExplorerURL: "https://kovan-optimistic.etherscan.io"},
		{ChainID: 31337, Name: "localhost", RPCURL: "http://localhost:8545"},
	}

	for _, network := range defaultNetworks {
		r.addNetwork(&network)
	}
}

// addNetwork adds a network configuration
func (r *Resolver) addNetwork(network *config.Network) {
	r.networks[strings.ToLower(network.Name)] = network
	r.chainIDLookup[network.ChainID] = network.Name
}

// LoadNetworks loads additional network configurations
func (r *Resolver) LoadNetworks(networks map[string]*config.Network) {
	for name, network := range networks {
		// Ensure name is set
		if network.Name == "" {
			network.Name = name
		}
		r.addNetwork(network)
	}
}

// LoadRPCEndpoints sets RPC URLs from [rpc_endpoints]. Endpoints for unknown
// names must be keyed by a chain id to be usable.
func (r *Resolver) LoadRPCEndpoints(endpoints map[string]string) {
	for name, rpcURL := range endpoints {
		if network, ok := r.networks[strings.ToLower(name)]; ok {
			network.RPCURL = rpcURL
			continue
		}
		if chainID, err := strconv.ParseUint(name, 10, 64); err == nil {
			if known, ok := r.chainIDLookup[chainID]; ok {
				r.networks[strings.ToLower(known)].RPCURL = rpcURL
				continue
			}
			r.addNetwork(&config.Network{ChainID: chainID, Name: fmt.Sprintf("chain-%d", chainID), RPCURL: rpcURL})
		}
	}
}

// GetNetworks returns the names of every known network, sorted
func (r *Resolver) GetNetworks(ctx context.Context) []string {
	names := make([]string, 0, len(r.chainIDLookup))
	for _, name := range r.chainIDLookup {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveNetwork resolves a network by name or chain ID
func (r *Resolver) ResolveNetwork(ctx context.Context, input string) (*config.Network, error) {
	// Empty input
	if input == "" {
		return nil, fmt.Errorf("network not specified")
	}

	// Case-insensitive name lookup
	if network, ok := r.networks[strings.ToLower(input)]; ok {
		return network, nil
	}

	// Try to parse as chain ID
	if chainID, err := strconv.ParseUint(input, 10, 64); err == nil {
		return r.GetNetworkByChainID(chainID)
	}

	return nil, fmt.Errorf("unknown network: %s", input)
}

// GetNetworkByChainID retrieves a network by its chain ID
func (r *Resolver) GetNetworkByChainID(chainID uint64) (*config.Network, error) {
	if name, ok := r.chainIDLookup[chainID]; ok {
		return r.networks[strings.ToLower(name)], nil
	}
	return nil, fmt.Errorf("no network configured for chain ID %d", chainID)
}

// GetRPCURL returns the RPC URL for a chain
func (r *Resolver) GetRPCURL(chainID uint64) (string, error) {
	net, err := r.GetNetworkByChainID(chainID)
	if err != nil {
		return "", err
	}

	if net.RPCURL == "" {
		return "", fmt.Errorf("no RPC URL configured for network %s", net.Name)
	}

	return net.RPCURL, nil
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*Resolver)(nil)
