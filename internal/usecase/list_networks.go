package usecase

import (
	"context"
	"sort"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name      string
	ChainID   uint64
	RPCURL    string
	Reachable bool
	Pinned    bool
	Active    bool
	Error     error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver  NetworkResolver
	connector NetworkConnector
	registry  *ContractRegistry
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, connector NetworkConnector, registry *ContractRegistry) *ListNetworks {
	return &ListNetworks{
		resolver:  resolver,
		connector: connector,
		registry:  registry,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)
	active := uc.registry.ActiveChainID()

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.RPCURL = info.RPCURL
			status.Reachable = uc.connector.Reachable(info.ChainID)
			status.Pinned = uc.registry.IsPinned(info.ChainID)
			status.Active = active != 0 && active == info.ChainID
			if err := uc.registry.LastError(info.ChainID); err != nil {
				status.Error = err
			}
		}

		networks = append(networks, status)
	}

	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].Name < networks[j].Name
	})

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
