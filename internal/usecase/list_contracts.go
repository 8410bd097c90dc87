package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-l2/internal/domain"
)

// ListContractsParams contains parameters for listing contracts
type ListContractsParams struct {
	ChainID uint64 // 0 lists every chain
	Connect bool   // wait for connections instead of reporting "connecting"
}

// ContractStatus is one manifest entry and the state of its binding
type ContractStatus struct {
	Entry      domain.ContractEntry
	Network    string
	Binding    *domain.Binding
	Connecting bool
	Error      error
}

// ListContractsResult contains the result of listing contracts
type ListContractsResult struct {
	Contracts []ContractStatus
}

// ListContracts resolves every manifest entry through the registry
type ListContracts struct {
	manifest ContractManifest
	resolver NetworkResolver
	registry *ContractRegistry
	progress ProgressSink
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(manifest ContractManifest, resolver NetworkResolver, registry *ContractRegistry, progress ProgressSink) *ListContracts {
	return &ListContracts{
		manifest: manifest,
		resolver: resolver,
		registry: registry,
		progress: progress,
	}
}

// Run executes the use case
func (uc *ListContracts) Run(ctx context.Context, params ListContractsParams) (*ListContractsResult, error) {
	entries := uc.manifest.Entries()
	if params.ChainID != 0 {
		entries = lo.Filter(entries, func(e domain.ContractEntry, _ int) bool {
			return e.ChainID == params.ChainID
		})
		if len(entries) == 0 {
			return nil, &domain.ConfigurationError{ChainID: params.ChainID, Reason: "no contracts in manifest"}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ChainID != entries[j].ChainID {
			return entries[i].ChainID < entries[j].ChainID
		}
		return entries[i].Name < entries[j].Name
	})

	contracts := make([]ContractStatus, 0, len(entries))
	for i, entry := range entries {
		status := ContractStatus{Entry: entry}
		if network, err := uc.resolver.GetNetworkByChainID(entry.ChainID); err == nil {
			status.Network = network.Name
		}

		var binding *domain.Binding
		var err error
		if params.Connect {
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:   "connecting",
				Current: i + 1,
				Total:   len(entries),
				Message: fmt.Sprintf("Connecting %s on chain %d", entry.Name, entry.ChainID),
				Spinner: true,
			})
			binding, err = uc.registry.Await(ctx, entry.Name, entry.ChainID)
		} else {
			binding, err = uc.registry.Resolve(ctx, entry.Name, entry.ChainID)
		}

		switch {
		case err != nil:
			status.Error = err
		case binding == nil:
			status.Connecting = true
		default:
			status.Binding = binding
		}
		contracts = append(contracts, status)
	}

	if params.Connect {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "done", Spinner: false})
	}

	return &ListContractsResult{Contracts: contracts}, nil
}
