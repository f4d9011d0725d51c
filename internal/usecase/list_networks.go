package usecase

import (
	"context"

	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name        string
	ChainID     domain.ChainID
	Asset       string
	ExplorerURL string
	Error       error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.Names(ctx)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{Name: name}

		network, err := uc.resolver.Resolve(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}

		status.ChainID = network.ChainID
		status.ExplorerURL = network.ExplorerURL
		// Unsupported chains can still be funded in fixed mode
		if asset, err := domain.LookupNativeAsset(network.ChainID); err == nil {
			status.Asset = asset.Symbol
		}
		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
