package usecase

import (
	"context"
	"fmt"

	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// RegistryEntry is one recorded deployment
type RegistryEntry struct {
	ChainID domain.ChainID
	Address domain.ContractAddress
}

// ShowRegistryParams contains parameters for reading the registry
type ShowRegistryParams struct {
	// ChainID restricts the result to one chain when non-zero
	ChainID domain.ChainID
}

// ShowRegistryResult lists registry entries in ascending chain order
type ShowRegistryResult struct {
	Path    string
	Entries []RegistryEntry
}

// ShowRegistry reads the address registry without modifying it
type ShowRegistry struct {
	registry AddressRegistry
}

// NewShowRegistry creates a new ShowRegistry use case
func NewShowRegistry(registry AddressRegistry) *ShowRegistry {
	return &ShowRegistry{registry: registry}
}

// Run executes the use case
func (uc *ShowRegistry) Run(ctx context.Context, params ShowRegistryParams) (*ShowRegistryResult, error) {
	state, err := uc.registry.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowRegistryResult{Path: uc.registry.Path()}

	if params.ChainID != 0 {
		addr, ok := state.Lookup(params.ChainID)
		if !ok {
			return nil, fmt.Errorf("no address recorded for chain %d in %s", params.ChainID, uc.registry.Path())
		}
		result.Entries = []RegistryEntry{{ChainID: params.ChainID, Address: addr}}
		return result, nil
	}

	for _, id := range state.ChainIDs() {
		result.Entries = append(result.Entries, RegistryEntry{ChainID: id, Address: state[id]})
	}
	return result, nil
}
