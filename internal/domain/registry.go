package domain

import (
	"maps"
	"slices"
)

// RegistryState maps each chain to the address of its deployed instance.
type RegistryState map[ChainID]ContractAddress

// NewRegistryState returns an empty state
func NewRegistryState() RegistryState {
	return make(RegistryState)
}

// Merge returns a new state with chainID set to address. The receiver is
// never modified and entries for other chains are copied unchanged.
func (s RegistryState) Merge(chainID ChainID, address ContractAddress) RegistryState {
	out := make(RegistryState, len(s)+1)
	maps.Copy(out, s)
	out[chainID] = address
	return out
}

// Lookup returns the recorded address for a chain
func (s RegistryState) Lookup(chainID ChainID) (ContractAddress, bool) {
	addr, ok := s[chainID]
	return addr, ok
}

// ChainIDs returns the recorded chains in ascending order
func (s RegistryState) ChainIDs() []ChainID {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both states hold the same entries
func (s RegistryState) Equal(other RegistryState) bool {
	return maps.Equal(s, other)
}

// DeployedContract is the confirmed result of a deployment transaction
type DeployedContract struct {
	ChainID     ChainID
	Address     ContractAddress
	TxHash      string
	BlockNumber uint64
	BlockHash   string
	GasUsed     uint64
}
