package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeDecimals is the number of decimals of the native currency on every
// supported chain (wei for ETH, jager for BNB, ...).
const NativeDecimals int32 = 18

// ChainID identifies a target network. Zero is never a valid chain ID.
type ChainID uint64

// String returns the decimal form used as the registry key
func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainID parses a decimal chain ID as it appears in registry keys.
func ParseChainID(s string) (ChainID, error) {
	if s == "" || strings.TrimSpace(s) != s || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChainID, s)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChainID, s)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: chain ID must be positive", ErrInvalidChainID)
	}
	// "01" and "1" would otherwise collapse into one registry entry
	if ChainID(v).String() != s {
		return 0, fmt.Errorf("%w: %q is not in canonical decimal form", ErrInvalidChainID, s)
	}
	return ChainID(v), nil
}

// ContractAddress is a deployed contract address in EIP-55 checksummed form
type ContractAddress string

// ParseContractAddress validates a hex address and normalizes it to its
// checksummed form.
func ParseContractAddress(s string) (ContractAddress, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return ContractAddress(common.HexToAddress(s).Hex()), nil
}

// AddressFromCommon converts a go-ethereum address.
func AddressFromCommon(a common.Address) ContractAddress {
	return ContractAddress(a.Hex())
}

func (a ContractAddress) String() string {
	return string(a)
}

// NativeAsset is the price-source identity of a chain's native currency
type NativeAsset struct {
	ID     string
	Symbol string
}

// NativeAssets maps supported chains to the asset identifier understood by
// the price source. Chains missing here cannot be funded in market mode.
var NativeAssets = map[ChainID]NativeAsset{
	1:        {ID: "ethereum", Symbol: "ETH"},
	10:       {ID: "ethereum", Symbol: "ETH"},
	56:       {ID: "binancecoin", Symbol: "BNB"},
	97:       {ID: "binancecoin", Symbol: "BNB"},
	137:      {ID: "matic-network", Symbol: "POL"},
	250:      {ID: "fantom", Symbol: "FTM"},
	8453:     {ID: "ethereum", Symbol: "ETH"},
	42161:    {ID: "ethereum", Symbol: "ETH"},
	43113:    {ID: "avalanche-2", Symbol: "AVAX"},
	43114:    {ID: "avalanche-2", Symbol: "AVAX"},
	80002:    {ID: "matic-network", Symbol: "POL"},
	11155111: {ID: "ethereum", Symbol: "ETH"},
}

// LookupNativeAsset returns the native asset for a chain or ErrUnsupportedChain
func LookupNativeAsset(chainID ChainID) (NativeAsset, error) {
	asset, ok := NativeAssets[chainID]
	if !ok {
		return NativeAsset{}, fmt.Errorf("%w: no native asset mapping for chain %d", ErrUnsupportedChain, chainID)
	}
	return asset, nil
}
