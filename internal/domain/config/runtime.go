package config

import (
	"time"

	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and adapters and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	NetworksFile string
	ArtifactPath string

	// Network is nil if not specified
	Network *Network

	Registry RegistryConfig
	Funding  FundingConfig
	Oracle   OracleConfig

	// Execution settings
	Debug          bool
	LogLevel       string
	NonInteractive bool
	AssumeYes      bool
	Timeout        time.Duration
	ConfirmTimeout time.Duration
	MetricsFile    string
}

// Network represents a deployment target
type Network struct {
	Name        string         `toml:"-"`
	ChainID     domain.ChainID `toml:"chain_id"`
	RPCURL      string         `toml:"rpc_url"`
	PrivateKey  string         `toml:"private_key"`
	ExplorerURL string         `toml:"explorer_url,omitempty"`
}

// RegistryFormat selects the on-disk registry layout
type RegistryFormat string

const (
	// RegistryFormatFlat is a bare {"<chainId>": "<address>"} object
	RegistryFormatFlat RegistryFormat = "flat"
	// RegistryFormatEnvelope wraps the mapping with a schema version
	RegistryFormatEnvelope RegistryFormat = "envelope"
)

// RegistryConfig locates the address registry
type RegistryConfig struct {
	Path   string
	Format RegistryFormat
}

// FundingConfig describes how the constructor amount is resolved
type FundingConfig struct {
	Mode FundingMode
	// Amount is the native literal used in fixed mode
	Amount string
	// TargetValue and Currency define the fiat value used in market mode
	TargetValue string
	Currency    string
	Rounding    domain.RoundingPolicy
}

// FundingMode is re-exported so config consumers do not need the domain import
type FundingMode = domain.FundingMode

// OracleConfig configures the external price source
type OracleConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	Retries       int
	RetryInterval time.Duration
}
