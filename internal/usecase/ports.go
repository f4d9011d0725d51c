package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

// PriceSource fetches the current fiat price of a native asset.
// Implementations must not cache quotes.
type PriceSource interface {
	Quote(ctx context.Context, assetID, currency string) (*domain.PriceQuote, error)
}

// ContractDeployer instantiates the deployable unit with a constructor
// amount expressed in smallest units and blocks until it is confirmed.
// It submits at most one transaction per call.
type ContractDeployer interface {
	Deploy(ctx context.Context, units *big.Int) (*domain.DeployedContract, error)
}

// AddressRegistry loads and persists the chain to address mapping
type AddressRegistry interface {
	Load(ctx context.Context) (domain.RegistryState, error)
	Persist(ctx context.Context, state domain.RegistryState) error
	Path() string
}

// NetworkResolver resolves configured deployment targets
type NetworkResolver interface {
	Names(ctx context.Context) []string
	Resolve(ctx context.Context, name string) (*config.Network, error)
}

// Confirmer asks the operator before anything is broadcast
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// MetricsRecorder observes orchestration stages
type MetricsRecorder interface {
	ObserveStage(stage string, took time.Duration, err error)
	SetFundingUnits(chainID domain.ChainID, units *big.Int)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NopMetrics discards observations
type NopMetrics struct{}

func (NopMetrics) ObserveStage(string, time.Duration, error) {}
func (NopMetrics) SetFundingUnits(domain.ChainID, *big.Int)  {}

// Orchestration stage names used for progress and metrics
const (
	StageRegistry = "registry"
	StageFunding  = "funding"
	StageConfirm  = "confirm"
	StageDeploy   = "deploy"
	StagePersist  = "persist"
)
