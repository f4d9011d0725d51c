package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
)

// DeployContractParams contains parameters for one orchestration run
type DeployContractParams struct {
	// DryRun resolves the funding amount and validates the registry without
	// touching the chain or the registry file.
	DryRun bool
}

// DeployContractResult describes a finished run
type DeployContractResult struct {
	ChainID         domain.ChainID
	Funding         *domain.FundingAmount
	Contract        *domain.DeployedContract
	PreviousAddress domain.ContractAddress
	Registry        domain.RegistryState
	RegistryPath    string
	DryRun          bool
}

// DeployContract deploys the contract on the configured network and records
// its address in the registry.
type DeployContract struct {
	config   *config.RuntimeConfig
	funding  *ResolveFunding
	deployer ContractDeployer
	registry AddressRegistry
	confirm  Confirmer
	metrics  MetricsRecorder
	sink     ProgressSink
	log      *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	funding *ResolveFunding,
	deployer ContractDeployer,
	registry AddressRegistry,
	confirm Confirmer,
	metrics MetricsRecorder,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	if sink == nil {
		sink = NopProgress{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &DeployContract{
		config:   cfg,
		funding:  funding,
		deployer: deployer,
		registry: registry,
		confirm:  confirm,
		metrics:  metrics,
		sink:     sink,
		log:      log,
	}
}

// Run executes load registry -> resolve funding -> deploy -> merge -> persist
// for the configured network. A failure at any stage aborts the run; the
// registry is only written after a confirmed deployment.
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected, --network flag is required")
	}
	chainID := uc.config.Network.ChainID

	banner := fmt.Sprintf("---------- Deploying to chain %d ----------", chainID)
	uc.sink.Info(banner)
	uc.log.Info("starting deployment", "chain_id", chainID, "network", uc.config.Network.Name, "dry_run", params.DryRun)

	result := &DeployContractResult{
		ChainID:      chainID,
		RegistryPath: uc.registry.Path(),
		DryRun:       params.DryRun,
	}

	// Load first: a corrupt registry must stop the run before anything is broadcast.
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageRegistry, Message: "Loading address registry"})
	state, err := observe(uc.metrics, StageRegistry, func() (domain.RegistryState, error) {
		return uc.registry.Load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if prev, ok := state.Lookup(chainID); ok {
		result.PreviousAddress = prev
		uc.log.Warn("chain already has a recorded address, it will be replaced", "chain_id", chainID, "address", prev)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageFunding, Message: "Resolving funding amount"})
	funding, err := observe(uc.metrics, StageFunding, func() (*domain.FundingAmount, error) {
		return uc.funding.Run(ctx, chainID, uc.config.Funding)
	})
	if err != nil {
		return nil, err
	}
	result.Funding = funding
	uc.metrics.SetFundingUnits(chainID, funding.Units)

	if params.DryRun {
		result.Registry = state
		return result, nil
	}

	ok, err := observe(uc.metrics, StageConfirm, func() (bool, error) {
		return uc.confirm.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d) with %s native units (%s wei)",
			uc.config.Network.Name, chainID, funding.Native.String(), funding.Units.String()))
	})
	if err != nil {
		// Nothing has been signed yet, so an aborted prompt counts as a decline
		return nil, fmt.Errorf("confirmation failed: %w: %w", domain.ErrDeploymentDeclined, err)
	}
	if !ok {
		return nil, domain.ErrDeploymentDeclined
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageDeploy, Message: "Waiting for deployment confirmation", Spinner: true})
	contract, err := observe(uc.metrics, StageDeploy, func() (*domain.DeployedContract, error) {
		return uc.deployer.Deploy(ctx, funding.Units)
	})
	if err != nil {
		uc.sink.Error(fmt.Sprintf("Deployment on chain %d failed", chainID))
		var deployErr *domain.DeploymentError
		if !errors.As(err, &deployErr) {
			err = &domain.DeploymentError{ChainID: chainID, Kind: domain.ErrSubmission, Err: err}
		}
		return nil, err
	}
	result.Contract = contract
	uc.log.Info("contract deployed", "chain_id", chainID, "address", contract.Address, "tx", contract.TxHash, "block", contract.BlockNumber)

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StagePersist, Message: "Recording address"})
	next := state.Merge(chainID, contract.Address)
	_, err = observe(uc.metrics, StagePersist, func() (struct{}, error) {
		// The receipt is in, so record it even if the run is being canceled
		return struct{}{}, uc.registry.Persist(context.WithoutCancel(ctx), next)
	})
	if err != nil {
		persistErr := &domain.PersistenceError{
			ChainID: chainID,
			Path:    uc.registry.Path(),
			Address: contract.Address,
			TxHash:  contract.TxHash,
			Err:     err,
		}
		uc.log.Error("contract deployed but not recorded, add it to the registry by hand",
			"chain_id", chainID, "address", contract.Address, "tx", contract.TxHash, "registry", uc.registry.Path(), "error", err)
		return nil, persistErr
	}

	result.Registry = next
	return result, nil
}

func observe[T any](metrics MetricsRecorder, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.ObserveStage(stage, time.Since(start), err)
	return v, err
}
