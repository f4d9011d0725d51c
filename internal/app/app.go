package app

import (
	"github.com/multisig-actions/actions-deploy/internal/adapters/blockchain"
	"github.com/multisig-actions/actions-deploy/internal/adapters/metrics"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContract *usecase.DeployContract
	ResolveFunding *usecase.ResolveFunding
	ShowRegistry   *usecase.ShowRegistry
	ListNetworks   *usecase.ListNetworks

	// Adapters with a lifecycle
	Deployer *blockchain.DeployerAdapter
	Metrics  *metrics.Recorder
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContract *usecase.DeployContract,
	resolveFunding *usecase.ResolveFunding,
	showRegistry *usecase.ShowRegistry,
	listNetworks *usecase.ListNetworks,
	deployer *blockchain.DeployerAdapter,
	recorder *metrics.Recorder,
) (*App, error) {
	return &App{
		Config:         cfg,
		DeployContract: deployContract,
		ResolveFunding: resolveFunding,
		ShowRegistry:   showRegistry,
		ListNetworks:   listNetworks,
		Deployer:       deployer,
		Metrics:        recorder,
	}, nil
}

// Close releases connections and flushes metrics
func (a *App) Close() error {
	if a.Deployer != nil {
		a.Deployer.Close()
	}
	if a.Metrics != nil {
		return a.Metrics.Flush()
	}
	return nil
}
