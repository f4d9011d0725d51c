//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/multisig-actions/actions-deploy/internal/adapters"
	"github.com/multisig-actions/actions-deploy/internal/config"
	"github.com/multisig-actions/actions-deploy/internal/logging"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveFunding,
		usecase.NewDeployContract,
		usecase.NewShowRegistry,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
