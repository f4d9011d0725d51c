package adapters

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/multisig-actions/actions-deploy/internal/adapters/blockchain"
	"github.com/multisig-actions/actions-deploy/internal/adapters/fs"
	"github.com/multisig-actions/actions-deploy/internal/adapters/interactive"
	"github.com/multisig-actions/actions-deploy/internal/adapters/metrics"
	"github.com/multisig-actions/actions-deploy/internal/adapters/pricefeed"
	internalconfig "github.com/multisig-actions/actions-deploy/internal/config"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// ProvidePriceSource wraps the CoinGecko client with retries when configured
func ProvidePriceSource(cfg *config.RuntimeConfig, log *slog.Logger) usecase.PriceSource {
	client := pricefeed.NewCoinGeckoClient(cfg, log)
	if cfg.Oracle.Retries <= 0 {
		return client
	}
	return pricefeed.NewRetrying(client, cfg.Oracle.Retries, cfg.Oracle.RetryInterval, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewAddressRegistryAdapter,
	wire.Bind(new(usecase.AddressRegistry), new(*fs.AddressRegistryAdapter)),
)

// PriceSet provides the market price source
var PriceSet = wire.NewSet(
	ProvidePriceSource,
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployerAdapter,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.DeployerAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// MetricsSet provides the per-run metrics recorder
var MetricsSet = wire.NewSet(
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	PriceSet,
	BlockchainSet,
	InteractiveSet,
	MetricsSet,
	ConfigSet,
)
