package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

const (
	addrA = domain.ContractAddress("0x1111111111111111111111111111111111111111")
	addrB = domain.ContractAddress("0x2222222222222222222222222222222222222222")
	addrC = domain.ContractAddress("0x3333333333333333333333333333333333333333")
)

type deployFixture struct {
	cfg      *config.RuntimeConfig
	prices   *MockPriceSource
	deployer *MockContractDeployer
	confirm  *MockConfirmer
	registry *memRegistry
	metrics  *stageRecorder
	sink     *MockProgressSink
}

func newDeployFixture(chainID domain.ChainID) *deployFixture {
	return &deployFixture{
		cfg: &config.RuntimeConfig{
			Network: &config.Network{Name: "testnet", ChainID: chainID},
			Funding: config.FundingConfig{Mode: domain.FundingModeFixed, Amount: "0.00003"},
		},
		prices:   new(MockPriceSource),
		deployer: new(MockContractDeployer),
		confirm:  new(MockConfirmer),
		registry: &memRegistry{},
		metrics:  &stageRecorder{},
		sink:     &MockProgressSink{},
	}
}

func (f *deployFixture) useCase() *usecase.DeployContract {
	log := slog.New(slog.DiscardHandler)
	return usecase.NewDeployContract(
		f.cfg,
		usecase.NewResolveFunding(f.prices, log),
		f.deployer,
		f.registry,
		f.confirm,
		f.metrics,
		f.sink,
		log,
	)
}

func (f *deployFixture) expectDeploy(want string, contract *domain.DeployedContract, err error) {
	matcher := mock.MatchedBy(func(u *big.Int) bool { return u.String() == want })
	if contract == nil {
		f.deployer.On("Deploy", mock.Anything, matcher).Return(nil, err).Once()
		return
	}
	f.deployer.On("Deploy", mock.Anything, matcher).Return(contract, err).Once()
}

func deployed(chainID domain.ChainID, addr domain.ContractAddress) *domain.DeployedContract {
	return &domain.DeployedContract{ChainID: chainID, Address: addr, TxHash: "0xfeed", BlockNumber: 7}
}

func TestDeployContract_FirstDeployment(t *testing.T) {
	f := newDeployFixture(1337)
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.expectDeploy("30000000000000", deployed(1337, addrA), nil)

	result, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.NoError(t, err)

	assert.Equal(t, domain.RegistryState{1337: addrA}, result.Registry)
	require.Len(t, f.registry.persisted, 1)
	assert.Equal(t, domain.RegistryState{1337: addrA}, f.registry.persisted[0])
	assert.Equal(t, addrA, result.Contract.Address)
	assert.Empty(t, result.PreviousAddress)
	assert.Equal(t, "30000000000000", f.metrics.units[1337].String())
	assert.Equal(t, []string{"---------- Deploying to chain 1337 ----------"}, f.sink.infos)
	assert.Equal(t, []string{
		usecase.StageRegistry, usecase.StageFunding, usecase.StageConfirm, usecase.StageDeploy, usecase.StagePersist,
	}, f.metrics.stages)
	f.deployer.AssertExpectations(t)
}

func TestDeployContract_KeepsOtherChains(t *testing.T) {
	f := newDeployFixture(1337)
	f.registry.state = domain.RegistryState{97: addrB}
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.expectDeploy("30000000000000", deployed(1337, addrA), nil)

	result, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.NoError(t, err)

	want := domain.RegistryState{97: addrB, 1337: addrA}
	assert.Equal(t, want, result.Registry)
	assert.Equal(t, want, f.registry.state)
}

func TestDeployContract_ReplacesSameChain(t *testing.T) {
	f := newDeployFixture(97)
	f.registry.state = domain.RegistryState{97: addrB, 1337: addrA}
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.expectDeploy("30000000000000", deployed(97, addrC), nil)

	result, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.NoError(t, err)

	assert.Equal(t, addrB, result.PreviousAddress)
	assert.Equal(t, domain.RegistryState{97: addrC, 1337: addrA}, f.registry.state)
}

func TestDeployContract_MarketFunding(t *testing.T) {
	f := newDeployFixture(97)
	f.cfg.Funding = config.FundingConfig{Mode: domain.FundingModeMarket, TargetValue: "10", Currency: "usd"}
	f.prices.On("Quote", mock.Anything, "binancecoin", "usd").
		Return(&domain.PriceQuote{AssetID: "binancecoin", Currency: "usd", Price: decimal.NewFromInt(300)}, nil)
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.expectDeploy("33333333333333333", deployed(97, addrB), nil)

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.NoError(t, err)
	f.deployer.AssertExpectations(t)
}

func TestDeployContract_CorruptRegistry(t *testing.T) {
	f := newDeployFixture(1337)
	f.registry.loadErr = &domain.RegistryError{Path: "actions_addresses.json", Err: errors.New("not an object")}

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.Error(t, err)

	var regErr *domain.RegistryError
	assert.ErrorAs(t, err, &regErr)
	assert.Equal(t, domain.OutcomeNothingHappened, domain.Classify(err))
	assert.Empty(t, f.registry.persisted)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
	f.confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	assert.Equal(t, []string{usecase.StageRegistry}, f.metrics.failed)
}

func TestDeployContract_OracleFailure(t *testing.T) {
	f := newDeployFixture(97)
	f.registry.state = domain.RegistryState{97: addrB}
	f.cfg.Funding = config.FundingConfig{Mode: domain.FundingModeMarket, TargetValue: "10", Currency: "usd"}
	f.prices.On("Quote", mock.Anything, "binancecoin", "usd").Return(nil, domain.ErrPriceUnavailable)

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	assert.Equal(t, domain.OutcomeNothingHappened, domain.Classify(err))
	assert.Empty(t, f.registry.persisted)
	assert.Equal(t, domain.RegistryState{97: addrB}, f.registry.state)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployContract_DeploymentFailure(t *testing.T) {
	t.Run("submitted but unconfirmed", func(t *testing.T) {
		f := newDeployFixture(97)
		f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
		f.expectDeploy("30000000000000", nil, &domain.DeploymentError{
			ChainID:   97,
			Kind:      domain.ErrConfirmationTimeout,
			TxHash:    "0xabc",
			Submitted: true,
		})

		_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfirmationTimeout)
		assert.Equal(t, domain.OutcomeChainStateUnknown, domain.Classify(err))
		assert.Empty(t, f.registry.persisted)
		assert.NotEmpty(t, f.sink.errors)
	})

	t.Run("plain error is treated as not submitted", func(t *testing.T) {
		f := newDeployFixture(97)
		f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
		f.expectDeploy("30000000000000", nil, errors.New("insufficient funds for gas"))

		_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
		var deployErr *domain.DeploymentError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, domain.ErrSubmission, deployErr.Kind)
		assert.Equal(t, domain.ChainID(97), deployErr.ChainID)
		assert.Empty(t, f.registry.persisted)
	})
}

func TestDeployContract_PersistFailure(t *testing.T) {
	f := newDeployFixture(1337)
	f.registry.persistErr = errors.New("read-only file system")
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(true, nil)
	f.expectDeploy("30000000000000", deployed(1337, addrA), nil)

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.Error(t, err)

	var persistErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, addrA, persistErr.Address)
	assert.Equal(t, "0xfeed", persistErr.TxHash)
	assert.Equal(t, domain.OutcomeDeployedNotRecorded, domain.Classify(err))
	assert.Contains(t, err.Error(), string(addrA))
}

func TestDeployContract_DryRun(t *testing.T) {
	f := newDeployFixture(1337)
	f.registry.state = domain.RegistryState{97: addrB}

	result, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Nil(t, result.Contract)
	assert.Equal(t, "30000000000000", result.Funding.Units.String())
	assert.Equal(t, domain.RegistryState{97: addrB}, result.Registry)
	assert.Empty(t, f.registry.persisted)
	f.confirm.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployContract_Declined(t *testing.T) {
	f := newDeployFixture(1337)
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	assert.ErrorIs(t, err, domain.ErrDeploymentDeclined)
	assert.Equal(t, domain.OutcomeNothingHappened, domain.Classify(err))
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployContract_ConfirmInterrupted(t *testing.T) {
	f := newDeployFixture(1337)
	f.confirm.On("Confirm", mock.Anything, mock.Anything).Return(false, context.Canceled)

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrDeploymentDeclined)
	assert.Equal(t, domain.OutcomeNothingHappened, domain.Classify(err))
	f.deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployContract_NoNetwork(t *testing.T) {
	f := newDeployFixture(1337)
	f.cfg.Network = nil

	_, err := f.useCase().Run(context.Background(), usecase.DeployContractParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--network")
}

func TestDeployContract_OptionalSinks(t *testing.T) {
	f := newDeployFixture(1337)
	log := slog.New(slog.DiscardHandler)
	uc := usecase.NewDeployContract(f.cfg, usecase.NewResolveFunding(f.prices, log), f.deployer, f.registry, f.confirm, nil, nil, log)

	result, err := uc.Run(context.Background(), usecase.DeployContractParams{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "30000000000000", result.Funding.Units.String())
}
