package usecase_test

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// MockPriceSource is a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) Quote(ctx context.Context, assetID, currency string) (*domain.PriceQuote, error) {
	args := m.Called(ctx, assetID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

// MockContractDeployer is a mock implementation of ContractDeployer
type MockContractDeployer struct {
	mock.Mock
}

func (m *MockContractDeployer) Deploy(ctx context.Context, units *big.Int) (*domain.DeployedContract, error) {
	args := m.Called(ctx, units)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeployedContract), args.Error(1)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) Names(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// memRegistry keeps the registry in memory and records every write
type memRegistry struct {
	state      domain.RegistryState
	loadErr    error
	persistErr error
	persisted  []domain.RegistryState
}

func (r *memRegistry) Load(context.Context) (domain.RegistryState, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.state == nil {
		return domain.NewRegistryState(), nil
	}
	return r.state, nil
}

func (r *memRegistry) Persist(_ context.Context, state domain.RegistryState) error {
	if r.persistErr != nil {
		return r.persistErr
	}
	r.persisted = append(r.persisted, state)
	r.state = state
	return nil
}

func (r *memRegistry) Path() string {
	return "actions_addresses.json"
}

// stageRecorder captures metric observations
type stageRecorder struct {
	mu     sync.Mutex
	stages []string
	failed []string
	units  map[domain.ChainID]*big.Int
}

func (r *stageRecorder) ObserveStage(stage string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
	if err != nil {
		r.failed = append(r.failed, stage)
	}
}

func (r *stageRecorder) SetFundingUnits(chainID domain.ChainID, units *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.units == nil {
		r.units = make(map[domain.ChainID]*big.Int)
	}
	r.units[chainID] = units
}

// MockProgressSink collects progress output
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) Error(message string) {
	m.errors = append(m.errors, message)
}
