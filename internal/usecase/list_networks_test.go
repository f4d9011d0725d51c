package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

func TestListNetworks(t *testing.T) {
	ctx := context.Background()
	resolver := new(MockNetworkResolver)
	resolver.On("Names", ctx).Return([]string{"bsc-testnet", "broken", "localhost"})
	resolver.On("Resolve", ctx, "bsc-testnet").Return(&config.Network{Name: "bsc-testnet", ChainID: 97, ExplorerURL: "https://testnet.bscscan.com"}, nil)
	resolver.On("Resolve", ctx, "broken").Return(nil, errors.New("environment variables not set: RPC_URL"))
	resolver.On("Resolve", ctx, "localhost").Return(&config.Network{Name: "localhost", ChainID: 1337}, nil)

	result, err := usecase.NewListNetworks(resolver).Run(ctx, usecase.ListNetworksParams{})
	require.NoError(t, err)
	require.Len(t, result.Networks, 3)

	bsc := result.Networks[0]
	assert.Equal(t, "bsc-testnet", bsc.Name)
	assert.EqualValues(t, 97, bsc.ChainID)
	assert.Equal(t, "BNB", bsc.Asset)
	assert.NoError(t, bsc.Error)

	assert.Equal(t, "broken", result.Networks[1].Name)
	assert.Error(t, result.Networks[1].Error)

	local := result.Networks[2]
	assert.EqualValues(t, 1337, local.ChainID)
	assert.Empty(t, local.Asset)
}
