package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

func TestShowRegistry(t *testing.T) {
	ctx := context.Background()
	registry := &memRegistry{state: domain.RegistryState{1337: addrA, 97: addrB, 56: addrC}}
	uc := usecase.NewShowRegistry(registry)

	t.Run("all entries in chain order", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ShowRegistryParams{})
		require.NoError(t, err)
		assert.Equal(t, "actions_addresses.json", result.Path)
		assert.Equal(t, []usecase.RegistryEntry{
			{ChainID: 56, Address: addrC},
			{ChainID: 97, Address: addrB},
			{ChainID: 1337, Address: addrA},
		}, result.Entries)
	})

	t.Run("single chain", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ShowRegistryParams{ChainID: 97})
		require.NoError(t, err)
		assert.Equal(t, []usecase.RegistryEntry{{ChainID: 97, Address: addrB}}, result.Entries)
	})

	t.Run("missing chain", func(t *testing.T) {
		_, err := uc.Run(ctx, usecase.ShowRegistryParams{ChainID: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no address recorded for chain 10")
	})

	t.Run("load error", func(t *testing.T) {
		broken := usecase.NewShowRegistry(&memRegistry{loadErr: errors.New("boom")})
		_, err := broken.Run(ctx, usecase.ShowRegistryParams{})
		assert.EqualError(t, err, "boom")
	})

	assert.Empty(t, registry.persisted)
}
