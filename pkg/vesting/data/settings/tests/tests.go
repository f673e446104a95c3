package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
)

func RunTests(t *testing.T, s settings.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s settings.Store){
		testHappyPath,
		testSingleRow,
		testValidation,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s settings.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()

		_, err := s.Get(ctx)
		assert.Equal(t, settings.ErrNotFound, err)

		expected := &settings.Record{
			GenesisAt: 5000000,

			SaleChannel: "sale_contract_address",

			AutoSupplyOnClaim: true,
			AutoSupplySource:  "supply_source_address",

			TokenName:   "Example Token",
			TokenSymbol: "EXT",
		}
		cloned := expected.Clone()

		require.NoError(t, s.Put(ctx, expected))

		actual, err := s.Get(ctx)
		require.NoError(t, err)
		assert.True(t, actual.Id > 0)
		assert.EqualValues(t, cloned.GenesisAt, actual.GenesisAt)
		assert.False(t, actual.GenesisFrozen)
		assert.Equal(t, cloned.SaleChannel, actual.SaleChannel)
		assert.False(t, actual.SaleChannelFrozen)
		assert.True(t, actual.AutoSupplyOnClaim)
		assert.False(t, actual.AutoSupplyOnIncrease)
		assert.Equal(t, cloned.AutoSupplySource, actual.AutoSupplySource)
		assert.Equal(t, cloned.TokenName, actual.TokenName)
		assert.Equal(t, cloned.TokenSymbol, actual.TokenSymbol)
		assert.True(t, actual.LastUpdatedAt.After(start))
	})
}

func testSingleRow(t *testing.T, s settings.Store) {
	t.Run("testSingleRow", func(t *testing.T) {
		ctx := context.Background()

		first := &settings.Record{
			GenesisAt: 1000,
		}
		require.NoError(t, s.Put(ctx, first))

		second := &settings.Record{
			GenesisAt:     2000,
			GenesisFrozen: true,
		}
		require.NoError(t, s.Put(ctx, second))

		// The second put overwrites the first row instead of adding one
		actual, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.Id, actual.Id)
		assert.EqualValues(t, 2000, actual.GenesisAt)
		assert.True(t, actual.GenesisFrozen)
	})
}

func testValidation(t *testing.T, s settings.Store) {
	t.Run("testValidation", func(t *testing.T) {
		ctx := context.Background()

		assert.Error(t, s.Put(ctx, &settings.Record{
			GenesisFrozen: true,
		}))

		assert.Error(t, s.Put(ctx, &settings.Record{
			SaleChannelFrozen: true,
		}))
	})
}
