package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/database/query"
	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
)

func RunTests(t *testing.T, s beneficiary.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s beneficiary.Store){
		testHappyPath,
		testGetAllByOwner,
		testValidation,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s beneficiary.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()

		allocationId := allocation.IDFromName("seed_round")

		expected := &beneficiary.Record{
			Owner:        "owner1",
			AllocationId: allocationId,
			Vested:       1000,
		}
		cloned := expected.Clone()

		_, err := s.Get(ctx, expected.Owner, expected.AllocationId)
		assert.Equal(t, beneficiary.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, expected))

		actual, err := s.Get(ctx, expected.Owner, expected.AllocationId)
		require.NoError(t, err)
		assert.True(t, actual.Id > 0)
		assert.Equal(t, cloned.Owner, actual.Owner)
		assert.Equal(t, cloned.AllocationId, actual.AllocationId)
		assert.EqualValues(t, cloned.Vested, actual.Vested)
		assert.EqualValues(t, 0, actual.Claimed)
		assert.True(t, actual.LastUpdatedAt.After(start))

		expected.Vested = 2000
		expected.Claimed = 750
		require.NoError(t, s.Put(ctx, expected))

		actual, err = s.Get(ctx, expected.Owner, expected.AllocationId)
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.EqualValues(t, 2000, actual.Vested)
		assert.EqualValues(t, 750, actual.Claimed)
	})
}

func testGetAllByOwner(t *testing.T, s beneficiary.Store) {
	t.Run("testGetAllByOwner", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByOwner(ctx, "owner1", query.EmptyCursor, 0, query.Ascending)
		assert.Equal(t, beneficiary.ErrNotFound, err)

		allocationNames := []string{"seed_round", "team", "community"}
		for i, name := range allocationNames {
			require.NoError(t, s.Put(ctx, &beneficiary.Record{
				Owner:        "owner1",
				AllocationId: allocation.IDFromName(name),
				Vested:       uint64(100 * (i + 1)),
			}))
		}

		// Positions for another owner within the same allocations
		require.NoError(t, s.Put(ctx, &beneficiary.Record{
			Owner:        "owner2",
			AllocationId: allocation.IDFromName("team"),
			Vested:       42,
		}))

		actual, err := s.GetAllByOwner(ctx, "owner1", query.EmptyCursor, 0, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, len(allocationNames))
		for i, name := range allocationNames {
			assert.Equal(t, "owner1", actual[i].Owner)
			assert.Equal(t, allocation.IDFromName(name), actual[i].AllocationId)
			assert.EqualValues(t, 100*(i+1), actual[i].Vested)
		}

		actual, err = s.GetAllByOwner(ctx, "owner2", query.EmptyCursor, 0, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.EqualValues(t, 42, actual[0].Vested)

		// Pagination walks the id space in either direction
		actual, err = s.GetAllByOwner(ctx, "owner1", query.EmptyCursor, 2, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)

		actual, err = s.GetAllByOwner(ctx, "owner1", query.ToCursor(actual[1].Id), 2, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, allocation.IDFromName("community"), actual[0].AllocationId)

		actual, err = s.GetAllByOwner(ctx, "owner1", query.EmptyCursor, 1, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, allocation.IDFromName("community"), actual[0].AllocationId)
	})
}

func testValidation(t *testing.T, s beneficiary.Store) {
	t.Run("testValidation", func(t *testing.T) {
		ctx := context.Background()

		assert.Error(t, s.Put(ctx, &beneficiary.Record{
			AllocationId: allocation.IDFromName("seed_round"),
			Vested:       100,
		}))

		assert.Error(t, s.Put(ctx, &beneficiary.Record{
			Owner:  "owner1",
			Vested: 100,
		}))

		assert.Error(t, s.Put(ctx, &beneficiary.Record{
			Owner:        "owner1",
			AllocationId: allocation.IDFromName("seed_round"),
			Vested:       100,
			Claimed:      101,
		}))
	})
}
