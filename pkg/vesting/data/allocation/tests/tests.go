package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
)

func RunTests(t *testing.T, s allocation.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s allocation.Store){
		testHappyPath,
		testGetAll,
		testAggregates,
		testDelete,
		testValidation,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s allocation.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()

		expected := &allocation.Record{
			AllocationId: allocation.IDFromName("seed_round"),
			Name:         "seed_round",

			Reserved: 1000000,

			Lockup:          86400,
			Cliff:           604800,
			VestingDuration: 31536000,
			UnlockDelay:     86400,
			TgeUnlockBps:    1000,
		}
		cloned := expected.Clone()

		_, err := s.Get(ctx, expected.AllocationId)
		assert.Equal(t, allocation.ErrNotFound, err)

		require.NoError(t, s.Put(ctx, expected))

		actual, err := s.Get(ctx, expected.AllocationId)
		require.NoError(t, err)
		assert.True(t, actual.Id > 0)
		assert.Equal(t, cloned.AllocationId, actual.AllocationId)
		assert.Equal(t, cloned.Name, actual.Name)
		assert.EqualValues(t, cloned.Reserved, actual.Reserved)
		assert.EqualValues(t, 0, actual.Vested)
		assert.EqualValues(t, 0, actual.Claimed)
		assert.EqualValues(t, cloned.Lockup, actual.Lockup)
		assert.EqualValues(t, cloned.Cliff, actual.Cliff)
		assert.EqualValues(t, cloned.VestingDuration, actual.VestingDuration)
		assert.EqualValues(t, cloned.UnlockDelay, actual.UnlockDelay)
		assert.EqualValues(t, cloned.TgeUnlockBps, actual.TgeUnlockBps)
		assert.True(t, actual.LastUpdatedAt.After(start))

		// Updates overwrite the schedule and accounting state in place
		expected.Reserved = 2000000
		expected.Vested = 1500000
		expected.Claimed = 500000
		expected.TgeUnlockBps = 2500
		require.NoError(t, s.Put(ctx, expected))

		actual, err = s.Get(ctx, expected.AllocationId)
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assert.EqualValues(t, 2000000, actual.Reserved)
		assert.EqualValues(t, 1500000, actual.Vested)
		assert.EqualValues(t, 500000, actual.Claimed)
		assert.EqualValues(t, 2500, actual.TgeUnlockBps)
	})
}

func testGetAll(t *testing.T, s allocation.Store) {
	t.Run("testGetAll", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, actual)

		names := []string{"team", "advisors", "community"}
		for _, name := range names {
			require.NoError(t, s.Put(ctx, &allocation.Record{
				AllocationId:    allocation.IDFromName(name),
				Name:            name,
				Reserved:        100,
				VestingDuration: 1000,
			}))
		}

		actual, err = s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, actual, len(names))
		for i, name := range names {
			assert.Equal(t, name, actual[i].Name)
			assert.Equal(t, allocation.IDFromName(name), actual[i].AllocationId)
		}
	})
}

func testAggregates(t *testing.T, s allocation.Store) {
	t.Run("testAggregates", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetAggregates(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.TotalReserved)
		assert.EqualValues(t, 0, actual.TotalVested)
		assert.EqualValues(t, 0, actual.TotalClaimed)

		require.NoError(t, s.Put(ctx, &allocation.Record{
			AllocationId:    allocation.IDFromName("a"),
			Name:            "a",
			Reserved:        1000,
			Vested:          600,
			Claimed:         100,
			VestingDuration: 1000,
		}))
		require.NoError(t, s.Put(ctx, &allocation.Record{
			AllocationId:    allocation.IDFromName("b"),
			Name:            "b",
			Reserved:        500,
			Vested:          500,
			Claimed:         250,
			VestingDuration: 1000,
		}))

		actual, err = s.GetAggregates(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1500, actual.TotalReserved)
		assert.EqualValues(t, 1100, actual.TotalVested)
		assert.EqualValues(t, 350, actual.TotalClaimed)
	})
}

func testDelete(t *testing.T, s allocation.Store) {
	t.Run("testDelete", func(t *testing.T) {
		ctx := context.Background()

		allocationId := allocation.IDFromName("ephemeral")

		assert.Equal(t, allocation.ErrNotFound, s.Delete(ctx, allocationId))

		require.NoError(t, s.Put(ctx, &allocation.Record{
			AllocationId:    allocationId,
			Name:            "ephemeral",
			Reserved:        100,
			VestingDuration: 1000,
		}))

		require.NoError(t, s.Delete(ctx, allocationId))

		_, err := s.Get(ctx, allocationId)
		assert.Equal(t, allocation.ErrNotFound, err)

		actual, err := s.GetAggregates(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.TotalReserved)
	})
}

func testValidation(t *testing.T, s allocation.Store) {
	t.Run("testValidation", func(t *testing.T) {
		ctx := context.Background()

		assert.Error(t, s.Put(ctx, &allocation.Record{
			Name:     "missing_id",
			Reserved: 100,
		}))

		assert.Error(t, s.Put(ctx, &allocation.Record{
			AllocationId: allocation.IDFromName("overshoot"),
			Name:         "overshoot",
			Reserved:     100,
			TgeUnlockBps: 10001,
		}))

		assert.Error(t, s.Put(ctx, &allocation.Record{
			AllocationId: allocation.IDFromName("inverted"),
			Name:         "inverted",
			Reserved:     100,
			Vested:       200,
		}))

		assert.Error(t, s.Put(ctx, &allocation.Record{
			AllocationId: allocation.IDFromName("overclaimed"),
			Name:         "overclaimed",
			Reserved:     300,
			Vested:       200,
			Claimed:      250,
		}))
	})
}
