package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
)

func TestIncreaseAllocation_HappyPath(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:     "seed_round",
		Reserved: 1000,
	}))
	allocationId := allocation.IDFromName("seed_round")

	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 300))
	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner2", allocationId, 200))
	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 100))

	actual, err := env.engine.GetAllocation(env.ctx, allocationId)
	require.NoError(t, err)
	assert.EqualValues(t, 600, actual.Vested)

	state, err := env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	require.Len(t, state.Positions, 1)
	assert.EqualValues(t, 400, state.TotalVested)
	assert.EqualValues(t, 0, state.TotalClaimed)

	state, err = env.engine.GetUserState(env.ctx, "owner2", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 200, state.TotalVested)

	env.assertConservation(t)
}

func TestIncreaseAllocation_Failures(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:     "seed_round",
		Reserved: 1000,
	}))
	allocationId := allocation.IDFromName("seed_round")

	assert.Equal(t, ErrUnauthorized, env.engine.IncreaseAllocation(env.ctx, "not_the_admin", "owner1", allocationId, 100))
	assert.Equal(t, ErrAllocationNotFound, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocation.IDFromName("unknown"), 100))
	assert.Equal(t, ErrRecipientIsZero, env.engine.IncreaseAllocation(env.ctx, testAdmin, "", allocationId, 100))

	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 900))

	// Exceeding the reservation fails and leaves state unchanged
	assert.Equal(t, ErrAllocationExceeded, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 101))

	actual, err := env.engine.GetAllocation(env.ctx, allocationId)
	require.NoError(t, err)
	assert.EqualValues(t, 900, actual.Vested)

	state, err := env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 900, state.TotalVested)

	env.assertConservation(t)
}

func TestIncreaseAllocations_ParameterLengthMismatch(t *testing.T) {
	env := setup(t)

	err := env.engine.IncreaseAllocations(
		env.ctx,
		testAdmin,
		[]string{"owner1", "owner2"},
		[]string{allocation.IDFromName("seed_round")},
		[]uint64{100, 200},
	)
	assert.Equal(t, ErrParameterLengthMismatch, err)

	err = env.engine.IncreaseAllocations(
		env.ctx,
		testAdmin,
		[]string{"owner1"},
		[]string{allocation.IDFromName("seed_round")},
		[]uint64{100, 200},
	)
	assert.Equal(t, ErrParameterLengthMismatch, err)
}

func TestIncreaseAllocations_AllOrNothing(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:     "seed_round",
		Reserved: 1000,
	}))
	allocationId := allocation.IDFromName("seed_round")

	// The batch exceeds the reservation only cumulatively
	err := env.engine.IncreaseAllocations(
		env.ctx,
		testAdmin,
		[]string{"owner1", "owner2"},
		[]string{allocationId, allocationId},
		[]uint64{600, 600},
	)
	assert.Equal(t, ErrAllocationExceeded, err)

	actual, err := env.engine.GetAllocation(env.ctx, allocationId)
	require.NoError(t, err)
	assert.EqualValues(t, 0, actual.Vested)

	require.NoError(t, env.engine.IncreaseAllocations(
		env.ctx,
		testAdmin,
		[]string{"owner1", "owner2"},
		[]string{allocationId, allocationId},
		[]uint64{600, 400},
	))

	actual, err = env.engine.GetAllocation(env.ctx, allocationId)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, actual.Vested)

	env.assertConservation(t)
}
