package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/token"
)

// creditedAllocation sets up the canonical scenario: 10% instant unlock, no
// lockup or cliff, linear release over 1000s in 100s ticks, with owner1
// credited the full 1000 token reservation.
func creditedAllocation(t *testing.T, env *testEnv) string {
	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:            "seed_round",
		Reserved:        1000,
		VestingDuration: 1000,
		UnlockDelay:     100,
		TgeUnlockBps:    1000,
	}))

	allocationId := allocation.IDFromName("seed_round")
	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 1000))
	return allocationId
}

func TestClaim_HappyPath(t *testing.T) {
	env := setup(t)
	env.fundVault(1000)

	allocationId := creditedAllocation(t, env)
	env.passGenesis(t)

	// At genesis only the instant fraction is claimable
	claimable, err := env.engine.GetClaimable(env.ctx, "owner1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 100, claimable)

	// 450s in, elapsed time floors to 400s: 100 + floor(900*400/1000)
	env.currentTime = testGenesis + 450

	claimed, err := env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 460, claimed)
	assert.EqualValues(t, 460, env.balance(t, "owner1"))
	assert.EqualValues(t, 540, env.balance(t, testVault))

	// An immediate second claim is an idempotent no-op
	claimed, err = env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, claimed)
	assert.EqualValues(t, 460, env.balance(t, "owner1"))

	// The rest arrives at the end of vesting
	env.currentTime = testGenesis + 1000

	claimed, err = env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 540, claimed)
	assert.EqualValues(t, 1000, env.balance(t, "owner1"))

	actual, err := env.engine.GetAllocation(env.ctx, allocationId)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, actual.Claimed)

	env.assertConservation(t)
}

func TestClaim_GenesisNotPassed(t *testing.T) {
	env := setup(t)
	env.fundVault(1000)

	creditedAllocation(t, env)

	// Genesis unset
	_, err := env.engine.Claim(env.ctx, "owner1")
	assert.Equal(t, ErrGenesisNotPassed, err)

	// Genesis scheduled but still in the future
	require.NoError(t, env.engine.SetGenesis(env.ctx, testAdmin, testGenesis))

	_, err = env.engine.Claim(env.ctx, "owner1")
	assert.Equal(t, ErrGenesisNotPassed, err)

	assert.EqualValues(t, 0, env.balance(t, "owner1"))
}

func TestClaim_NoPositionsIsNoop(t *testing.T) {
	env := setup(t)
	env.fundVault(1000)

	creditedAllocation(t, env)
	env.passGenesis(t)

	claimed, err := env.engine.Claim(env.ctx, "owner_without_positions")
	require.NoError(t, err)
	assert.EqualValues(t, 0, claimed)

	_, err = env.engine.Claim(env.ctx, "")
	assert.Equal(t, ErrRecipientIsZero, err)
}

func TestClaim_TransferFailureLeavesLedgerUntouched(t *testing.T) {
	env := setup(t)

	creditedAllocation(t, env)
	env.passGenesis(t)
	env.currentTime = testGenesis + 450

	// The vault holds nothing, so settlement cannot transfer
	_, err := env.engine.Claim(env.ctx, "owner1")
	assert.Equal(t, token.ErrInsufficientBalance, err)

	// No partial settlement is observable
	state, err := env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, state.TotalClaimed)
	assert.EqualValues(t, 460, state.TotalClaimable)

	// Funding the vault lets the same claim succeed
	env.fundVault(1000)

	claimed, err := env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 460, claimed)

	env.assertConservation(t)
}

func TestClaim_RetroactiveInstantUnlock(t *testing.T) {
	env := setup(t)
	env.fundVault(2000)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:            "public_sale",
		Reserved:        2000,
		Lockup:          10000,
		VestingDuration: 10000,
		TgeUnlockBps:    2500,
	}))
	allocationId := allocation.IDFromName("public_sale")

	env.passGenesis(t)
	env.currentTime = testGenesis + 100

	// A credit granted after genesis still receives its instant-unlock
	// fraction retroactively
	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 1000))

	claimed, err := env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 250, claimed)

	// And so does a second credit on top of an already settled position
	require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocationId, 1000))

	claimed, err = env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 250, claimed)

	env.assertConservation(t)
}

func TestClaim_AcrossMultipleAllocations(t *testing.T) {
	env := setup(t)
	env.fundVault(10000)

	require.NoError(t, env.engine.UpsertAllocations(env.ctx, testAdmin, []AllocationParams{
		{
			Name:         "instant",
			Reserved:     1000,
			TgeUnlockBps: 10000,
		},
		{
			Name:            "linear",
			Reserved:        1000,
			VestingDuration: 1000,
		},
		{
			Name:            "cliffed",
			Reserved:        1000,
			Cliff:           100000,
			VestingDuration: 1000,
		},
	}))

	for _, name := range []string{"instant", "linear", "cliffed"} {
		require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, "owner1", allocation.IDFromName(name), 1000))
	}

	env.passGenesis(t)
	env.currentTime = testGenesis + 500

	// instant: 1000, linear: 500, cliffed: 0
	claimed, err := env.engine.Claim(env.ctx, "owner1")
	require.NoError(t, err)
	assert.EqualValues(t, 1500, claimed)

	state, err := env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	require.Len(t, state.Positions, 3)
	assert.EqualValues(t, 3000, state.TotalVested)
	assert.EqualValues(t, 1500, state.TotalClaimed)
	assert.EqualValues(t, 0, state.TotalClaimable)

	env.assertConservation(t)
}

func TestClaimFor(t *testing.T) {
	env := setup(t)
	env.fundVault(10000)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		Name:         "airdrop",
		Reserved:     3000,
		TgeUnlockBps: 10000,
	}))
	allocationId := allocation.IDFromName("airdrop")

	owners := []string{"owner1", "owner2", "owner3"}
	for i, owner := range owners {
		require.NoError(t, env.engine.IncreaseAllocation(env.ctx, testAdmin, owner, allocationId, uint64(100*(i+1))))
	}

	env.passGenesis(t)

	assert.Equal(t, ErrUnauthorized, env.engine.ClaimFor(env.ctx, "not_the_admin", owners))

	require.NoError(t, env.engine.ClaimFor(env.ctx, testAdmin, owners))

	for i, owner := range owners {
		assert.EqualValues(t, 100*(i+1), env.balance(t, owner))
	}

	env.assertConservation(t)
}

func TestOnPurchase(t *testing.T) {
	env := setup(t)

	stageId := "stage_1"
	allocationId := allocation.IDFromSaleStage(stageId)

	require.NoError(t, env.engine.UpsertAllocation(env.ctx, testAdmin, AllocationParams{
		AllocationId:    allocationId,
		Name:            "public_sale_stage_1",
		Reserved:        100000,
		VestingDuration: 1000,
		TgeUnlockBps:    5000,
	}))

	// No channel bound yet
	assert.Equal(t, ErrSaleChannelUnset, env.engine.OnPurchase(env.ctx, "sale_contract", "owner1", stageId, 500))

	require.NoError(t, env.engine.SetSaleChannel(env.ctx, testAdmin, "sale_contract"))

	assert.Equal(t, ErrUnauthorized, env.engine.OnPurchase(env.ctx, "impostor", "owner1", stageId, 500))
	assert.Equal(t, ErrAllocationNotFound, env.engine.OnPurchase(env.ctx, "sale_contract", "owner1", "unknown_stage", 500))

	require.NoError(t, env.engine.OnPurchase(env.ctx, "sale_contract", "owner1", stageId, 500))

	state, err := env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	require.Len(t, state.Positions, 1)
	assert.Equal(t, allocationId, state.Positions[0].AllocationId)
	assert.EqualValues(t, 500, state.TotalVested)

	env.assertConservation(t)
}

func TestGetUserState_QueryTime(t *testing.T) {
	env := setup(t)

	creditedAllocation(t, env)
	env.passGenesis(t)

	// Explicit future query times preview the unlock progression
	state, err := env.engine.GetUserState(env.ctx, "owner1", testGenesis+450)
	require.NoError(t, err)
	assert.EqualValues(t, 460, state.TotalUnlocked)
	assert.EqualValues(t, 460, state.TotalClaimable)

	state, err = env.engine.GetUserState(env.ctx, "owner1", testGenesis+1000)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, state.TotalUnlocked)

	// Zero means now
	state, err = env.engine.GetUserState(env.ctx, "owner1", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 100, state.TotalUnlocked)
}
