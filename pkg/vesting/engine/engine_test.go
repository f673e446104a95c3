package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvest/vesting-server/pkg/vesting/data"
	"github.com/openvest/vesting-server/pkg/vesting/token"
	token_memory "github.com/openvest/vesting-server/pkg/vesting/token/memory"
)

const (
	testAdmin = "admin_public_key"
	testVault = "vault_public_key"

	testGenesis = uint64(5000000)
)

type testEnv struct {
	ctx    context.Context
	engine *Engine
	data   data.Provider
	token  token.Client

	currentTime uint64
}

func setup(t *testing.T) *testEnv {
	env := &testEnv{
		ctx:   context.Background(),
		data:  data.NewTestDataProvider(),
		token: token_memory.New(),

		currentTime: testGenesis - 1000,
	}

	env.engine = New(
		env.data,
		env.token,
		NewLoggingNotifier(),
		WithStaticConfigs(testAdmin, testVault),
	)
	env.engine.now = func() uint64 {
		return env.currentTime
	}

	return env
}

// passGenesis schedules genesis at the canonical test timestamp and advances
// the clock to it.
func (env *testEnv) passGenesis(t *testing.T) {
	require.NoError(t, env.engine.SetGenesis(env.ctx, testAdmin, testGenesis))
	env.currentTime = testGenesis
}

func (env *testEnv) fundVault(amount uint64) {
	token_memory.Mint(env.token, testVault, amount)
}

func (env *testEnv) balance(t *testing.T, account string) uint64 {
	balance, err := env.token.GetBalance(env.ctx, account)
	require.NoError(t, err)
	return balance
}

// assertConservation checks that the global aggregates equal the sums over
// the live allocation set and that every allocation's counters are ordered.
func (env *testEnv) assertConservation(t *testing.T) {
	records, err := env.data.GetAllAllocations(env.ctx)
	require.NoError(t, err)

	var sumReserved, sumVested, sumClaimed uint64
	for _, record := range records {
		assert.LessOrEqual(t, record.Claimed, record.Vested)
		assert.LessOrEqual(t, record.Vested, record.Reserved)

		sumReserved += record.Reserved
		sumVested += record.Vested
		sumClaimed += record.Claimed
	}

	aggregates, err := env.data.GetAllocationAggregates(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, sumReserved, aggregates.TotalReserved)
	assert.Equal(t, sumVested, aggregates.TotalVested)
	assert.Equal(t, sumClaimed, aggregates.TotalClaimed)
}
