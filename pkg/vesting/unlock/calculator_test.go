package unlock

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_HappyPath(t *testing.T) {
	// 10% instant unlock, no lockup or cliff, linear release over 1000s in
	// 100s ticks
	schedule := Schedule{
		VestingDuration: 1000,
		UnlockDelay:     100,
		TgeUnlockBps:    1000,
	}

	var tge uint64 = 5000000
	var vested uint64 = 1000

	assert.EqualValues(t, 100, Calculate(schedule, vested, tge, tge))

	// 450s in, elapsed time floors to 400s: 100 + floor(900*400/1000)
	assert.EqualValues(t, 460, Calculate(schedule, vested, tge, tge+450))

	assert.EqualValues(t, vested, Calculate(schedule, vested, tge, tge+1000))
	assert.EqualValues(t, vested, Calculate(schedule, vested, tge, tge+100000))
}

func TestCalculate_PreGenesisZero(t *testing.T) {
	schedule := Schedule{
		VestingDuration: 1000,
		TgeUnlockBps:    10000,
	}

	// Genesis unset
	assert.EqualValues(t, 0, Calculate(schedule, 1000, 0, 123456789))

	// Before genesis
	var tge uint64 = 5000000
	assert.EqualValues(t, 0, Calculate(schedule, 1000, tge, tge-1))
}

func TestCalculate_InstantUnlockBypassesLockupAndCliff(t *testing.T) {
	schedule := Schedule{
		Lockup:          100,
		Cliff:           200,
		VestingDuration: 1000,
		TgeUnlockBps:    2500,
	}

	var tge uint64 = 5000000
	var vested uint64 = 1000

	// Instant fraction is available the moment genesis passes
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge))

	// During the lockup and cliff nothing further is released
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge+99))
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge+100))
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge+299))

	// After the cliff the linear phase picks up from the start of vesting,
	// so elapsed lockup-relative time counts
	assert.EqualValues(t, 250+750*300/1000, Calculate(schedule, vested, tge, tge+400))
}

func TestCalculate_FullReleaseAtVestingEnd(t *testing.T) {
	schedule := Schedule{
		Lockup:          50,
		VestingDuration: 333,
		UnlockDelay:     7,
		TgeUnlockBps:    1,
	}

	var tge uint64 = 5000000
	var vested uint64 = 999999937 // prime, guarantees rounding dust

	end := tge + schedule.Lockup + schedule.VestingDuration
	assert.EqualValues(t, vested, Calculate(schedule, vested, tge, end))
	assert.EqualValues(t, vested, Calculate(schedule, vested, tge, end+1))

	// Just before the end there is dust outstanding
	assert.Less(t, Calculate(schedule, vested, tge, end-1), vested)
}

func TestCalculate_ZeroDurationVestsImmediately(t *testing.T) {
	schedule := Schedule{
		Lockup: 100,
	}

	var tge uint64 = 5000000

	assert.EqualValues(t, 0, Calculate(schedule, 1000, tge, tge+99))
	assert.EqualValues(t, 1000, Calculate(schedule, 1000, tge, tge+100))
}

func TestCalculate_Monotonicity(t *testing.T) {
	schedule := Schedule{
		Lockup:          13,
		Cliff:           29,
		VestingDuration: 1009,
		UnlockDelay:     17,
		TgeUnlockBps:    777,
	}

	var tge uint64 = 5000000
	var vested uint64 = 123456789

	var previous uint64
	for at := tge - 10; at < tge+schedule.Lockup+schedule.Cliff+schedule.VestingDuration+10; at++ {
		current := Calculate(schedule, vested, tge, at)

		assert.GreaterOrEqual(t, current, previous)
		assert.LessOrEqual(t, current, vested)

		previous = current
	}
	assert.EqualValues(t, vested, previous)
}

func TestCalculate_QuantizedTicks(t *testing.T) {
	schedule := Schedule{
		VestingDuration: 1000,
		UnlockDelay:     250,
	}

	var tge uint64 = 5000000
	var vested uint64 = 1000

	// No partial tick releases
	assert.EqualValues(t, 0, Calculate(schedule, vested, tge, tge+249))
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge+250))
	assert.EqualValues(t, 250, Calculate(schedule, vested, tge, tge+499))
	assert.EqualValues(t, 500, Calculate(schedule, vested, tge, tge+500))
}

func TestCalculate_LargeAmountsNoOverflow(t *testing.T) {
	schedule := Schedule{
		VestingDuration: 1000000,
		TgeUnlockBps:    9999,
	}

	var tge uint64 = 5000000
	vested := uint64(1) << 63

	// floor(2^63 * 9999 / 10000), computed out of band
	expected := new(big.Int).SetUint64(vested)
	expected.Mul(expected, big.NewInt(9999))
	expected.Div(expected, big.NewInt(MaxBps))

	tgeUnlocked := Calculate(schedule, vested, tge, tge)
	assert.Equal(t, expected.Uint64(), tgeUnlocked)
	assert.LessOrEqual(t, tgeUnlocked, vested)

	halfway := Calculate(schedule, vested, tge, tge+500000)
	assert.Greater(t, halfway, tgeUnlocked)
	assert.LessOrEqual(t, halfway, vested)

	assert.EqualValues(t, vested, Calculate(schedule, vested, tge, tge+1000000))
}
