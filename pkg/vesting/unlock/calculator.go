// Package unlock implements the time-based unlock calculation for vested
// token amounts. The calculation is a pure function of the schedule, the
// vested amount, the genesis (TGE) timestamp and the query time.
package unlock

import (
	"math/bits"
)

// MaxBps is the basis point denominator (10000 = 100%)
const MaxBps = 10000

// Schedule defines when a vested amount becomes unlockable, relative to the
// genesis timestamp. All durations are in seconds.
type Schedule struct {
	// Lockup is the delay after genesis before linear vesting begins
	Lockup uint64

	// Cliff is the delay after the lockup during which linearly vesting
	// tokens accrue but are not releasable
	Cliff uint64

	// VestingDuration is the length of the linear release period
	VestingDuration uint64

	// UnlockDelay quantizes the linear release; the releasable amount only
	// advances in discrete steps of this size. Zero disables quantization.
	UnlockDelay uint64

	// TgeUnlockBps is the fraction, in basis points, released immediately
	// at genesis
	TgeUnlockBps uint32
}

// Calculate returns the amount of a vested balance that is unlocked at time
// at, given the genesis timestamp tge. The result is monotonically
// non-decreasing in at and always within [0, vested].
//
// The phases are evaluated in order, each an early return:
//
//  1. Before genesis (or with genesis unset) nothing is unlocked.
//  2. The instant TGE fraction is unlocked once genesis has occurred,
//     independent of lockup and cliff.
//  3. Before the lockup elapses only the TGE fraction is unlocked.
//  4. During the cliff only the TGE fraction is unlocked.
//  5. At or after the end of vesting the full amount is unlocked, which
//     also resolves any rounding dust from the linear phase.
//  6. Otherwise the remainder is released linearly, with elapsed time
//     floored down to a multiple of the unlock delay.
//
// All divisions truncate toward zero, so the engine never releases more than
// mathematically owed.
func Calculate(schedule Schedule, vested, tge, at uint64) uint64 {
	if tge == 0 || at < tge {
		return 0
	}

	tgeUnlocked := mulDiv(vested, uint64(schedule.TgeUnlockBps), MaxBps)
	rest := vested - tgeUnlocked

	vestingStart := tge + schedule.Lockup
	if at < vestingStart {
		return tgeUnlocked
	}

	cliffEnd := vestingStart + schedule.Cliff
	if at < cliffEnd {
		return tgeUnlocked
	}

	vestingEnd := vestingStart + schedule.VestingDuration
	if at >= vestingEnd {
		return vested
	}

	passed := at - vestingStart
	if schedule.UnlockDelay > 0 {
		passed -= passed % schedule.UnlockDelay
	}

	return tgeUnlocked + mulDiv(rest, passed, schedule.VestingDuration)
}

// mulDiv computes floor(amount * num / den) without intermediate overflow.
// Requires num <= den, which guarantees the quotient fits in a uint64.
func mulDiv(amount, num, den uint64) uint64 {
	hi, lo := bits.Mul64(amount, num)
	if hi == 0 {
		return lo / den
	}

	quo, _ := bits.Div64(hi, lo, den)
	return quo
}
