package allocation

import (
	"crypto/sha256"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/openvest/vesting-server/pkg/vesting/unlock"
)

// Allocation ids are derived from human readable names by hashing the name
// with a fixed prefix. Sale stages get their own prefix so externally chosen
// stage identifiers can never collide with administratively named allocations.
const (
	idPrefix        = "allocation::"
	saleStagePrefix = "sale_stage::"
)

// Record is a named vesting schedule together with its allocation-wide
// accounting state. The vested and claimed aggregates are the sums over all
// beneficiaries credited against this allocation.
type Record struct {
	Id uint64

	AllocationId string
	Name         string

	// Reserved is the ceiling on total vesting for this allocation across
	// all beneficiaries
	Reserved uint64
	Vested   uint64
	Claimed  uint64

	Lockup          uint64
	Cliff           uint64
	VestingDuration uint64
	UnlockDelay     uint64
	TgeUnlockBps    uint32

	LastUpdatedAt time.Time
}

// Aggregates are the engine-wide totals over the live allocation set.
type Aggregates struct {
	TotalReserved uint64
	TotalVested   uint64
	TotalClaimed  uint64
}

// IDFromName derives the allocation id for a human readable allocation name.
func IDFromName(name string) string {
	h := sha256.Sum256([]byte(idPrefix + name))
	return base58.Encode(h[:])
}

// IDFromSaleStage derives the allocation id backing an external sale stage.
func IDFromSaleStage(stageId string) string {
	return IDFromName(saleStagePrefix + stageId)
}

// Schedule returns the unlock schedule portion of the record.
func (r *Record) Schedule() unlock.Schedule {
	return unlock.Schedule{
		Lockup:          r.Lockup,
		Cliff:           r.Cliff,
		VestingDuration: r.VestingDuration,
		UnlockDelay:     r.UnlockDelay,
		TgeUnlockBps:    r.TgeUnlockBps,
	}
}

func (r *Record) Validate() error {
	if len(r.AllocationId) == 0 {
		return errors.New("allocation id is required")
	}

	if r.TgeUnlockBps > unlock.MaxBps {
		return errors.New("tge unlock bps must not exceed 10000")
	}

	if r.Vested > r.Reserved {
		return errors.New("vested must not exceed reserved")
	}

	if r.Claimed > r.Vested {
		return errors.New("claimed must not exceed vested")
	}

	return nil
}

func (r *Record) Clone() *Record {
	return &Record{
		Id: r.Id,

		AllocationId: r.AllocationId,
		Name:         r.Name,

		Reserved: r.Reserved,
		Vested:   r.Vested,
		Claimed:  r.Claimed,

		Lockup:          r.Lockup,
		Cliff:           r.Cliff,
		VestingDuration: r.VestingDuration,
		UnlockDelay:     r.UnlockDelay,
		TgeUnlockBps:    r.TgeUnlockBps,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.AllocationId = r.AllocationId
	dst.Name = r.Name

	dst.Reserved = r.Reserved
	dst.Vested = r.Vested
	dst.Claimed = r.Claimed

	dst.Lockup = r.Lockup
	dst.Cliff = r.Cliff
	dst.VestingDuration = r.VestingDuration
	dst.UnlockDelay = r.UnlockDelay
	dst.TgeUnlockBps = r.TgeUnlockBps

	dst.LastUpdatedAt = r.LastUpdatedAt
}
