package beneficiary

import (
	"time"

	"github.com/pkg/errors"
)

// Record is a single beneficiary's position within an allocation. The vested
// amount only ever grows and the claimed amount never exceeds it.
type Record struct {
	Id uint64

	Owner        string
	AllocationId string

	Vested  uint64
	Claimed uint64

	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Owner) == 0 {
		return errors.New("owner is required")
	}

	if len(r.AllocationId) == 0 {
		return errors.New("allocation id is required")
	}

	if r.Claimed > r.Vested {
		return errors.New("claimed must not exceed vested")
	}

	return nil
}

func (r *Record) Clone() *Record {
	return &Record{
		Id: r.Id,

		Owner:        r.Owner,
		AllocationId: r.AllocationId,

		Vested:  r.Vested,
		Claimed: r.Claimed,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Owner = r.Owner
	dst.AllocationId = r.AllocationId

	dst.Vested = r.Vested
	dst.Claimed = r.Claimed

	dst.LastUpdatedAt = r.LastUpdatedAt
}
