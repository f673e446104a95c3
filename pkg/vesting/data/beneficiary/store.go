package beneficiary

import (
	"context"
	"errors"

	"github.com/openvest/vesting-server/pkg/database/query"
)

var (
	ErrNotFound = errors.New("no records could be found")
)

type Store interface {
	// Put creates or updates a beneficiary position
	Put(ctx context.Context, record *Record) error

	// Get finds the position for a given owner within a given allocation
	Get(ctx context.Context, owner, allocationId string) (*Record, error)

	// GetAllByOwner gets an owner's positions across allocations. A zero
	// limit returns everything. Returns ErrNotFound when the page is empty.
	GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}
