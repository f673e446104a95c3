package allocation

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("no records could be found")
)

type Store interface {
	// Put creates or updates an allocation record
	Put(ctx context.Context, record *Record) error

	// Get finds the allocation record for a given allocation id
	Get(ctx context.Context, allocationId string) (*Record, error)

	// GetAll gets all live allocation records, ordered by id
	GetAll(ctx context.Context) ([]*Record, error)

	// GetAggregates gets the engine-wide totals over all live allocations
	GetAggregates(ctx context.Context) (*Aggregates, error)

	// Delete removes the allocation record for a given allocation id
	Delete(ctx context.Context, allocationId string) error
}
