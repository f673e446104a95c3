package settings

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("no records could be found")
)

type Store interface {
	// Put creates or updates the settings record
	Put(ctx context.Context, record *Record) error

	// Get gets the settings record. Returns ErrNotFound until the first Put.
	Get(ctx context.Context) (*Record, error)
}
