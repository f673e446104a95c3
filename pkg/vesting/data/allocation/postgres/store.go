package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed allocation.Store
func New(db *sql.DB) allocation.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements allocation.Store.Put
func (s *store) Put(ctx context.Context, record *allocation.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	if err := model.dbPut(ctx, s.db); err != nil {
		return err
	}

	fromModel(model).CopyTo(record)

	return nil
}

// Get implements allocation.Store.Get
func (s *store) Get(ctx context.Context, allocationId string) (*allocation.Record, error) {
	model, err := dbGet(ctx, s.db, allocationId)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetAll implements allocation.Store.GetAll
func (s *store) GetAll(ctx context.Context) ([]*allocation.Record, error) {
	models, err := dbGetAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	res := make([]*allocation.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}

// GetAggregates implements allocation.Store.GetAggregates
func (s *store) GetAggregates(ctx context.Context) (*allocation.Aggregates, error) {
	model, err := dbGetAggregates(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return &allocation.Aggregates{
		TotalReserved: uint64(model.TotalReserved),
		TotalVested:   uint64(model.TotalVested),
		TotalClaimed:  uint64(model.TotalClaimed),
	}, nil
}

// Delete implements allocation.Store.Delete
func (s *store) Delete(ctx context.Context, allocationId string) error {
	return dbDelete(ctx, s.db, allocationId)
}
