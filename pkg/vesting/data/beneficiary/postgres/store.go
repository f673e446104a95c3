package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/openvest/vesting-server/pkg/database/query"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed beneficiary.Store
func New(db *sql.DB) beneficiary.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements beneficiary.Store.Put
func (s *store) Put(ctx context.Context, record *beneficiary.Record) error {
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

// Get implements beneficiary.Store.Get
func (s *store) Get(ctx context.Context, owner, allocationId string) (*beneficiary.Record, error) {
	model, err := dbGet(ctx, s.db, owner, allocationId)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetAllByOwner implements beneficiary.Store.GetAllByOwner
func (s *store) GetAllByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*beneficiary.Record, error) {
	models, err := dbGetAllByOwner(ctx, s.db, owner, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*beneficiary.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
