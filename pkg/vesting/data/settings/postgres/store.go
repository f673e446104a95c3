package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed settings.Store
func New(db *sql.DB) settings.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements settings.Store.Put
func (s *store) Put(ctx context.Context, record *settings.Record) error {
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

// Get implements settings.Store.Get
func (s *store) Get(ctx context.Context) (*settings.Record, error) {
	model, err := dbGet(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}
