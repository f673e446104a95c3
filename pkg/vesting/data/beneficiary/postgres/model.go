package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/openvest/vesting-server/pkg/database/postgres"
	q "github.com/openvest/vesting-server/pkg/database/query"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
)

const (
	tableName = "vestingserver__core_beneficiary"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Owner        string `db:"owner"`
	AllocationId string `db:"allocation_id"`

	Vested  int64 `db:"vested"`
	Claimed int64 `db:"claimed"`

	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *beneficiary.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Owner:        obj.Owner,
		AllocationId: obj.AllocationId,

		Vested:  int64(obj.Vested),
		Claimed: int64(obj.Claimed),

		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *beneficiary.Record {
	return &beneficiary.Record{
		Id: uint64(obj.Id.Int64),

		Owner:        obj.Owner,
		AllocationId: obj.AllocationId,

		Vested:  uint64(obj.Vested),
		Claimed: uint64(obj.Claimed),

		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		m.LastUpdatedAt = time.Now()

		query := `INSERT INTO ` + tableName + `
			(owner, allocation_id, vested, claimed, last_updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (owner, allocation_id)
			DO UPDATE
				SET vested = $3, claimed = $4, last_updated_at = $5
				WHERE ` + tableName + `.owner = $1 AND ` + tableName + `.allocation_id = $2
			RETURNING id, owner, allocation_id, vested, claimed, last_updated_at
		`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Owner,
			m.AllocationId,
			m.Vested,
			m.Claimed,
			m.LastUpdatedAt,
		).StructScan(m)

		return pgutil.CheckNoRows(err, beneficiary.ErrNotFound)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, owner, allocationId string) (*model, error) {
	res := &model{}

	query := `SELECT id, owner, allocation_id, vested, claimed, last_updated_at
		FROM ` + tableName + `
		WHERE owner = $1 AND allocation_id = $2
	`

	err := db.GetContext(ctx, res, query, owner, allocationId)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, beneficiary.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByOwner(ctx context.Context, db *sqlx.DB, owner string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, owner, allocation_id, vested, claimed, last_updated_at
		FROM ` + tableName + `
		WHERE (owner = $1)
	`
	opts := []interface{}{owner}

	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, beneficiary.ErrNotFound)
	}

	if len(res) == 0 {
		return nil, beneficiary.ErrNotFound
	}
	return res, nil
}
