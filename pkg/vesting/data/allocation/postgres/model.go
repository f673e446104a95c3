package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	pgutil "github.com/openvest/vesting-server/pkg/database/postgres"
)

const (
	tableName = "vestingserver__core_allocation"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	AllocationId string `db:"allocation_id"`
	Name         string `db:"name"`

	Reserved int64 `db:"reserved"`
	Vested   int64 `db:"vested"`
	Claimed  int64 `db:"claimed"`

	Lockup          int64 `db:"lockup"`
	Cliff           int64 `db:"cliff"`
	VestingDuration int64 `db:"vesting_duration"`
	UnlockDelay     int64 `db:"unlock_delay"`
	TgeUnlockBps    int64 `db:"tge_unlock_bps"`

	LastUpdatedAt time.Time `db:"last_updated_at"`
}

type aggregatesModel struct {
	TotalReserved int64 `db:"total_reserved"`
	TotalVested   int64 `db:"total_vested"`
	TotalClaimed  int64 `db:"total_claimed"`
}

func toModel(obj *allocation.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		AllocationId: obj.AllocationId,
		Name:         obj.Name,

		Reserved: int64(obj.Reserved),
		Vested:   int64(obj.Vested),
		Claimed:  int64(obj.Claimed),

		Lockup:          int64(obj.Lockup),
		Cliff:           int64(obj.Cliff),
		VestingDuration: int64(obj.VestingDuration),
		UnlockDelay:     int64(obj.UnlockDelay),
		TgeUnlockBps:    int64(obj.TgeUnlockBps),

		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *allocation.Record {
	return &allocation.Record{
		Id: uint64(obj.Id.Int64),

		AllocationId: obj.AllocationId,
		Name:         obj.Name,

		Reserved: uint64(obj.Reserved),
		Vested:   uint64(obj.Vested),
		Claimed:  uint64(obj.Claimed),

		Lockup:          uint64(obj.Lockup),
		Cliff:           uint64(obj.Cliff),
		VestingDuration: uint64(obj.VestingDuration),
		UnlockDelay:     uint64(obj.UnlockDelay),
		TgeUnlockBps:    uint32(obj.TgeUnlockBps),

		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		m.LastUpdatedAt = time.Now()

		query := `INSERT INTO ` + tableName + `
			(allocation_id, name, reserved, vested, claimed, lockup, cliff, vesting_duration, unlock_delay, tge_unlock_bps, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (allocation_id)
			DO UPDATE
				SET name = $2, reserved = $3, vested = $4, claimed = $5, lockup = $6, cliff = $7, vesting_duration = $8, unlock_delay = $9, tge_unlock_bps = $10, last_updated_at = $11
				WHERE ` + tableName + `.allocation_id = $1
			RETURNING id, allocation_id, name, reserved, vested, claimed, lockup, cliff, vesting_duration, unlock_delay, tge_unlock_bps, last_updated_at
		`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.AllocationId,
			m.Name,
			m.Reserved,
			m.Vested,
			m.Claimed,
			m.Lockup,
			m.Cliff,
			m.VestingDuration,
			m.UnlockDelay,
			m.TgeUnlockBps,
			m.LastUpdatedAt,
		).StructScan(m)

		return pgutil.CheckNoRows(err, allocation.ErrNotFound)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, allocationId string) (*model, error) {
	res := &model{}

	query := `SELECT id, allocation_id, name, reserved, vested, claimed, lockup, cliff, vesting_duration, unlock_delay, tge_unlock_bps, last_updated_at
		FROM ` + tableName + `
		WHERE allocation_id = $1
	`

	err := db.GetContext(ctx, res, query, allocationId)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, allocation.ErrNotFound)
	}
	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, allocation_id, name, reserved, vested, claimed, lockup, cliff, vesting_duration, unlock_delay, tge_unlock_bps, last_updated_at
		FROM ` + tableName + `
		ORDER BY id ASC
	`

	err := db.SelectContext(ctx, &res, query)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, allocation.ErrNotFound)
	}
	return res, nil
}

func dbGetAggregates(ctx context.Context, db *sqlx.DB) (*aggregatesModel, error) {
	res := &aggregatesModel{}

	query := `SELECT
			COALESCE(SUM(reserved), 0) AS total_reserved,
			COALESCE(SUM(vested), 0) AS total_vested,
			COALESCE(SUM(claimed), 0) AS total_claimed
		FROM ` + tableName

	err := db.GetContext(ctx, res, query)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dbDelete(ctx context.Context, db *sqlx.DB, allocationId string) error {
	query := `DELETE FROM ` + tableName + ` WHERE allocation_id = $1`

	res, err := db.ExecContext(ctx, query, allocationId)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return allocation.ErrNotFound
	}
	return nil
}
