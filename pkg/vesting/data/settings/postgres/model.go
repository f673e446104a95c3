package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/openvest/vesting-server/pkg/database/postgres"
	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
)

const (
	tableName = "vestingserver__core_settings"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	// Guarantees at most one row
	Singleton bool `db:"singleton"`

	GenesisAt     int64 `db:"genesis_at"`
	GenesisFrozen bool  `db:"genesis_frozen"`

	SaleChannel       string `db:"sale_channel"`
	SaleChannelFrozen bool   `db:"sale_channel_frozen"`

	AutoSupplyOnClaim    bool   `db:"auto_supply_on_claim"`
	AutoSupplyOnIncrease bool   `db:"auto_supply_on_increase"`
	AutoSupplySource     string `db:"auto_supply_source"`

	TokenName   string `db:"token_name"`
	TokenSymbol string `db:"token_symbol"`

	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *settings.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Singleton: true,

		GenesisAt:     int64(obj.GenesisAt),
		GenesisFrozen: obj.GenesisFrozen,

		SaleChannel:       obj.SaleChannel,
		SaleChannelFrozen: obj.SaleChannelFrozen,

		AutoSupplyOnClaim:    obj.AutoSupplyOnClaim,
		AutoSupplyOnIncrease: obj.AutoSupplyOnIncrease,
		AutoSupplySource:     obj.AutoSupplySource,

		TokenName:   obj.TokenName,
		TokenSymbol: obj.TokenSymbol,

		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *settings.Record {
	return &settings.Record{
		Id: uint64(obj.Id.Int64),

		GenesisAt:     uint64(obj.GenesisAt),
		GenesisFrozen: obj.GenesisFrozen,

		SaleChannel:       obj.SaleChannel,
		SaleChannelFrozen: obj.SaleChannelFrozen,

		AutoSupplyOnClaim:    obj.AutoSupplyOnClaim,
		AutoSupplyOnIncrease: obj.AutoSupplyOnIncrease,
		AutoSupplySource:     obj.AutoSupplySource,

		TokenName:   obj.TokenName,
		TokenSymbol: obj.TokenSymbol,

		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		m.LastUpdatedAt = time.Now()

		query := `INSERT INTO ` + tableName + `
			(singleton, genesis_at, genesis_frozen, sale_channel, sale_channel_frozen, auto_supply_on_claim, auto_supply_on_increase, auto_supply_source, token_name, token_symbol, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (singleton)
			DO UPDATE
				SET genesis_at = $2, genesis_frozen = $3, sale_channel = $4, sale_channel_frozen = $5, auto_supply_on_claim = $6, auto_supply_on_increase = $7, auto_supply_source = $8, token_name = $9, token_symbol = $10, last_updated_at = $11
			RETURNING id, singleton, genesis_at, genesis_frozen, sale_channel, sale_channel_frozen, auto_supply_on_claim, auto_supply_on_increase, auto_supply_source, token_name, token_symbol, last_updated_at
		`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.Singleton,
			m.GenesisAt,
			m.GenesisFrozen,
			m.SaleChannel,
			m.SaleChannelFrozen,
			m.AutoSupplyOnClaim,
			m.AutoSupplyOnIncrease,
			m.AutoSupplySource,
			m.TokenName,
			m.TokenSymbol,
			m.LastUpdatedAt,
		).StructScan(m)

		return pgutil.CheckNoRows(err, settings.ErrNotFound)
	})
}

func dbGet(ctx context.Context, db *sqlx.DB) (*model, error) {
	res := &model{}

	query := `SELECT id, singleton, genesis_at, genesis_frozen, sale_channel, sale_channel_frozen, auto_supply_on_claim, auto_supply_on_increase, auto_supply_source, token_name, token_symbol, last_updated_at
		FROM ` + tableName + `
		WHERE singleton = TRUE
	`

	err := db.GetContext(ctx, res, query)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, settings.ErrNotFound)
	}
	return res, nil
}
