package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/openvest/vesting-server/pkg/database/postgres"
	"github.com/openvest/vesting-server/pkg/database/query"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
	"github.com/openvest/vesting-server/pkg/vesting/data/settings"

	allocation_memory_client "github.com/openvest/vesting-server/pkg/vesting/data/allocation/memory"
	beneficiary_memory_client "github.com/openvest/vesting-server/pkg/vesting/data/beneficiary/memory"
	settings_memory_client "github.com/openvest/vesting-server/pkg/vesting/data/settings/memory"

	allocation_postgres_client "github.com/openvest/vesting-server/pkg/vesting/data/allocation/postgres"
	beneficiary_postgres_client "github.com/openvest/vesting-server/pkg/vesting/data/beneficiary/postgres"
	settings_postgres_client "github.com/openvest/vesting-server/pkg/vesting/data/settings/postgres"
)

// Provider is the aggregated data access layer for the vesting engine.
type Provider interface {
	// Allocations
	// --------------------------------------------------------------------------------
	PutAllocation(ctx context.Context, record *allocation.Record) error
	GetAllocation(ctx context.Context, allocationId string) (*allocation.Record, error)
	GetAllAllocations(ctx context.Context) ([]*allocation.Record, error)
	GetAllocationAggregates(ctx context.Context) (*allocation.Aggregates, error)
	DeleteAllocation(ctx context.Context, allocationId string) error

	// Beneficiaries
	// --------------------------------------------------------------------------------
	PutBeneficiary(ctx context.Context, record *beneficiary.Record) error
	GetBeneficiary(ctx context.Context, owner, allocationId string) (*beneficiary.Record, error)
	GetAllBeneficiariesByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*beneficiary.Record, error)

	// Settings
	// --------------------------------------------------------------------------------
	PutSettings(ctx context.Context, record *settings.Record) error
	GetSettings(ctx context.Context) (*settings.Record, error)

	// ExecuteInTx runs fn inside a single DB transaction. Any store call made
	// with the provided ctx joins that transaction.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type DatabaseProvider struct {
	allocations   allocation.Store
	beneficiaries beneficiary.Store
	settings      settings.Store

	db *sqlx.DB
}

// NewDatabaseProvider returns a postgres-backed Provider
func NewDatabaseProvider(dbConfig *pg.Config) (Provider, error) {
	db, err := pg.NewWithUsernameAndPassword(
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		fmt.Sprint(dbConfig.Port),
		dbConfig.DbName,
	)
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConnections)
	}
	if dbConfig.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConnections)
	}
	db.SetConnMaxIdleTime(time.Hour)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseProvider{
		allocations:   allocation_postgres_client.New(db),
		beneficiaries: beneficiary_postgres_client.New(db),
		settings:      settings_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

// NewTestDataProvider returns a memory-backed Provider for tests
func NewTestDataProvider() Provider {
	return &DatabaseProvider{
		allocations:   allocation_memory_client.New(),
		beneficiaries: beneficiary_memory_client.New(),
		settings:      settings_memory_client.New(),
	}
}

func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	return pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
}

// Allocations
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) PutAllocation(ctx context.Context, record *allocation.Record) error {
	return dp.allocations.Put(ctx, record)
}
func (dp *DatabaseProvider) GetAllocation(ctx context.Context, allocationId string) (*allocation.Record, error) {
	return dp.allocations.Get(ctx, allocationId)
}
func (dp *DatabaseProvider) GetAllAllocations(ctx context.Context) ([]*allocation.Record, error) {
	return dp.allocations.GetAll(ctx)
}
func (dp *DatabaseProvider) GetAllocationAggregates(ctx context.Context) (*allocation.Aggregates, error) {
	return dp.allocations.GetAggregates(ctx)
}
func (dp *DatabaseProvider) DeleteAllocation(ctx context.Context, allocationId string) error {
	return dp.allocations.Delete(ctx, allocationId)
}

// Beneficiaries
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) PutBeneficiary(ctx context.Context, record *beneficiary.Record) error {
	return dp.beneficiaries.Put(ctx, record)
}
func (dp *DatabaseProvider) GetBeneficiary(ctx context.Context, owner, allocationId string) (*beneficiary.Record, error) {
	return dp.beneficiaries.Get(ctx, owner, allocationId)
}
func (dp *DatabaseProvider) GetAllBeneficiariesByOwner(ctx context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*beneficiary.Record, error) {
	return dp.beneficiaries.GetAllByOwner(ctx, owner, cursor, limit, direction)
}

// Settings
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) PutSettings(ctx context.Context, record *settings.Record) error {
	return dp.settings.Put(ctx, record)
}
func (dp *DatabaseProvider) GetSettings(ctx context.Context) (*settings.Record, error) {
	return dp.settings.Get(ctx)
}
