package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
	"github.com/openvest/vesting-server/pkg/vesting/data/settings/tests"

	postgrestest "github.com/openvest/vesting-server/pkg/database/postgres/test"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE vestingserver__core_settings(
			id SERIAL NOT NULL PRIMARY KEY,

			singleton BOOLEAN NOT NULL,

			genesis_at BIGINT NOT NULL,
			genesis_frozen BOOLEAN NOT NULL,

			sale_channel TEXT NOT NULL,
			sale_channel_frozen BOOLEAN NOT NULL,

			auto_supply_on_claim BOOLEAN NOT NULL,
			auto_supply_on_increase BOOLEAN NOT NULL,
			auto_supply_source TEXT NOT NULL,

			token_name TEXT NOT NULL,
			token_symbol TEXT NOT NULL,

			last_updated_at TIMESTAMP WITH TIME ZONE,

			CONSTRAINT vestingserver__core_settings__uniq__singleton UNIQUE (singleton)
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE vestingserver__core_settings;
	`
)

var (
	testStore settings.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		logrus.StandardLogger().WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			logrus.StandardLogger().WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestSettingsPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
