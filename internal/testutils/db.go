// Package testutils provides database helpers for integration tests.
//
// Integration tests are gated on the HOCALINGO_TEST_DATABASE_URL environment
// variable and skip themselves when it is unset, so the default `go test`
// run stays free of external dependencies. Each test runs inside its own
// transaction which is rolled back on cleanup, so parallel tests can touch
// the same tables without interfering with each other and without manual
// cleanup.
package testutils

import (
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/ali-aktas/hocalingo-api/migrations"
)

// TestDatabaseURLEnv names the environment variable that carries the
// connection string for integration tests.
const TestDatabaseURLEnv = "HOCALINGO_TEST_DATABASE_URL"

var migrateOnce sync.Once

// GetTestDB opens a connection to the integration test database and makes
// sure the schema is current. The test is skipped when the database URL
// environment variable is unset. The connection is closed via t.Cleanup.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("skipping integration test: %s not set", TestDatabaseURLEnv)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("error closing test database: %v", err)
		}
	})

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	var migrateErr error
	migrateOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(goose.NopLogger())
		if err := goose.SetDialect("postgres"); err != nil {
			migrateErr = err
			return
		}
		migrateErr = goose.Up(db, ".")
	})
	if migrateErr != nil {
		t.Fatalf("failed to migrate test database: %v", migrateErr)
	}

	return db
}

// WithTx runs fn inside a transaction that is rolled back when the test
// finishes, whether it passes or fails. Stores built on the transaction see
// every write fn makes; nothing leaks into the shared database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("error rolling back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
