// Package testutil provides shared helpers for Postgres integration tests.
// Helpers skip automatically when TEST_DATABASE_URL is not set, so unit tests
// run without a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/meridian-travel/itinerary-api/migrations"
)

// OpenMigratedPool connects to TEST_DATABASE_URL, applies all migrations, and
// truncates application tables so every test starts from an empty schema.
// The pool is closed when the test finishes.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil: open sql db: %v", err)
	}
	defer db.Close()
	if err := migrations.Up(db); err != nil {
		t.Fatalf("testutil: migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `
		TRUNCATE travelers, day_destinations, itinerary_days, itineraries, combination_entries
	`)
	if err != nil {
		t.Fatalf("testutil: truncate: %v", err)
	}
	return pool
}
