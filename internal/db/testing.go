package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL with migrations applied.
// Tests are skipped when the variable is not set.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	if err := ApplyMigrations(connString); err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v", err)
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `TRUNCATE "user", session, password_reset`)
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
