package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenDB opens a bun handle for the supported drivers. SQLite serves
// development and tests; Postgres serves shared deployments.
func OpenDB(driver string, dsn string) (*bun.DB, error) {
	name := strings.TrimSpace(strings.ToLower(driver))
	switch name {
	case "sqlite3", "sqlite":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open sqlite: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres", "pg":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
// Embedding applications with their own migration tooling can skip this.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("sqlstore: bun db is required")
	}
	_, err := db.NewCreateTable().
		Model((*accountSnapshotRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}
