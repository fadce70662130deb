package db

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps dialect and base FS in package state.
var migrateMu sync.Mutex

// Migrate applies the embedded migrations to conn.
func Migrate(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	return nil
}
