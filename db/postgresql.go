package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Dialect selects placeholder style and goose dialect for a SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// InitDB opens and pings a postgres connection pool.
func InitDB(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	if dataSourceName == "" {
		return nil, errors.New("database URL (DB_URL) is not set")
	}

	conn, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Configure database connection pool settings
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(10)

	return conn, nil
}

// SQLKV keeps values in the kv_store table created by the embedded migrations.
type SQLKV struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLKV(conn *sql.DB, dialect Dialect) *SQLKV {
	return &SQLKV{db: conn, dialect: dialect}
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.bind("SELECT value FROM kv_store WHERE key = $1"), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "error querying key %s", key)
	}
	return value, true, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, s.bind(query), key, value); err != nil {
		return errors.Wrapf(err, "error writing key %s", key)
	}
	return nil
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}

// bind rewrites $N placeholders to ? for SQLite.
func (s *SQLKV) bind(query string) string {
	if s.dialect != DialectSQLite {
		return query
	}
	out := make([]byte, 0, len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			out = append(out, '?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
