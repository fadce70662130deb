package db

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// KV is the string key-value primitive the post store is written against.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Config selects and configures a KV backend.
type Config struct {
	Driver     string
	DBURL      string
	RedisURL   string
	SQLitePath string
}

// Open connects to the backend named by cfg.Driver and prepares it for use.
// SQL backends are migrated before Open returns.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (KV, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		logger.Info("using in-memory store")
		return NewMemoryKV(), nil
	case DriverRedis:
		redisCfg, err := LoadRedisConfig(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		client, err := NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connection initialized")
		return NewRedisKV(client), nil
	case DriverPostgres:
		conn, err := InitDB(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, conn, DialectPostgres); err != nil {
			_ = conn.Close()
			return nil, err
		}
		logger.Info("postgres store ready")
		return NewSQLKV(conn, DialectPostgres), nil
	case DriverSQLite:
		conn, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, conn, DialectSQLite); err != nil {
			_ = conn.Close()
			return nil, err
		}
		logger.Info("sqlite store ready", zap.String("path", cfg.SQLitePath))
		return NewSQLKV(conn, DialectSQLite), nil
	}
	return nil, errors.Wrapf(ErrUnknownDriver, "driver %q", cfg.Driver)
}
