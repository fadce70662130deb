package config

import (
	"os"
	"path/filepath"
	"pocketblog/db"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, db.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "pocketblog.db", cfg.SQLitePath)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, cfg.Origins())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, db.Config{Driver: db.DriverRedis, RedisURL: "redis://localhost:6379/0", SQLitePath: "pocketblog.db"}, cfg.Store())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yml := "STORE_DRIVER: memory\nLOG_LEVEL: debug\nAPP_ENV: production\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, db.DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Port: "1", StoreDriver: "memory"}, false},
		{"redis without url", Config{Port: "1", StoreDriver: "redis"}, true},
		{"postgres without url", Config{Port: "1", StoreDriver: "postgres"}, true},
		{"postgres", Config{Port: "1", StoreDriver: "postgres", DBURL: "postgres://x"}, false},
		{"sqlite without path", Config{Port: "1", StoreDriver: "sqlite"}, true},
		{"unknown driver", Config{Port: "1", StoreDriver: "tape"}, true},
		{"no port", Config{StoreDriver: "memory"}, true},
		{"negative rate limit", Config{Port: "1", StoreDriver: "memory", RateLimit: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
