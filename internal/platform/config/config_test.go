package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hrleave")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, int32(2), cfg.DBMinConns)
	assert.Equal(t, 5*time.Minute, cfg.LockTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Empty(t, cfg.RedisURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOCK_TTL=90s\nREDIS_URL=redis://localhost:6379/0\n"), 0o600))
	t.Setenv("DATABASE_URL", "postgres://localhost/hrleave")
	t.Cleanup(func() {
		_ = os.Unsetenv("LOCK_TTL")
		_ = os.Unsetenv("REDIS_URL")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.LockTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:    "postgres://localhost/hrleave",
		DBMaxConns:     10,
		DBMinConns:     2,
		LockTTL:        time.Minute,
		RequestTimeout: time.Second,
		MaxBodyBytes:   4096,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"missing database url": func(c *Config) { c.DatabaseURL = " " },
		"zero max conns":       func(c *Config) { c.DBMaxConns = 0 },
		"min above max":        func(c *Config) { c.DBMinConns = 11 },
		"zero lock ttl":        func(c *Config) { c.LockTTL = 0 },
		"zero timeout":         func(c *Config) { c.RequestTimeout = 0 },
		"tiny body limit":      func(c *Config) { c.MaxBodyBytes = 10 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
