package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "SERVER_ENV", "SERVER_PORT", "REDIS_URL", "PLAN_STORE"} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: production
database:
  url: postgres://localhost/automarket
  query_timeout: 2s
plans:
  store: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, PlanStoreMemory, cfg.Plans.Store)
	assert.Equal(t, 4, cfg.Plans.MaxPlans)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://file/db
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("PLAN_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, PlanStoreRedis, cfg.Plans.Store)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, PlanStorePostgres, cfg.Plans.Store)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoad_RedisStoreNeedsURL(t *testing.T) {
	path := writeConfig(t, "plans:\n  store: redis\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownPlanStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PLAN_STORE", "etcd")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
