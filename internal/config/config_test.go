package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "GHS", cfg.Currency)
	assert.Equal(t, 10*time.Second, cfg.Paystack.Timeout)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.Lockout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
mysql:
  host: db.internal
  user: orders
  database: food
paystack:
  timeout: 5s
catalog:
  url: http://menu:8081
  warmup_items: [m-1, m-2]
auth:
  max_attempts: 3
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("MYSQL_HOST", "override.internal")
	t.Setenv("LOGIN_LOCKOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "override.internal", cfg.MySQL.Host)
	assert.Equal(t, "orders", cfg.MySQL.User)
	assert.Equal(t, "3306", cfg.MySQL.Port)
	assert.Equal(t, 5*time.Second, cfg.Paystack.Timeout)
	assert.Equal(t, []string{"m-1", "m-2"}, cfg.Catalog.WarmupItems)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Auth.Lockout)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	env := map[string]string{
		"PAYSTACK_TIMEOUT":     "soon",
		"LOGIN_MAX_ATTEMPTS":   "five",
		"CATALOG_WARMUP_ITEMS": "a, ,b",
	}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYSTACK_TIMEOUT")
	assert.Contains(t, err.Error(), "LOGIN_MAX_ATTEMPTS")
	assert.Equal(t, []string{"a", "b"}, cfg.Catalog.WarmupItems)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestApplyEnv_RateLimits(t *testing.T) {
	env := map[string]string{
		"ORDER_RATE_RPS":   "4.5",
		"ORDER_RATE_BURST": "20",
		"LOGIN_RATE_RPS":   "0.5",
		"LOGIN_RATE_BURST": "3",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, RateLimit{RPS: 4.5, Burst: 20}, cfg.OrderRate)
	assert.Equal(t, RateLimit{RPS: 0.5, Burst: 3}, cfg.LoginRate)

	env = map[string]string{"LOGIN_RATE_RPS": "fast"}
	cfg = Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOGIN_RATE_RPS")
	assert.Equal(t, 0.2, cfg.LoginRate.RPS)
}
