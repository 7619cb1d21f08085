package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: 9090
database:
  driver: sqlite
  path: ledger.db
logger:
  level: debug
scheduler:
  bonusAmount: 5
seed:
  defaultUsers: true
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("should merge file values with defaults", func(t *testing.T) {
		dir := writeConfig(t, Test, testYAML)

		cfg, err := Load(Test, dir)

		require.NoError(t, err)
		assert.Equal(t, Test, cfg.Environment)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "ledger.db", cfg.Database.Path)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
		assert.Equal(t, "0 0 * * *", cfg.Scheduler.Spec)
		assert.Equal(t, int64(5), cfg.Scheduler.BonusAmount)
		assert.Equal(t, 300*time.Second, cfg.Scheduler.RunTimeout)
		assert.Equal(t, 23*time.Hour, cfg.Scheduler.LockExpiry)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
		assert.True(t, cfg.Seed.DefaultUsers)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("should let environment override file", func(t *testing.T) {
		dir := writeConfig(t, Test, testYAML)
		t.Setenv("CL_SERVER_PORT", "7070")
		t.Setenv("CL_DB_PATH", "other.db")
		t.Setenv("CL_REDIS_ADDR", "localhost:6379")
		t.Setenv("CL_DB_MAX_OPEN_CONNS", "not-a-number")

		cfg, err := Load(Test, dir)

		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "other.db", cfg.Database.Path)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	})

	t.Run("should fail when file is missing", func(t *testing.T) {
		_, err := Load("staging", t.TempDir())
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: Development,
			Server:      ServerConfig{Port: 8080},
			Database:    DatabaseConfig{Driver: "postgres", Host: "db", Username: "ledger", Database: "ledger"},
			Scheduler:   SchedulerConfig{Enabled: true, Spec: "0 0 * * *", BonusAmount: 5},
		}
	}

	testCases := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid postgres", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, false},
		{"missing host", func(c *Config) { c.Database.Host = "" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, false},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite" }, false},
		{"zero bonus", func(c *Config) { c.Scheduler.BonusAmount = 0 }, false},
		{"disabled scheduler ignores bonus", func(c *Config) { c.Scheduler.Enabled = false; c.Scheduler.BonusAmount = 0 }, true},
		{"seed in production", func(c *Config) { c.Environment = Production; c.Seed.DefaultUsers = true }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
