package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/config"
)

func validPostgresConfig() *Config {
	return &Config{
		Driver:       DriverPostgres,
		Host:         "localhost",
		Port:         5432,
		Username:     "postgres",
		Password:     "secret",
		Database:     "credit_ledger",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
		QueryTimeout: time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validPostgresConfig().Validate())
	require.NoError(t, NewTestConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing host", func(c *Config) { c.Host = "" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"missing user", func(c *Config) { c.Username = "" }},
		{"missing name", func(c *Config) { c.Database = "" }},
		{"bad ssl mode", func(c *Config) { c.SSLMode = "sometimes" }},
		{"unknown driver", func(c *Config) { c.Driver = "mysql" }},
		{"no open conns", func(c *Config) { c.MaxOpenConns = 0 }},
		{"negative idle", func(c *Config) { c.MaxIdleConns = -1 }},
		{"no timeout", func(c *Config) { c.QueryTimeout = 0 }},
		{"negative retries", func(c *Config) { c.RetryAttempts = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validPostgresConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	t.Run("sqlite without path", func(t *testing.T) {
		c := NewTestConfig()
		c.Path = ""
		assert.Error(t, c.Validate())
	})
}

func TestConfig_DSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=credit_ledger sslmode=disable",
		validPostgresConfig().DSN())

	mem := NewTestConfig()
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", mem.DSN())
	assert.True(t, mem.IsInMemory())

	file := &Config{Driver: DriverSQLite, Path: "data/ledger.db?mode=rwc"}
	assert.Equal(t, "data/ledger.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", file.DSN())
	assert.False(t, file.IsInMemory())
}

func TestFromAppConfig(t *testing.T) {
	conf := &config.Config{}
	conf.Database.Driver = DriverPostgres
	conf.Database.Host = "db"
	conf.Database.Port = "6543"
	conf.Database.Username = "ledger"
	conf.Database.Database = "credits"
	conf.Database.SSLMode = "require"
	conf.Database.MaxOpenConns = 25
	conf.Database.RetryAttempts = 4
	conf.Database.RetryDelay = 2 * time.Second
	conf.Logger.Level = "warn"

	db := FromAppConfig(conf)

	assert.Equal(t, 6543, db.Port)
	assert.Equal(t, "db", db.Host)
	assert.Equal(t, "ledger", db.Username)
	assert.Equal(t, "require", db.SSLMode)
	assert.Equal(t, 25, db.MaxOpenConns)
	assert.Equal(t, 4, db.RetryAttempts)
	assert.Equal(t, 2*time.Second, db.RetryDelay)
	assert.Equal(t, "warn", db.LogLevel)
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5432, ParsePort("5432"))
	assert.Equal(t, 0, ParsePort("abc"))
	assert.Equal(t, 0, ParsePort("0"))
	assert.Equal(t, 0, ParsePort("65536"))
}
