package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "CL"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration for the environment named by CL_ENV
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	return Load(getEnvironment(), ConfigPaths...)
}

// Load reads <env>.yaml from the first matching path, then applies
// defaults and CL_ environment overrides
func Load(env string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 10)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30)
	v.SetDefault("database.connMaxIdleTime", 15)
	v.SetDefault("database.queryTimeout", 5)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 0 * * *")
	v.SetDefault("scheduler.bonusAmount", 5)
	v.SetDefault("scheduler.runTimeout", 300)
	v.SetDefault("scheduler.lockExpiry", 23)

	v.SetDefault("redis.keyPrefix", "credit-ledger")

	v.SetDefault("seed.defaultUsers", false)
}

// getEnvironment determines the environment from CL_ENV, defaulting to development
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// envOverride binds one environment variable to one config key
type envOverride struct {
	env     string
	key     string
	numeric bool
}

var envOverrides = []envOverride{
	{env: "DB_DRIVER", key: "database.driver"},
	{env: "DB_HOST", key: "database.host"},
	{env: "DB_PORT", key: "database.port"},
	{env: "DB_USERNAME", key: "database.username"},
	{env: "DB_PASSWORD", key: "database.password"},
	{env: "DB_NAME", key: "database.database"},
	{env: "DB_SSL_MODE", key: "database.sslMode"},
	{env: "DB_PATH", key: "database.path"},
	{env: "DB_MAX_OPEN_CONNS", key: "database.maxOpenConns", numeric: true},
	{env: "DB_MAX_IDLE_CONNS", key: "database.maxIdleConns", numeric: true},
	{env: "DB_QUERY_TIMEOUT_SECONDS", key: "database.queryTimeout", numeric: true},
	{env: "DB_RETRY_ATTEMPTS", key: "database.retryAttempts", numeric: true},
	{env: "SERVER_HOST", key: "server.host"},
	{env: "SERVER_PORT", key: "server.port", numeric: true},
	{env: "LOGGER_LEVEL", key: "logger.level"},
	{env: "SCHEDULER_ENABLED", key: "scheduler.enabled"},
	{env: "SCHEDULER_SPEC", key: "scheduler.spec"},
	{env: "SCHEDULER_BONUS_AMOUNT", key: "scheduler.bonusAmount", numeric: true},
	{env: "REDIS_ADDR", key: "redis.addr"},
	{env: "REDIS_PASSWORD", key: "redis.password"},
	{env: "REDIS_DB", key: "redis.db", numeric: true},
	{env: "SEED_DEFAULT_USERS", key: "seed.defaultUsers"},
}

// processEnvOverrides makes CL_ environment variables win over file values.
// Malformed numeric values are ignored.
func processEnvOverrides(v *viper.Viper) {
	for _, o := range envOverrides {
		raw := os.Getenv(EnvPrefix + "_" + o.env)
		if raw == "" {
			continue
		}
		if !o.numeric {
			v.Set(o.key, raw)
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil {
			v.Set(o.key, n)
		}
	}
}

// processDurations converts the integer unit values read from config into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Scheduler.RunTimeout = time.Duration(config.Scheduler.RunTimeout) * time.Second
	config.Scheduler.LockExpiry = time.Duration(config.Scheduler.LockExpiry) * time.Hour
}
