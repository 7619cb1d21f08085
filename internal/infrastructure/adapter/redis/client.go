package redis

import (
	"context"
	"fmt"
	"time"

	redisv8 "github.com/go-redis/redis/v8"

	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/config"
)

const pingTimeout = 5 * time.Second

// NewClient connects to Redis and verifies the connection. It returns
// nil without error when no address is configured.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redisv8.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redisv8.NewClient(&redisv8.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
