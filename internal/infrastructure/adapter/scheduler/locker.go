package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v8"
)

// RunLocker decides which instance runs the sweep for a window.
// TryLock reports false when another instance already holds the window.
type RunLocker interface {
	TryLock(ctx context.Context, window string) (bool, error)
}

type noopLocker struct{}

// NewNoopLocker returns a locker that always grants the window. Used
// when a single instance runs the scheduler.
func NewNoopLocker() RunLocker {
	return noopLocker{}
}

func (noopLocker) TryLock(context.Context, string) (bool, error) {
	return true, nil
}

// RedisLocker grants each window to one instance through a redsync mutex.
// The mutex is never released; it expires after expiry so the window
// cannot be claimed twice on the same day.
type RedisLocker struct {
	rs     *redsync.Redsync
	prefix string
	expiry time.Duration
}

// NewRedisLocker creates a locker on top of client
func NewRedisLocker(client *redis.Client, prefix string, expiry time.Duration) *RedisLocker {
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		prefix: prefix,
		expiry: expiry,
	}
}

func (l *RedisLocker) key(window string) string {
	return fmt.Sprintf("%s:daily-bonus:%s", l.prefix, window)
}

// TryLock makes a single attempt to claim the window
func (l *RedisLocker) TryLock(ctx context.Context, window string) (bool, error) {
	mutex := l.rs.NewMutex(l.key(window),
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(1),
	)

	err := mutex.TryLockContext(ctx)
	if err == nil {
		return true, nil
	}

	var taken *redsync.ErrTaken
	if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
		return false, nil
	}
	return false, err
}
