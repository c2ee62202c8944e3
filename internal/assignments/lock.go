package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// Locker hands out per-agent mutual exclusion for assignment mutations. A nil
// Locker disables locking and preserves the original unsynchronized behavior.
type Locker interface {
	Acquire(ctx context.Context, agentID uuid.UUID) (release func(context.Context) error, ok bool, err error)
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope, id string) string
}

// RedisLocker implements Locker using SETNX + TTL, releasing only while the
// owner value still matches.
type RedisLocker struct {
	store lockStore
	ttl   time.Duration
}

// NewRedisLocker constructs a redis-backed per-agent locker.
func NewRedisLocker(store lockStore, ttl time.Duration) (*RedisLocker, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{store: store, ttl: ttl}, nil
}

// Acquire tries to own the agent's lock for the configured TTL. When ok is
// false another mutation holds the lock and the caller should back off.
func (l *RedisLocker) Acquire(ctx context.Context, agentID uuid.UUID) (func(context.Context) error, bool, error) {
	key := l.store.LockKey("agent_assignment", agentID.String())
	owner := uuid.NewString()

	ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		value, err := l.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return nil
			}
			return fmt.Errorf("read lock owner: %w", err)
		}
		if value != owner {
			return nil
		}
		if err := l.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete lock: %w", err)
		}
		return nil
	}
	return release, true, nil
}
