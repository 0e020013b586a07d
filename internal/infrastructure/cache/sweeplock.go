package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corvid-crm/corvid/internal/shared/id"
)

const sweepLockKeyPrefix = "corvid:sweep_lock:"

// releaseScript deletes the key only while it still holds our token, so a
// run that outlived its TTL never frees a lock another instance now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock serialises periodic sweeps across instances with SET NX + TTL.
type SweepLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSweepLock(client *redis.Client, ttl time.Duration) *SweepLock {
	return &SweepLock{client: client, ttl: ttl}
}

func (l *SweepLock) buildKey(name string) string {
	return sweepLockKeyPrefix + name
}

// TryAcquire returns a release func when the lock was free. When another
// holder has it, acquired is false and release is a no-op.
func (l *SweepLock) TryAcquire(ctx context.Context, name string) (release func(context.Context) error, acquired bool, err error) {
	token, err := id.Generate(20)
	if err != nil {
		return nil, false, err
	}
	key := l.buildKey(name)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !ok {
		return func(context.Context) error { return nil }, false, nil
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release sweep lock: %w", err)
		}
		return nil
	}, true, nil
}
