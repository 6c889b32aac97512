package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storelane/sale-engine/internal/core/domain"
	"github.com/storelane/sale-engine/internal/port"
)

const (
	lockKeyPrefix = "lock:product:"

	// leaseTTL bounds how long a crashed holder can block a product.
	leaseTTL = 30 * time.Second

	retryInterval = 20 * time.Millisecond
)

// releaseScript deletes the lock key only if this lease still owns it, so an
// expired lease cannot release a lock that was re-acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisLocker implements the product lock as a Redis lease, for deployments
// running more than one engine instance against the same database.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, productID string, timeout time.Duration) (port.Lease, error) {
	key := lockKeyPrefix + productID
	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, leaseTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock lease: %w", err)
		}
		if ok {
			return &redisLease{client: l.client, key: key, token: token}, nil
		}

		if time.Now().Add(retryInterval).After(deadline) {
			return nil, domain.ErrLockTimeout
		}
		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
	once   sync.Once
}

func (le *redisLease) Release() {
	le.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(ctx, le.client, []string{le.key}, le.token)
	})
}
