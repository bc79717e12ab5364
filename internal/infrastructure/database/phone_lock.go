package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KEBA-mall/sto-backend/domain"
)

const lockRetryInterval = 25 * time.Millisecond

// releaseScript deletes the lock only if it is still held by the caller,
// so a lock that expired and was re-acquired elsewhere is never released
// by the original holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// PhoneLock implements domain.PhoneLocker with a Redis SetNX lock keyed by
// normalized phone number. Locks for different phones are independent;
// issue/confirm calls for the same phone serialize behind the key.
type PhoneLock struct {
	client *RedisClient
	ttl    time.Duration
}

// NewPhoneLock creates a Redis-backed per-phone lock with the given hold TTL.
func NewPhoneLock(client *RedisClient, ttl time.Duration) *PhoneLock {
	return &PhoneLock{client: client, ttl: ttl}
}

// Lock acquires the lock for phone, retrying until the context is done.
// The returned function releases the lock.
func (l *PhoneLock) Lock(ctx context.Context, phone domain.PhoneNumber) (func(), error) {
	key := "verify:lock:" + phone.String()
	token := lockToken()

	for {
		ok, err := SetNX(ctx, l.client, key, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquiring phone lock: %w", ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}

	release := func() {
		releaseScript.Run(context.Background(), l.client.Client, []string{key}, token)
	}
	return release, nil
}

func lockToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

var _ domain.PhoneLocker = (*PhoneLock)(nil)
