package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 5 * time.Second
	lockPoll        = 25 * time.Millisecond
)

var ErrLockTimeout = errors.New("session lock: timed out waiting for lock")

// releaseScript deletes the key only while it still holds our owner id, so a
// holder whose lease expired cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLock serializes per-user session bookkeeping across instances.
// Key format: session-lock:<user_id>
type SessionLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewSessionLock wraps client. ttl bounds how long a crashed holder can block
// others; wait bounds how long Lock polls before giving up.
func NewSessionLock(client *redis.Client, ttl, wait time.Duration) *SessionLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &SessionLock{client: client, ttl: ttl, wait: wait}
}

// Lock blocks until the user's lock is held, the wait elapses or ctx ends.
func (l *SessionLock) Lock(ctx context.Context, userID string) (func(), error) {
	key := l.key(userID)
	owner := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("session lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, done := context.WithTimeout(context.Background(), defaultTimeout)
				defer done()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, owner).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func (l *SessionLock) key(userID string) string {
	return fmt.Sprintf("session-lock:%s", userID)
}
