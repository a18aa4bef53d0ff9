package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SignupLockKeyPrefix is the Redis key prefix for per-email signup locks
	SignupLockKeyPrefix = "signup_lock:"
	// SignupLockTTL bounds how long a crashed request can hold an email
	SignupLockTTL = 30 * time.Second
)

var ErrLockHeld = errors.New("lock already held")

// EmailLocker serializes signups for the same normalized email so the
// check-then-insert window cannot interleave.
type EmailLocker interface {
	Lock(ctx context.Context, email string) (unlock func(), err error)
}

// RedisEmailLocker works across server instances.
type RedisEmailLocker struct {
	client *redis.Client
}

func NewRedisEmailLocker(client *redis.Client) *RedisEmailLocker {
	return &RedisEmailLocker{client: client}
}

// Deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisEmailLocker) Lock(ctx context.Context, email string) (func(), error) {
	key := SignupLockKeyPrefix + email
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, SignupLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.client, []string{key}, token)
	}, nil
}

// LocalEmailLocker only serializes within this process.
type LocalEmailLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalEmailLocker() *LocalEmailLocker {
	return &LocalEmailLocker{held: make(map[string]struct{})}
}

func (l *LocalEmailLocker) Lock(_ context.Context, email string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[email]; busy {
		return nil, ErrLockHeld
	}
	l.held[email] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, email)
			l.mu.Unlock()
		})
	}, nil
}
