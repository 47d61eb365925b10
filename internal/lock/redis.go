package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still belongs to the holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only if the key still belongs to the holder.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker implements the shared lock backend on Redis: SET NX PX for
// acquisition, token-checked conditional delete for release. If Redis is
// unreachable acquisition fails closed with ErrLockHeld.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "givepay:lock:"}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key, holder string, lease time.Duration) (*Handle, error) {
	ok, err := l.client.SetNX(ctx, l.prefix+key, holder, lease).Result()
	if err != nil || !ok {
		return nil, ErrLockHeld
	}
	return &Handle{Key: key, Holder: holder, ExpiresAt: time.Now().Add(lease)}, nil
}

func (l *RedisLocker) Release(ctx context.Context, h *Handle) error {
	// Best effort: a failed release is resolved by lease expiry.
	_, err := releaseScript.Run(ctx, l.client, []string{l.prefix + h.Key}, h.Holder).Result()
	return err
}

func (l *RedisLocker) Renew(ctx context.Context, h *Handle, lease time.Duration) error {
	n, err := renewScript.Run(ctx, l.client, []string{l.prefix + h.Key}, h.Holder, lease.Milliseconds()).Int64()
	if err != nil || n == 0 {
		return ErrLockHeld
	}
	h.ExpiresAt = time.Now().Add(lease)
	return nil
}
