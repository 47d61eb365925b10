package lock

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when the key is already held by another holder, or
// when the backend cannot be reached (fail closed: no exclusion, no grant).
var ErrLockHeld = errors.New("lock already held")

// Handle identifies one granted lease. Release and Renew check the holder
// token so a stale holder can never release a lock owned by a newer one.
type Handle struct {
	Key       string
	Holder    string
	ExpiresAt time.Time
}

// Locker is the distributed mutual-exclusion capability. For a given key at
// most one holder is granted at any time, across process restarts, enforced
// by lease expiry. TryAcquire is non-blocking: contention returns ErrLockHeld
// immediately and the caller retries with its own backoff.
type Locker interface {
	TryAcquire(ctx context.Context, key, holder string, lease time.Duration) (*Handle, error)
	Release(ctx context.Context, h *Handle) error
	Renew(ctx context.Context, h *Handle, lease time.Duration) error
}
