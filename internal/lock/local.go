package lock

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	holder    string
	expiresAt time.Time
}

// LocalLocker is an in-process lock table with lease expiry. It provides no
// cross-process guarantee and is only suitable for single-instance
// deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]localEntry
}

func NewLocalLocker() *LocalLocker {
	l := &LocalLocker{locks: make(map[string]localEntry)}
	go l.cleanup()
	return l
}

func (l *LocalLocker) TryAcquire(ctx context.Context, key, holder string, lease time.Duration) (*Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if e, ok := l.locks[key]; ok && e.expiresAt.After(now) {
		return nil, ErrLockHeld
	}
	expires := now.Add(lease)
	l.locks[key] = localEntry{holder: holder, expiresAt: expires}
	return &Handle{Key: key, Holder: holder, ExpiresAt: expires}, nil
}

// Release is idempotent; releasing a lock now owned by a newer holder is a
// no-op.
func (l *LocalLocker) Release(ctx context.Context, h *Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.locks[h.Key]; ok && e.holder == h.Holder {
		delete(l.locks, h.Key)
	}
	return nil
}

func (l *LocalLocker) Renew(ctx context.Context, h *Handle, lease time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[h.Key]
	if !ok || e.holder != h.Holder || !e.expiresAt.After(time.Now()) {
		return ErrLockHeld
	}
	e.expiresAt = time.Now().Add(lease)
	l.locks[h.Key] = e
	h.ExpiresAt = e.expiresAt
	return nil
}

func (l *LocalLocker) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		now := time.Now()
		for k, e := range l.locks {
			if !e.expiresAt.After(now) {
				delete(l.locks, k)
			}
		}
		l.mu.Unlock()
	}
}
