package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocalAcquireRelease(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	h, err := l.TryAcquire(ctx, "donation:1", "holder-a", time.Minute)
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}

	if _, err := l.TryAcquire(ctx, "donation:1", "holder-b", time.Minute); err != ErrLockHeld {
		t.Fatalf("expected ErrLockHeld for contended key, got %v", err)
	}

	// Distinct keys are independent.
	if _, err := l.TryAcquire(ctx, "donation:2", "holder-b", time.Minute); err != nil {
		t.Fatalf("distinct key should acquire: %v", err)
	}

	if err := l.Release(ctx, h); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := l.TryAcquire(ctx, "donation:1", "holder-b", time.Minute); err != nil {
		t.Fatalf("acquire after release should succeed: %v", err)
	}
}

func TestLocalReleaseIdempotentAndTokenChecked(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	stale, err := l.TryAcquire(ctx, "donation:7", "old-holder", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	// Lease expired; a new holder takes over.
	fresh, err := l.TryAcquire(ctx, "donation:7", "new-holder", time.Minute)
	if err != nil {
		t.Fatalf("expired lock should be reclaimable: %v", err)
	}

	// The stale holder's release must not free the new holder's lock.
	if err := l.Release(ctx, stale); err != nil {
		t.Fatalf("stale release should be a no-op, got %v", err)
	}
	if _, err := l.TryAcquire(ctx, "donation:7", "holder-c", time.Minute); err != ErrLockHeld {
		t.Fatalf("new holder's lock should survive a stale release, got %v", err)
	}

	// Double release is fine.
	if err := l.Release(ctx, fresh); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := l.Release(ctx, fresh); err != nil {
		t.Fatalf("second Release should be idempotent: %v", err)
	}
}

func TestLocalConcurrentAcquire(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var granted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.TryAcquire(ctx, "donation:9", "holder", time.Minute); err == nil {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()
	if granted != 1 {
		t.Fatalf("expected exactly one grant, got %d", granted)
	}
}

func TestLocalRenew(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	h, err := l.TryAcquire(ctx, "donation:3", "holder-a", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}
	if err := l.Renew(ctx, h, time.Minute); err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := l.TryAcquire(ctx, "donation:3", "holder-b", time.Minute); err != ErrLockHeld {
		t.Fatalf("renewed lock should still be held, got %v", err)
	}

	// A handle whose lease lapsed cannot renew.
	expired, err := l.TryAcquire(ctx, "donation:4", "holder-a", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("TryAcquire failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := l.Renew(ctx, expired, time.Minute); err != ErrLockHeld {
		t.Fatalf("expected ErrLockHeld renewing an expired lease, got %v", err)
	}
}
