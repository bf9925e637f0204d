package lease_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/mailflow-backend/internal/lease"
)

func newTestLocker(t *testing.T) (*lease.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &lease.RedisLocker{Client: client}, mr
}

func TestRedisLockerExclusive(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	ok, err := locker.Acquire(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	ok, err = locker.Acquire(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second acquire on same mailing to fail")
	}

	// A different mailing is unaffected.
	ok, err = locker.Acquire(ctx, 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected acquire for another mailing to succeed")
	}
}

func TestRedisLockerRelease(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	if ok, _ := locker.Acquire(ctx, 1, time.Minute); !ok {
		t.Fatal("expected acquire to succeed")
	}
	if err := locker.Release(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := locker.Acquire(ctx, 1, time.Minute); !ok {
		t.Error("expected acquire after release to succeed")
	}
}

func TestRedisLockerExpiry(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	if ok, _ := locker.Acquire(ctx, 1, 30*time.Second); !ok {
		t.Fatal("expected acquire to succeed")
	}

	// A crashed holder never releases; the TTL must free the lease.
	mr.FastForward(31 * time.Second)

	if ok, _ := locker.Acquire(ctx, 1, 30*time.Second); !ok {
		t.Error("expected acquire after TTL expiry to succeed")
	}
}

func TestMemoryLockerExclusive(t *testing.T) {
	locker := lease.NewMemoryLocker()
	ctx := context.Background()

	if ok, _ := locker.Acquire(ctx, 1, time.Minute); !ok {
		t.Fatal("expected first acquire to succeed")
	}
	if ok, _ := locker.Acquire(ctx, 1, time.Minute); ok {
		t.Error("expected second acquire to fail")
	}

	locker.Release(ctx, 1)
	if ok, _ := locker.Acquire(ctx, 1, time.Minute); !ok {
		t.Error("expected acquire after release to succeed")
	}
}
