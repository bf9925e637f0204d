// internal/lease/lease.go
package lease

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/redis/go-redis/v9"
)

// Locker hands out per-mailing dispatch leases so overlapping runner and
// worker invocations never dispatch the same mailing concurrently. The
// lease expires on its own after the TTL in case a holder dies mid-send.
type Locker interface {
    Acquire(ctx context.Context, mailingID int, ttl time.Duration) (bool, error)
    Release(ctx context.Context, mailingID int) error
}

// RedisLocker implements Locker with SET NX EX.
type RedisLocker struct {
    Client *redis.Client
}

func NewRedisLocker(ctx context.Context, redisURL string) (*RedisLocker, error) {
    opts, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, fmt.Errorf("parsing redis URL: %w", err)
    }

    client := redis.NewClient(opts)
    if err := client.Ping(ctx).Err(); err != nil {
        return nil, fmt.Errorf("pinging redis: %w", err)
    }
    return &RedisLocker{Client: client}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, mailingID int, ttl time.Duration) (bool, error) {
    return l.Client.SetNX(ctx, leaseKey(mailingID), "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, mailingID int) error {
    return l.Client.Del(ctx, leaseKey(mailingID)).Err()
}

func (l *RedisLocker) Close() error {
    return l.Client.Close()
}

func leaseKey(mailingID int) string {
    return fmt.Sprintf("mailing:dispatch_lease:%d", mailingID)
}

// MemoryLocker is an in-process Locker for tests and single-node setups
// without redis.
type MemoryLocker struct {
    mu     sync.Mutex
    leases map[int]time.Time
}

func NewMemoryLocker() *MemoryLocker {
    return &MemoryLocker{leases: make(map[int]time.Time)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, mailingID int, ttl time.Duration) (bool, error) {
    l.mu.Lock()
    defer l.mu.Unlock()

    if expiry, held := l.leases[mailingID]; held && time.Now().Before(expiry) {
        return false, nil
    }
    l.leases[mailingID] = time.Now().Add(ttl)
    return true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, mailingID int) error {
    l.mu.Lock()
    defer l.mu.Unlock()
    delete(l.leases, mailingID)
    return nil
}

var _ Locker = (*RedisLocker)(nil)
var _ Locker = (*MemoryLocker)(nil)
