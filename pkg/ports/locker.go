package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock acquired through DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes commands on the same document across processes.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a document ID) is held, ctx is done, or the
	// implementation gives up. The returned UnlockFunc MUST be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
