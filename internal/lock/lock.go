package lock

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MrSnakeDoc/slasti/internal/metrics"
)

// Locker serializes store mutations. Lock blocks until the lock is held
// or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
	Mode() string
}

// Local is an in-process mutex that honours context cancellation.
type Local struct {
	sem *semaphore.Weighted
}

// NewLocal returns an unlocked Local.
func NewLocal() *Local {
	return &Local{sem: semaphore.NewWeighted(1)}
}

func (l *Local) Lock(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	metrics.LockWaitSeconds.Observe(time.Since(start).Seconds())
	return func() { l.sem.Release(1) }, nil
}

func (l *Local) Mode() string { return "local" }
