package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/slasti/internal/logger"
)

const (
	DefaultTTL   = 30 * time.Second
	DefaultRetry = 50 * time.Millisecond
	keyPrefix    = "slasti:lock:"
)

// release deletes the lease only while it still carries our token, so an
// expired lease taken over by another process is left alone.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease shared by every process writing the same store root.
// It wraps a Local so goroutines of one process queue locally instead of
// polling Redis.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	retry  time.Duration
	local  *Local
	logger logger.Logger
}

// NewRedis returns a lock named after the store root.
func NewRedis(client redis.UniversalClient, root string, ttl, retry time.Duration, log logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if retry <= 0 {
		retry = DefaultRetry
	}
	return &Redis{
		client: client,
		key:    Key(root),
		ttl:    ttl,
		retry:  retry,
		local:  NewLocal(),
		logger: log,
	}
}

// Key returns the Redis key guarding root.
func Key(root string) string {
	return keyPrefix + root
}

func (r *Redis) Mode() string { return "redis" }

func (r *Redis) Lock(ctx context.Context) (func(), error) {
	unlockLocal, err := r.local.Lock(ctx)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("acquire %s: %w", r.key, err)
		}
		if ok {
			return func() {
				r.unlock(token)
				unlockLocal()
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		}
	}
}

func (r *Redis) unlock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := release.Run(ctx, r.client, []string{r.key}, token).Int()
	if err != nil {
		r.logger.Warn("failed to release store lock",
			logger.String("key", r.key),
			logger.Error(err))
		return
	}
	if n == 0 {
		r.logger.Warn("store lock expired before release",
			logger.String("key", r.key),
			logger.Duration("ttl", r.ttl))
	}
}
