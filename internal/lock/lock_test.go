package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/slasti/internal/logger"
)

func TestLocalExcludes(t *testing.T) {
	l := NewLocal()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background())
			if err != nil {
				t.Errorf("Lock() error = %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("%d holders at once, want 1", maxSeen)
	}
}

func TestLocalHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lock() on a held lock error = %v, want DeadlineExceeded", err)
	}
}

func TestLocalUsableAfterAbandonedWait(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Lock(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Lock() with a cancelled context error = %v, want Canceled", err)
	}
	unlock()

	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	again, err := l.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	again()
}

func TestKey(t *testing.T) {
	if got := Key("/srv/slasti/alice"); got != "slasti:lock:/srv/slasti/alice" {
		t.Errorf("Key() = %q", got)
	}
}

// Needs a reachable Redis: SLASTI_TEST_REDIS_ADDR=localhost:6379 go test ./internal/lock
func TestRedisLock(t *testing.T) {
	addr := os.Getenv("SLASTI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SLASTI_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	root := t.TempDir()
	log := logger.New("error", false)
	a := NewRedis(client, root, time.Second, 10*time.Millisecond, log)
	b := NewRedis(client, root, time.Second, 10*time.Millisecond, log)

	unlock, err := a.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := b.Lock(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second holder Lock() error = %v, want DeadlineExceeded", err)
	}

	unlock()

	unlockB, err := b.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	unlockB()

	if n, _ := client.Exists(context.Background(), Key(root)).Result(); n != 0 {
		t.Error("lease key left behind after release")
	}
}
