package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/slasti/internal/config"
	"github.com/MrSnakeDoc/slasti/internal/httpserver"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/lock"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/redis"
	"github.com/MrSnakeDoc/slasti/internal/scheduler"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
	"github.com/MrSnakeDoc/slasti/internal/users"
	"github.com/MrSnakeDoc/slasti/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	stores      map[string]*flatfile.Store
	checker     *scheduler.Checker
}

// OpenStore opens the store at root, creating its directories if needed.
func OpenStore(root string, opts flatfile.Options) (*flatfile.Store, error) {
	s, err := flatfile.New(root, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// New wires every component from cfg. Redis, when configured, must answer
// within its connect timeout; a store that fails to open is skipped but at
// least one must open.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	var redisClient *goredis.Client
	if cfg.RedisEnabled() {
		c, err := redis.New(ctx, redis.OptionsFrom(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		redisClient = c
		loggerClient.Info("Redis initialized successfully, writers share a lock")
	}

	list, err := users.NewLoader(cfg.UsersFile).Load()
	if err != nil {
		closeRedis(redisClient, loggerClient)
		return nil, err
	}

	stores := make(map[string]*flatfile.Store, len(list))
	for _, u := range list {
		var locker lock.Locker = lock.NewLocal()
		if redisClient != nil {
			locker = lock.NewRedis(redisClient, u.Root, cfg.LockTTL, cfg.LockRetry, loggerClient)
		}
		s, err := OpenStore(u.Root, flatfile.Options{
			Strict: cfg.StrictTags,
			Locker: locker,
			Logger: loggerClient.With(logger.String("user", u.Name)),
		})
		if err != nil {
			loggerClient.Error("skipping user, store failed to open",
				logger.String("user", u.Name),
				logger.String("root", u.Root),
				logger.Error(err))
			continue
		}
		stores[u.Name] = s
		loggerClient.Info("📚 store opened",
			logger.String("user", u.Name),
			logger.Int("marks", s.Count()),
			logger.String("lock", s.LockMode()))
	}
	if len(stores) == 0 {
		closeRedis(redisClient, loggerClient)
		return nil, errors.New("no store could be opened")
	}

	checkTrigger := make(chan struct{}, 1)
	checker := scheduler.NewChecker(stores, loggerClient, cfg.CheckInterval, cfg.CheckRepair, checkTrigger)

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RequestTimeout:    cfg.RequestTimeout,
		Stores:            stores,
		PathPrefix:        cfg.PathPrefix,
		PageSize:          cfg.PageSize,
		WriteBurst:        cfg.WriteBurst,
		WriteRefillPerMin: cfg.WriteRefillPerMin,
		RedisClient:       redisClient,
		CheckTrigger:      checkTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg.ListenPort, d),
		redisClient: redisClient,
		stores:      stores,
		checker:     checker,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Slasti v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Slasti %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.checker.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.checker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	closeRedis(a.redisClient, a.logger)

	if runErr == nil {
		a.logger.Info("✅ Slasti stopped cleanly")
	}
	return runErr
}

func closeRedis(c *goredis.Client, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warnf("failed to close redis: %v", err)
	} else {
		log.Info("✅ Redis closed cleanly")
	}
}
