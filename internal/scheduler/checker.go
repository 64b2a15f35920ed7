package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/metrics"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

// Checker periodically compares every store with its tag index, and on
// demand through the trigger channel.
type Checker struct {
	stores        map[string]*flatfile.Store
	logger        logger.Logger
	interval      time.Duration // 0 = only on trigger
	repair        bool
	manualTrigger chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewChecker creates a checker over stores.
func NewChecker(
	stores map[string]*flatfile.Store,
	log logger.Logger,
	interval time.Duration,
	repair bool,
	manualTrigger chan struct{},
) *Checker {
	return &Checker{
		stores:        stores,
		logger:        log,
		interval:      interval,
		repair:        repair,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs the check loop in the background until ctx ends or Stop is
// called. The first periodic check runs one interval after start.
func (c *Checker) Start(ctx context.Context) {
	go func() {
		defer close(c.done)

		var tick <-chan time.Time
		if c.interval > 0 {
			ticker := time.NewTicker(c.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				c.CheckAll(ctx)
			case <-c.manualTrigger:
				c.logger.Info("manual consistency check triggered")
				c.CheckAll(ctx)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	c.logger.Info("🩺 consistency checker started",
		logger.Duration("interval", c.interval),
		logger.Bool("repair", c.repair))
}

// Stop ends the loop and waits for a running check to finish.
func (c *Checker) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}

// CheckAll checks every store in user order and returns the reports.
// A store that fails is logged and left out.
func (c *Checker) CheckAll(ctx context.Context) map[string]flatfile.CheckReport {
	users := make([]string, 0, len(c.stores))
	for u := range c.stores {
		users = append(users, u)
	}
	sort.Strings(users)

	reports := make(map[string]flatfile.CheckReport, len(users))
	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		report, err := c.stores[user].Check(ctx, c.repair)
		if err != nil {
			c.logger.Error("consistency check failed",
				logger.String("user", user),
				logger.Error(err))
			continue
		}
		reports[user] = report

		metrics.CheckIssues.WithLabelValues(user, "damaged").Set(float64(len(report.Damaged)))
		metrics.CheckIssues.WithLabelValues(user, "dangling").Set(float64(len(report.Dangling)))
		metrics.CheckIssues.WithLabelValues(user, "missing").Set(float64(len(report.Missing)))

		fields := []logger.Field{
			logger.String("user", user),
			logger.Int("marks", report.Marks),
			logger.Int("damaged", len(report.Damaged)),
			logger.Int("dangling", len(report.Dangling)),
			logger.Int("missing", len(report.Missing)),
			logger.Bool("repaired", report.Repaired),
			logger.Duration("took", time.Since(start)),
		}
		if report.Clean() {
			c.logger.Debug("store consistent", fields...)
		} else {
			c.logger.Warn("store inconsistent", fields...)
		}
	}
	return reports
}
