package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	TimeNow           func() time.Time           // for testing, defaults to time.Now
	AllowedHosts      []string                   // Host headers allowed on write routes
	AllowedCIDRS      []string                   // IPs allowed on write and infra routes
	TrustProxy        bool                       // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RequestTimeout    time.Duration              // per-request deadline
	Stores            map[string]*flatfile.Store // open mark stores by user name
	PathPrefix        string                     // URL prefix the app is mounted under, no trailing slash
	PageSize          int                        // marks per page
	WriteBurst        int                        // write requests allowed at once per client
	WriteRefillPerMin int                        // write tokens regained per minute
	RedisClient       *redis.Client              // shared lock backend, nil when locking is local
	CheckTrigger      chan struct{}              // Channel to trigger a manual consistency check
}

// Now returns the configured clock.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
