package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout of the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	UsersFile     string        // path to the users.yaml file listing every store
	PathPrefix    string        // URL prefix the app is mounted under (ex: "/bm")
	PageSize      int           // marks per page (default: 25)
	StrictTags    bool          // tag index failures abort writes instead of being logged
	CheckInterval time.Duration // interval of the consistency checker (0 = disabled)
	CheckRepair   bool          // checker repairs the tag index instead of only reporting

	// Redis (optional, empty address = in-process writer lock)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
	LockTTL             time.Duration // lease of the Redis writer lock
	LockRetry           time.Duration // poll interval while the lease is held elsewhere

	AllowedHosts []string // optional, restrict write routes to specific Host headers
	AllowedCIDRS []string // optional, restrict write routes to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	WriteBurst        int // write requests allowed at once per client
	WriteRefillPerMin int // write tokens regained per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SLASTI_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SLASTI_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("SLASTI_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("SLASTI_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SLASTI_PRETTY_LOG", true),

		// Stores
		UsersFile:     requireEnv("SLASTI_USERS_FILE"),
		PathPrefix:    strings.TrimRight(getenv("SLASTI_PATH_PREFIX", ""), "/"),
		PageSize:      getenvInt("SLASTI_PAGE_SIZE", 25),
		StrictTags:    mustBool("SLASTI_STRICT_TAGS", false),
		CheckInterval: mustDuration("SLASTI_CHECK_INTERVAL", 24*time.Hour),
		CheckRepair:   mustBool("SLASTI_CHECK_REPAIR", false),

		// Redis settings
		RedisAddr:           getenv("SLASTI_REDIS_ADDR", ""),
		RedisUser:           getenv("SLASTI_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SLASTI_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SLASTI_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		LockTTL:             mustDuration("SLASTI_LOCK_TTL", 30*time.Second),
		LockRetry:           mustDuration("SLASTI_LOCK_RETRY", 50*time.Millisecond),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SLASTI_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("SLASTI_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SLASTI_TRUST_PROXY", false),

		WriteBurst:        getenvInt("SLASTI_WRITE_BURST", 20),
		WriteRefillPerMin: getenvInt("SLASTI_WRITE_REFILL_PER_MIN", 60),
	}

	if cfg.PageSize <= 0 {
		panic(fmt.Sprintf("❌ FATAL: SLASTI_PAGE_SIZE must be positive, got %d", cfg.PageSize))
	}
	if cfg.CheckInterval < 0 {
		panic("❌ FATAL: SLASTI_CHECK_INTERVAL must not be negative")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether writers coordinate through Redis.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
