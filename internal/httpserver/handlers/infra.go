package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
)

type storeStatus struct {
	OK         bool   `json:"ok"`
	Root       string `json:"root"`
	Marks      int    `json:"marks"`
	Tags       int    `json:"tags"`
	LockMode   string `json:"lock_mode"`
	LastReload string `json:"last_reload"`
	Error      string `json:"error,omitempty"`
}

type redisStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode"`
	Error string `json:"error,omitempty"`
}

type infraResponse struct {
	Users  []string               `json:"users"`
	Stores map[string]storeStatus `json:"stores"`
	Redis  redisStatus            `json:"redis"`
}

// Infra reports per-store sizes and the writer lock backend.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := infraResponse{
			Users:  make([]string, 0, len(d.Stores)),
			Stores: make(map[string]storeStatus, len(d.Stores)),
			Redis:  checkRedis(r.Context(), d),
		}

		for user, s := range d.Stores {
			resp.Users = append(resp.Users, user)
			st := storeStatus{
				OK:         true,
				Root:       s.Root(),
				Marks:      s.Count(),
				LockMode:   s.LockMode(),
				LastReload: "never",
			}
			if lr := s.LastReload(); !lr.IsZero() {
				st.LastReload = lr.Format("2006-01-02 15:04:05")
			}
			tags, err := s.Tags()
			if err != nil {
				st.OK = false
				st.Error = err.Error()
			}
			st.Tags = len(tags)
			resp.Stores[user] = st
		}
		sort.Strings(resp.Users)

		writeJSON(w, http.StatusOK, resp)
	}
}

func checkRedis(ctx context.Context, d deps.Deps) redisStatus {
	if d.RedisClient == nil {
		return redisStatus{OK: true, Mode: "local-lock"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return redisStatus{OK: false, Mode: "shared-lock", Error: err.Error()}
	}
	return redisStatus{OK: true, Mode: "shared-lock"}
}
