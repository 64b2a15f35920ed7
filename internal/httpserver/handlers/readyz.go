package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Failed map[string]string `json:"failed,omitempty"`
}

// Readyz reports ready when every store root is reachable and, if
// configured, Redis answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed := map[string]string{}
		if len(d.Stores) == 0 {
			failed["stores"] = "none open"
		}
		for user, s := range d.Stores {
			if _, err := os.Stat(s.Root()); err != nil {
				failed["store:"+user] = err.Error()
			}
		}
		if d.RedisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				failed["redis"] = err.Error()
			}
			cancel()
		}

		w.Header().Set("Cache-Control", "no-store")
		if len(failed) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Failed: failed})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
