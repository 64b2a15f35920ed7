package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/mw"
	"github.com/MrSnakeDoc/slasti/internal/logger"
)

// Check triggers a consistency check of every store.
func Check(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CheckTrigger == nil {
			mw.Deny(w, http.StatusServiceUnavailable, "checker disabled")
			return
		}
		select {
		case d.CheckTrigger <- struct{}{}:
			d.Logger.Info("manual consistency check triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
		default:
			d.Logger.Warn("consistency check already pending",
				logger.String("remote_ip", r.RemoteAddr))
			mw.Deny(w, http.StatusTooManyRequests, "check already in progress, please wait")
		}
	}
}
