package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/slasti/internal/export"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/logger"
)

// Export serves GET /{user}/export.xml. Once streaming started a failure
// can only be logged.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.WriteHeader(http.StatusOK)
		if err := export.Write(w, user, s.All(), d.Logger); err != nil {
			d.Logger.Warn("export interrupted", logger.String("user", user), logger.Error(err))
		}
	}
}
