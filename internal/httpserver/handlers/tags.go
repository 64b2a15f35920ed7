package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/logger"
)

type tagsResponse struct {
	User string           `json:"user"`
	Tags []domain.TagView `json:"tags"`
}

// Tags serves GET /{user}/tags, the tag catalog in name order.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		list, err := s.Tags()
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		base := userPath(d, user)
		resp := tagsResponse{User: user, Tags: make([]domain.TagView, 0, len(list))}
		for _, t := range list {
			resp.Tags = append(resp.Tags, t.View(base))
		}
		d.Logger.Debug("tag catalog served", logger.String("user", user), logger.Int("tags", len(list)))
		writeJSON(w, http.StatusOK, resp)
	}
}
