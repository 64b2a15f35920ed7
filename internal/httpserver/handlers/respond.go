package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/mw"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps store errors onto status codes. Anything unexpected is
// logged and reported as a 500 without detail.
func writeError(d deps.Deps, w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfFixSlots):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		mw.Deny(w, code, "internal error")
		return
	}
	mw.Deny(w, code, err.Error())
}

// userStore resolves the {user} URL parameter. It answers 404 itself
// when the user is unknown.
func userStore(d deps.Deps, w http.ResponseWriter, r *http.Request) (string, *flatfile.Store, bool) {
	user := chi.URLParam(r, "user")
	s, ok := d.Stores[user]
	if !ok {
		mw.Deny(w, http.StatusNotFound, "no such user")
		return "", nil, false
	}
	return user, s, true
}

// userPath is the URL prefix of everything a user owns.
func userPath(d deps.Deps, user string) string {
	return d.PathPrefix + "/" + user
}
