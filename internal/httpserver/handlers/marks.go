package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

type markResponse struct {
	Mark     domain.MarkView `json:"mark"`
	HrefPrev string          `json:"href_mark_prev,omitempty"`
	HrefNext string          `json:"href_mark_next,omitempty"`
}

// markForm is the editable state of a mark as a form carries it.
type markForm struct {
	Mark  string `json:"mark,omitempty"`
	Title string `json:"title"`
	Href  string `json:"href"`
	Tags  string `json:"tags"`
	Extra string `json:"extra"`
}

func readForm(r *http.Request) (markForm, error) {
	if err := r.ParseForm(); err != nil {
		return markForm{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	f := markForm{
		Title: strings.TrimSpace(r.PostFormValue("title")),
		Href:  strings.TrimSpace(r.PostFormValue("href")),
		Tags:  r.PostFormValue("tags"),
		Extra: strings.TrimSpace(r.PostFormValue("extra")),
	}
	if f.Href == "" || strings.TrimSpace(f.Tags) == "" {
		return f, fmt.Errorf("%w: the URL and tags are mandatory", domain.ErrValidation)
	}
	return f, nil
}

func markKey(r *http.Request) (domain.Key, error) {
	return domain.ParseKey(chi.URLParam(r, "key"))
}

// ShowMark serves GET /{user}/mark.{key} with conditional GET support
// driven by the record's modification time.
func ShowMark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		k, err := markKey(r)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		m := s.Lookup(k.Stamp, k.Fix)
		if m == nil {
			writeError(d, w, r, fmt.Errorf("%w: mark %s", domain.ErrNotFound, k))
			return
		}

		if mod := m.Modified(); !mod.IsZero() {
			if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil && !mod.After(since) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("Last-Modified", mod.Format(http.TimeFormat))
		}
		writeJSON(w, http.StatusOK, markPage(d, user, m))
	}
}

// EditMark serves POST /{user}/mark.{key}. The URL does not change so the
// updated mark is returned directly.
func EditMark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		k, err := markKey(r)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		f, err := readForm(r)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		if err := s.Edit(r.Context(), k.Stamp, k.Fix, f.Title, f.Href, f.Extra, domain.SplitTags(f.Tags)); err != nil {
			writeError(d, w, r, err)
			return
		}
		m := s.Lookup(k.Stamp, k.Fix)
		if m == nil {
			writeError(d, w, r, fmt.Errorf("%w: mark %s", domain.ErrNotFound, k))
			return
		}
		d.Logger.Info("✏️ mark edited", logger.String("user", user), logger.String("mark", k.String()))
		writeJSON(w, http.StatusOK, markPage(d, user, m))
	}
}

// EditForm serves GET /{user}/edit: the current fields of ?mark=, or an
// empty form for a new mark.
func EditForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		raw := r.URL.Query().Get("mark")
		if raw == "" {
			writeJSON(w, http.StatusOK, markForm{})
			return
		}
		k, err := domain.ParseKey(raw)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		m := s.Lookup(k.Stamp, k.Fix)
		if m == nil {
			writeError(d, w, r, fmt.Errorf("%w: mark %s", domain.ErrNotFound, k))
			return
		}
		writeJSON(w, http.StatusOK, markForm{
			Mark:  k.String(),
			Title: m.Title,
			Href:  m.URL,
			Tags:  strings.Join(m.Tags, " "),
			Extra: m.Note,
		})
	}
}

// NewMark serves POST /{user}/edit: the mark is stamped now and the client
// is sent to it with 303 See Other.
func NewMark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		f, err := readForm(r)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		stamp := d.Now().Unix()
		fix, err := s.Insert(r.Context(), stamp, f.Title, f.Href, f.Extra, domain.SplitTags(f.Tags))
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		k := domain.Key{Stamp: stamp, Fix: fix}
		href := userPath(d, user) + "/mark." + k.String()
		d.Logger.Info("🔖 mark added", logger.String("user", user), logger.String("mark", k.String()))

		w.Header().Set("Location", href)
		writeJSON(w, http.StatusSeeOther, map[string]string{"href_redir": href})
	}
}

// DeleteMark serves POST /{user}/delete with the key in the "mark" field.
func DeleteMark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			writeError(d, w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
			return
		}
		raw := r.PostFormValue("mark")
		if raw == "" {
			writeError(d, w, r, fmt.Errorf("%w: no mark given", domain.ErrValidation))
			return
		}
		k, err := domain.ParseKey(raw)
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		if err := s.Delete(r.Context(), k.Stamp, k.Fix); err != nil {
			writeError(d, w, r, err)
			return
		}
		d.Logger.Info("🗑️ mark deleted", logger.String("user", user), logger.String("mark", k.String()))
		writeJSON(w, http.StatusOK, map[string]string{
			"deleted":   k.String(),
			"href_home": userPath(d, user) + "/",
		})
	}
}

func markPage(d deps.Deps, user string, m *flatfile.Mark) markResponse {
	base := userPath(d, user)
	return markResponse{
		Mark:     m.View(base),
		HrefPrev: markHref(base, m.Pred()),
		HrefNext: markHref(base, m.Succ()),
	}
}

func markHref(base string, m *flatfile.Mark) string {
	if m == nil {
		return ""
	}
	return base + "/mark." + m.Key().String()
}

