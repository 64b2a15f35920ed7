package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

type pageResponse struct {
	User     string            `json:"user"`
	Tag      string            `json:"tag,omitempty"`
	Marks    []domain.MarkView `json:"marks"`
	HrefPrev string            `json:"href_page_prev,omitempty"`
	HrefThis string            `json:"href_page_this,omitempty"`
	HrefNext string            `json:"href_page_next,omitempty"`
}

// FirstPage serves /{user}/: the newest marks. An empty store is an
// empty page, not an error.
func FirstPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		top := s.First()
		if top == nil {
			writeJSON(w, http.StatusOK, pageResponse{User: user, Marks: []domain.MarkView{}})
			return
		}
		writeJSON(w, http.StatusOK, page(d, user, top))
	}
}

// Page serves /{user}/page.{key}.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		k, err := domain.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		top := s.Lookup(k.Stamp, k.Fix)
		if top == nil {
			writeError(d, w, r, fmt.Errorf("%w: page %s", domain.ErrNotFound, k))
			return
		}
		writeJSON(w, http.StatusOK, page(d, user, top))
	}
}

// TagFirstPage serves /{user}/{tag}/. Unknown tags are 404.
func TagFirstPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		tag := tagParam(r)
		top := s.TagFirst(tag)
		if top == nil {
			writeError(d, w, r, fmt.Errorf("%w: tag %q", domain.ErrNotFound, tag))
			return
		}
		writeJSON(w, http.StatusOK, page(d, user, top))
	}
}

// TagPage serves /{user}/{tag}/page.{key}.
func TagPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, s, ok := userStore(d, w, r)
		if !ok {
			return
		}
		tag := tagParam(r)
		k, err := domain.ParseKey(chi.URLParam(r, "key"))
		if err != nil {
			writeError(d, w, r, err)
			return
		}
		top := s.TagLookup(tag, k.Stamp, k.Fix)
		if top == nil {
			writeError(d, w, r, fmt.Errorf("%w: tag %q page %s", domain.ErrNotFound, tag, k))
			return
		}
		writeJSON(w, http.StatusOK, page(d, user, top))
	}
}

// page collects up to PageSize marks starting at top, following the
// listing top came from.
func page(d deps.Deps, user string, top *flatfile.Mark) pageResponse {
	base := userPath(d, user)
	path := base
	if top.Tag() != "" {
		path = domain.TagHref(base, top.Tag()) // ends in "/"
	} else {
		path += "/"
	}

	resp := pageResponse{
		User:     user,
		Tag:      top.Tag(),
		Marks:    make([]domain.MarkView, 0, d.PageSize),
		HrefThis: pageHref(path, top),
	}

	m := top
	var next *flatfile.Mark
	for range d.PageSize {
		resp.Marks = append(resp.Marks, m.View(base))
		next = m.Succ()
		if next == nil {
			break
		}
		m = next
	}
	resp.HrefNext = pageHref(path, next)
	resp.HrefPrev = pageHref(path, pageBack(top, d.PageSize))
	return resp
}

// pageBack finds the top of the previous page: up to size steps newer
// than top. It returns nil only when top is already the newest.
func pageBack(top *flatfile.Mark, size int) *flatfile.Mark {
	m := top.Pred()
	if m == nil {
		return nil
	}
	for n := 1; n < size; n++ {
		p := m.Pred()
		if p == nil {
			break
		}
		m = p
	}
	return m
}

// tagParam returns the decoded {tag}. chi matches on the raw path when
// the request used a non-canonical escaping, leaving the param escaped.
func tagParam(r *http.Request) string {
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath == "" {
		return tag
	}
	if t, err := url.PathUnescape(tag); err == nil {
		return t
	}
	return tag
}

func pageHref(path string, m *flatfile.Mark) string {
	if m == nil {
		return ""
	}
	return path + "page." + m.Key().String()
}
