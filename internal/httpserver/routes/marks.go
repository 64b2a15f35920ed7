package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/mw"
)

func init() { Register(registerMarks) }

// Per-user routes. Reads are open, writes pass the IP, host and rate
// filters.
func registerMarks(r chi.Router, d deps.Deps) {
	writes := chi.Chain(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:        d.WriteBurst,
			RefillPerMin: d.WriteRefillPerMin,
			TrustProxy:   d.TrustProxy,
			Now:          d.TimeNow,
		}),
	)

	r.Route("/{user}", func(r chi.Router) {
		r.Get("/", handlers.FirstPage(d))
		r.Get("/page.{key}", handlers.Page(d))
		r.Get("/mark.{key}", handlers.ShowMark(d))
		r.Get("/tags", handlers.Tags(d))
		r.Get("/export.xml", handlers.Export(d))
		r.Get("/edit", handlers.EditForm(d))

		r.With(writes...).Post("/mark.{key}", handlers.EditMark(d))
		r.With(writes...).Post("/edit", handlers.NewMark(d))
		r.With(writes...).Post("/delete", handlers.DeleteMark(d))

		r.Get("/{tag}/", handlers.TagFirstPage(d))
		r.Get("/{tag}/page.{key}", handlers.TagPage(d))
	})
}
