package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/slasti/internal/httpserver/deps"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/slasti/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

// Probes and operator endpoints. Everything but /healthz is limited to
// the allowed CIDRs.
func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		r.Handle("/metrics", promhttp.Handler())
		r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/check", handlers.Check(d))
	})
}
