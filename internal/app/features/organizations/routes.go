// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/dalemusser/fleetcheckr/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// SuperAdminRoutes mounts provisioning (typically at "/super-admin/organizations").
// Creation is rate limited per user.
func SuperAdminRoutes(h *Handler, g *gates.Gate, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceSuperAdmin))

		pr.Get("/", h.ServeList)

		pr.With(ratelimit.Middleware(limiter, ratelimit.ByUser)).Post("/", h.HandleCreate)
	})

	return r
}

// OrgRoutes mounts the organization admin's view of its own org
// (typically at "/organization").
func OrgRoutes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))
		pr.Get("/members", h.ServeMembers)
	})

	return r
}
