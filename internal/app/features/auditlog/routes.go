// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the org-scoped audit log (typically at "/audit").
// Access is restricted to org admins.
func Routes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))
		pr.Get("/", h.ServeList)
	})

	return r
}

// SuperAdminRoutes mounts the cross-organization audit log
// (typically at "/super-admin/audit").
func SuperAdminRoutes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceSuperAdmin))
		pr.Get("/", h.ServeList)
	})

	return r
}
