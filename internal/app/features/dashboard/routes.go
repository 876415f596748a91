// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/dashboard").
func Routes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceLanding))
		pr.Get("/", h.ServeDashboard)
	})

	return r
}
