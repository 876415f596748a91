// internal/app/features/inspections/routes.go
package inspections

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/go-chi/chi/v5"
)

// Routes mounts report submission and review at the root router.
// Submission is open to members; review and export are admin only.
func Routes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceMember))
		pr.Post("/inspections", h.HandleSubmit)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))
		pr.Get("/reports", h.ServeReports)
		pr.Get("/reports/export.csv", h.ServeExport)
		pr.Get("/reports/{reportID}", h.ServeReport)
	})

	return r
}
