// internal/app/features/fleet/routes.go
package fleet

import (
	fleetstore "github.com/dalemusser/fleetcheckr/internal/app/store/fleet"
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/go-chi/chi/v5"
)

// Routes mounts one roster kind (typically at "/fleet/drivers" or
// "/fleet/vehicles"). Members read; admins write.
func Routes[T fleetstore.Entry](h *Handler[T], g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceMember))
		pr.Get("/", h.ServeList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))
		pr.Post("/", h.HandleAdd)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
