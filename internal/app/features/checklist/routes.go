// internal/app/features/checklist/routes.go
package checklist

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the checklist API (typically at "/checklist").
func Routes(h *Handler, g *gates.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceMember))
		pr.Get("/", h.ServeChecklist)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))

		pr.Put("/", h.HandleReplace)

		pr.Post("/categories", h.HandleAddCategory)
		pr.Post("/categories/move", h.HandleMoveCategory)
		pr.Patch("/categories/{categoryID}", h.HandleUpdateCategory)
		pr.Delete("/categories/{categoryID}", h.HandleDeleteCategory)

		pr.Post("/categories/{categoryID}/items", h.HandleAddItem)
		pr.Patch("/categories/{categoryID}/items/{itemID}", h.HandleUpdateItem)
		pr.Delete("/categories/{categoryID}/items/{itemID}", h.HandleDeleteItem)
		pr.Post("/items/move", h.HandleMoveItem)
	})

	return r
}
