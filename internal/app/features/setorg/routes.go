// internal/app/features/setorg/routes.go
package setorg

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts GET / (typically at "/set-org") for any signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSetOrg)
	return r
}
