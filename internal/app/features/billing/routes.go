// internal/app/features/billing/routes.go
package billing

import (
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/dalemusser/fleetcheckr/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at "/billing". Checkout is admin only and rate limited
// per organization.
func Routes(h *Handler, g *gates.Gate, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(g.Require(gates.SurfaceAdmin))
		pr.Use(ratelimit.Middleware(limiter, ratelimit.ByOrg))
		pr.Post("/initialize", h.HandleInitialize)
	})

	return r
}

// CallbackRoutes is mounted at CallbackMount. The callback only needs a
// signed-in user; the transaction itself is checked against their org.
func CallbackRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/callback", h.ServeCallback)
	})

	return r
}
