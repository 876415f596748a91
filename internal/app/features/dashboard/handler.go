// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	metricsstore "github.com/dalemusser/fleetcheckr/internal/app/store/metrics"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

type dashboardResponse struct {
	View     string                       `json:"view"`
	OrgID    string                       `json:"orgId,omitempty"`
	Role     string                       `json:"role,omitempty"`
	Platform *metricsstore.PlatformCounts `json:"platform,omitempty"`
	Org      *metricsstore.OrgCounts      `json:"org,omitempty"`
}

// ServeDashboard returns platform totals for the super admin and
// organization totals for everyone else.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok || !id.SignedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if id.IsSuperAdmin && !id.HasOrg() {
		counts := metricsstore.FetchPlatformCounts(ctx, h.DB)
		uierrors.WriteJSON(w, http.StatusOK, dashboardResponse{View: "superadmin", Platform: &counts})
		return
	}

	if !id.HasOrg() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	counts := metricsstore.FetchOrgCounts(ctx, h.DB, id.OrgID)
	uierrors.WriteJSON(w, http.StatusOK, dashboardResponse{
		View:  "organization",
		OrgID: id.OrgID,
		Role:  id.OrgRole,
		Org:   &counts,
	})
}
