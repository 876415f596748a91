// internal/app/features/setorg/handler.go
package setorg

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// MembershipLister returns the organizations a user belongs to.
type MembershipLister interface {
	ListUserMemberships(ctx context.Context, userID string) ([]identity.Membership, error)
}

// ActiveOrgStore persists the caller's selected organization.
type ActiveOrgStore interface {
	SetActiveOrg(w http.ResponseWriter, r *http.Request, userID, orgID, role string) error
	ClearActiveOrg(w http.ResponseWriter, r *http.Request) error
}

// Handler switches the caller's active organization.
type Handler struct {
	Lister   MembershipLister
	Sessions ActiveOrgStore
	Audit    *auditlog.Logger
	Log      *zap.Logger
	// Landing is where the caller is sent afterwards.
	Landing string
}

func NewHandler(lister MembershipLister, sessions ActiveOrgStore, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Lister: lister, Sessions: sessions, Audit: audit, Log: logger, Landing: "/"}
}

// ServeSetOrg handles GET /set-org?orgId=. The organization is only stored
// when the provider confirms the caller is a member. Every outcome ends in
// a redirect to the landing page.
func (h *Handler) ServeSetOrg(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	orgID := strings.TrimSpace(r.URL.Query().Get("orgId"))
	if orgID == "" {
		http.Redirect(w, r, h.Landing, http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	ms, err := h.Lister.ListUserMemberships(ctx, id.UserID)
	if err != nil {
		h.Log.Error("list memberships for set-org failed", zap.String("user_id", id.UserID), zap.Error(err))
		http.Redirect(w, r, h.Landing, http.StatusSeeOther)
		return
	}

	match := findMembership(ms, orgID)
	if match == nil {
		h.Log.Warn("set-org for non-member", zap.String("user_id", id.UserID), zap.String("org_id", orgID))
		// A revoked membership must not keep its org active.
		if id.OrgID != "" && findMembership(ms, id.OrgID) == nil {
			if err := h.Sessions.ClearActiveOrg(w, r); err != nil {
				h.Log.Error("clear active org failed", zap.String("user_id", id.UserID), zap.Error(err))
			}
		}
		http.Redirect(w, r, h.Landing, http.StatusSeeOther)
		return
	}

	if err := h.Sessions.SetActiveOrg(w, r, id.UserID, orgID, normalize.Role(match.Role)); err != nil {
		h.Log.Error("save active org failed", zap.String("user_id", id.UserID), zap.Error(err))
		http.Redirect(w, r, h.Landing, http.StatusSeeOther)
		return
	}
	h.Audit.OrgSelected(r.Context(), id.UserID, orgID)
	http.Redirect(w, r, h.Landing, http.StatusSeeOther)
}

func findMembership(ms []identity.Membership, orgID string) *identity.Membership {
	for i := range ms {
		if ms[i].OrgID == orgID {
			return &ms[i]
		}
	}
	return nil
}
