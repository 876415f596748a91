// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /audit and GET /super-admin/audit.
//
// Org admins only ever see their own organization's events; the org filter
// comes from the identity, never the query string. The super admin without
// an active org sees every organization and may narrow with ?org_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok || !id.SignedIn() {
		uierrors.RenderUnauthorized(w, r, "/")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	switch {
	case id.HasOrg():
		filter.OrgID = id.OrgID
	case id.IsSuperAdmin:
		filter.OrgID = strings.TrimSpace(q.Get("org_id"))
	default:
		uierrors.RenderForbidden(w, r, "")
		return
	}

	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "start_date must be YYYY-MM-DD.")
			return
		}
		filter.Since = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "end_date must be YYYY-MM-DD.")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.Until = &endOfDay
	}

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit query failed", err, "Could not load the audit log.")
		return
	}

	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit count failed", err, "Could not load the audit log.")
		return
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			OrgID:         e.OrgID,
			Category:      e.Category,
			EventType:     e.EventType,
			ActorID:       e.ActorID,
			UserID:        e.UserID,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	h.Log.Debug("audit log listed",
		zap.String("org_id", filter.OrgID),
		zap.Int("page", page),
		zap.Int64("total", total))

	uierrors.WriteJSON(w, http.StatusOK, listData{
		Items:      items,
		Category:   category,
		EventType:  eventType,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	})
}
