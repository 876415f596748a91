package auditlog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"go.uber.org/zap"
)

// recordingStore captures the filter it was queried with.
type recordingStore struct {
	events []audit.Event
	got    audit.QueryFilter
	err    error
}

func (s *recordingStore) Query(_ context.Context, f audit.QueryFilter) ([]audit.Event, error) {
	s.got = f
	return s.events, s.err
}

func (s *recordingStore) Count(_ context.Context, f audit.QueryFilter) (int64, error) {
	return int64(len(s.events)), s.err
}

type listBody struct {
	Items []struct {
		EventType string `json:"eventType"`
		OrgID     string `json:"orgId"`
	} `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	EventTypes []string `json:"eventTypes"`
}

func newHandler(store *recordingStore) *auditlog.Handler {
	logger := zap.NewNop()
	return auditlog.NewHandler(store, uierrors.NewErrorLogger(logger), logger)
}

func serve(h *auditlog.Handler, target string, id identity.Identity) *httptest.ResponseRecorder {
	req := testutil.WithIdentity(httptest.NewRequest("GET", target, nil), id)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	return rec
}

func TestServeList_AdminIsScopedToOwnOrg(t *testing.T) {
	store := &recordingStore{events: []audit.Event{
		{OrgID: "org_1", Category: audit.CategoryAdmin, EventType: audit.EventDriverAdded, Timestamp: time.Now()},
	}}
	h := newHandler(store)

	rec := serve(h, "/audit?org_id=org_other&category=admin&page=2", testutil.AdminIdentity("org_1"))

	testutil.AssertStatus(t, rec, http.StatusOK)
	if store.got.OrgID != "org_1" {
		t.Errorf("OrgID filter = %q, want org_1", store.got.OrgID)
	}
	if store.got.Category != audit.CategoryAdmin {
		t.Errorf("Category filter = %q", store.got.Category)
	}
	if store.got.Offset != 50 || store.got.Limit != 50 {
		t.Errorf("Offset/Limit = %d/%d, want 50/50", store.got.Offset, store.got.Limit)
	}

	body := testutil.DecodeJSON[listBody](t, rec)
	if len(body.Items) != 1 || body.Items[0].EventType != audit.EventDriverAdded {
		t.Errorf("items = %+v", body.Items)
	}
	if body.Page != 2 || body.TotalPages != 1 {
		t.Errorf("page = %d/%d", body.Page, body.TotalPages)
	}
	for _, et := range body.EventTypes {
		if et == audit.EventReportSubmitted {
			t.Error("admin category should not list activity event types")
		}
	}
}

func TestServeList_SuperAdminMayFilterByOrg(t *testing.T) {
	store := &recordingStore{}
	h := newHandler(store)

	rec := serve(h, "/super-admin/audit?org_id=org_9", testutil.SuperAdminIdentity())

	testutil.AssertStatus(t, rec, http.StatusOK)
	if store.got.OrgID != "org_9" {
		t.Errorf("OrgID filter = %q, want org_9", store.got.OrgID)
	}
}

func TestServeList_DateRange(t *testing.T) {
	store := &recordingStore{}
	h := newHandler(store)

	rec := serve(h, "/audit?start_date=2025-03-01&end_date=2025-03-02", testutil.AdminIdentity("org_1"))
	testutil.AssertStatus(t, rec, http.StatusOK)

	if store.got.Since == nil || !store.got.Since.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Since = %v", store.got.Since)
	}
	if store.got.Until == nil || store.got.Until.Day() != 2 || store.got.Until.Hour() != 23 {
		t.Errorf("Until = %v", store.got.Until)
	}

	rec = serve(h, "/audit?start_date=yesterday", testutil.AdminIdentity("org_1"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeList_StoreError(t *testing.T) {
	h := newHandler(&recordingStore{err: errors.New("boom")})

	rec := serve(h, "/audit", testutil.AdminIdentity("org_1"))

	testutil.AssertStatus(t, rec, http.StatusInternalServerError)
}

func TestServeList_Anonymous(t *testing.T) {
	h := newHandler(&recordingStore{})

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/audit", nil))

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}
