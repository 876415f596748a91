package checklist_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/features/checklist"
	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    []models.Category `json:"data"`
	Message string            `json:"message"`
}

func newTestHandler(t *testing.T) (*checklist.Handler, *memStore) {
	t.Helper()
	store := newMemStore()
	logger := zap.NewNop()
	return checklist.NewHandler(newService(store), uierrors.NewErrorLogger(logger), logger), store
}

func TestServeChecklist_Member(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/checklist", nil)
	req = testutil.WithIdentity(req, testutil.MemberIdentity("org_a"))
	rec := httptest.NewRecorder()
	h.ServeChecklist(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	body := testutil.DecodeJSON[envelope](t, rec)
	if !body.Success || len(body.Data) == 0 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandleAddItem_SanitizesInput(t *testing.T) {
	h, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h.Svc.GetChecklist(ctx, "org_a", false)
	catID := store.docs["org_a"][0].ID

	req := testutil.NewJSONRequest(http.MethodPost, "/checklist/categories/"+catID+"/items", map[string]string{
		"name":        "<b>Mirrors</b>",
		"description": "<script>x()</script>Clean and aligned",
	})
	req = testutil.WithChiURLParam(req, "categoryID", catID)
	req = testutil.WithIdentity(req, testutil.AdminIdentity("org_a"))
	rec := httptest.NewRecorder()
	h.HandleAddItem(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	items := store.docs["org_a"][0].Items
	got := items[len(items)-1]
	if got.Name != "Mirrors" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Description != "Clean and aligned" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestHandleDeleteCategory_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/checklist/categories/missing", nil)
	req = testutil.WithChiURLParam(req, "categoryID", "missing")
	req = testutil.WithIdentity(req, testutil.AdminIdentity("org_a"))
	rec := httptest.NewRecorder()
	h.HandleDeleteCategory(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	body := testutil.DecodeJSON[envelope](t, rec)
	if body.Success || body.Message != "Category not found." {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandleMoveItem_CrossCategoryRejected(t *testing.T) {
	h, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h.Svc.GetChecklist(ctx, "org_a", false)
	cats := store.docs["org_a"]

	req := testutil.NewJSONRequest(http.MethodPost, "/checklist/items/move", map[string]any{
		"from_category_id": cats[0].ID,
		"to_category_id":   cats[1].ID,
		"from":             0,
		"to":               1,
	})
	req = testutil.WithIdentity(req, testutil.AdminIdentity("org_a"))
	rec := httptest.NewRecorder()
	h.HandleMoveItem(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleReplace_BadJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(http.MethodPut, "/checklist", map[string]any{"unknown": true})
	req = testutil.WithIdentity(req, testutil.AdminIdentity("org_a"))
	rec := httptest.NewRecorder()
	h.HandleReplace(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
