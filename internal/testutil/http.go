package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AdminIdentity is an org:admin of orgID.
func AdminIdentity(orgID string) identity.Identity {
	return identity.Identity{UserID: "user_admin", OrgID: orgID, OrgRole: models.RoleOrgAdmin, Email: "admin@example.com"}
}

// MemberIdentity is an org:member of orgID.
func MemberIdentity(orgID string) identity.Identity {
	return identity.Identity{UserID: "user_member", OrgID: orgID, OrgRole: models.RoleOrgMember, Email: "driver@example.com"}
}

// SuperAdminIdentity is the global super admin with no active org.
func SuperAdminIdentity() identity.Identity {
	return identity.Identity{UserID: "user_root", IsSuperAdmin: true, Email: "root@example.com"}
}

// WithIdentity injects id into the request, bypassing token verification.
func WithIdentity(r *http.Request, id identity.Identity) *http.Request {
	return auth.WithTestIdentity(r, id)
}

// NewJSONRequest builds a request with a JSON body and Accept header.
func NewJSONRequest(method, target string, body any) *http.Request {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewFormRequest builds a urlencoded form POST.
func NewFormRequest(target string, form map[string]string) *http.Request {
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req
}

// DecodeJSON decodes the recorder body into a value of type T.
func DecodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (status %d): %v", rec.Code, err)
	}
	return v
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status code: got %d, want %d (body %q)", rec.Code, want, rec.Body.String())
	}
}

// AssertRedirect checks for a redirect to the expected location.
func AssertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther && rec.Code != http.StatusFound {
		t.Errorf("expected redirect status, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("redirect location: got %q, want %q", loc, want)
	}
}
