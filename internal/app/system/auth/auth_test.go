package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"go.uber.org/zap"
)

// stubVerifier accepts tokens it was told about.
type stubVerifier map[string]identity.Identity

func (s stubVerifier) Verify(tok string) (identity.Identity, error) {
	if id, ok := s[tok]; ok {
		return id, nil
	}
	return identity.Identity{}, identity.ErrInvalidToken
}

func newTestSessionManager(t *testing.T, v stubVerifier) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		v,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// captureIdentity records what LoadIdentity put in context.
func captureIdentity(got *identity.Identity, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = auth.CurrentIdentity(r)
	})
}

func TestLoadIdentity_BearerToken(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{
		"good": {UserID: "user_1", OrgID: "org_1", OrgRole: "org:admin"},
	})

	var got identity.Identity
	var ok bool
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	sm.LoadIdentity(captureIdentity(&got, &ok)).ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got.UserID != "user_1" || got.OrgID != "org_1" {
		t.Errorf("identity = %+v, ok = %v", got, ok)
	}
}

func TestLoadIdentity_InvalidTokenIsAnonymous(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{})

	var got identity.Identity
	var ok bool
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.ProviderCookie, Value: "forged"})
	sm.LoadIdentity(captureIdentity(&got, &ok)).ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Errorf("expected anonymous request, got %+v", got)
	}
}

func TestSetActiveOrg_FillsMissingOrg(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{
		"tok": {UserID: "user_1"},
		"other": {UserID: "user_2"},
	})

	// Store the selection.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/set-org?orgId=org_9", nil)
	if err := sm.SetActiveOrg(rec, req, "user_1", "org_9", "org:member"); err != nil {
		t.Fatalf("SetActiveOrg: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	run := func(token string) (identity.Identity, bool) {
		var got identity.Identity
		var ok bool
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		sm.LoadIdentity(captureIdentity(&got, &ok)).ServeHTTP(httptest.NewRecorder(), r)
		return got, ok
	}

	got, ok := run("tok")
	if !ok || got.OrgID != "org_9" || got.OrgRole != "org:member" {
		t.Errorf("identity = %+v, ok = %v", got, ok)
	}

	// A different user in the same browser must not inherit the selection.
	got, ok = run("other")
	if !ok || got.OrgID != "" {
		t.Errorf("selection leaked to other user: %+v", got)
	}
}

func TestRequireSignedIn_NoUser_RedirectsToSignIn(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{})
	sm.SetSignInURL("https://accounts.example.test/sign-in")

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/reports?verdict=FAIL", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.example.test/sign-in?redirect_url=") {
		t.Errorf("unexpected redirect %q", loc)
	}
	if !strings.Contains(loc, "%2Freports%3Fverdict%3DFAIL") {
		t.Errorf("redirect does not carry return path: %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{})

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Passes(t *testing.T) {
	sm := newTestSessionManager(t, stubVerifier{})

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := auth.WithTestIdentity(httptest.NewRequest("GET", "/", nil), identity.Identity{UserID: "u"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestNewSessionManager_RequiresVerifier(t *testing.T) {
	if _, err := auth.NewSessionManager("k", "n", "", time.Hour, false, nil, zap.NewNop()); err == nil {
		t.Error("expected error without verifier")
	}
}
