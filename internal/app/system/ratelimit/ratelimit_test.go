package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
)

func fixedClock(l *Limiter, t *time.Time) {
	l.now = func() time.Time { return *t }
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(10*time.Second, 2)
	fixedClock(l, &now)

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}

	now = now.Add(10 * time.Second)
	if !l.Allow("k") {
		t.Error("one token should refill after the interval")
	}
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(time.Second, 1)
	fixedClock(l, &now)

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}

	now = now.Add(2 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("Len after sweep = %d, want 1", l.Len())
	}
}

func TestKeyFuncs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "198.51.100.2:5000"
	if got := ByOrg(req); got != "ip:198.51.100.2" {
		t.Errorf("anonymous ByOrg = %q", got)
	}

	req = auth.WithTestIdentity(req, identity.Identity{UserID: "u1"})
	if got := ByOrg(req); got != "user:u1" {
		t.Errorf("org-less ByOrg = %q", got)
	}

	req = auth.WithTestIdentity(req, identity.Identity{UserID: "u1", OrgID: "o1"})
	if got := ByOrg(req); got != "org:o1" {
		t.Errorf("ByOrg = %q", got)
	}
	if got := ByUser(req); got != "user:u1" {
		t.Errorf("ByUser = %q", got)
	}
}

func TestMiddleware(t *testing.T) {
	l := New(time.Hour, 1)
	h := Middleware(l, ByUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := auth.WithTestIdentity(httptest.NewRequest(http.MethodPost, "/", nil), identity.Identity{UserID: "u1"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", " 10.0.0.1 , 10.0.0.2")
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP = %q", got)
	}
}
