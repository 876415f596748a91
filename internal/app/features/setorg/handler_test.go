package setorg_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/features/setorg"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"go.uber.org/zap"
)

type recordingSessions struct {
	userID, orgID, role string
	calls               int
	cleared             int
	fail                error
}

func (s *recordingSessions) SetActiveOrg(_ http.ResponseWriter, _ *http.Request, userID, orgID, role string) error {
	if s.fail != nil {
		return s.fail
	}
	s.calls++
	s.userID, s.orgID, s.role = userID, orgID, role
	return nil
}

func (s *recordingSessions) ClearActiveOrg(http.ResponseWriter, *http.Request) error {
	if s.fail != nil {
		return s.fail
	}
	s.cleared++
	return nil
}

func newHandler() (*setorg.Handler, *testutil.FakeProvider, *recordingSessions) {
	provider := testutil.NewFakeProvider()
	sessions := &recordingSessions{}
	return setorg.NewHandler(provider, sessions, nil, zap.NewNop()), provider, sessions
}

func signedIn(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return testutil.WithIdentity(req, identity.Identity{UserID: "user_1", Email: "u@example.com"})
}

func TestServeSetOrg_Member(t *testing.T) {
	h, provider, sessions := newHandler()
	provider.AddMembership("user_1", identity.Membership{OrgID: "org_a", UserID: "user_1", Role: "org:admin"})

	rec := httptest.NewRecorder()
	h.ServeSetOrg(rec, signedIn("/set-org?orgId=org_a"))

	testutil.AssertRedirect(t, rec, "/")
	if sessions.calls != 1 || sessions.orgID != "org_a" || sessions.role != models.RoleOrgAdmin {
		t.Errorf("session = %+v", sessions)
	}
}

func TestServeSetOrg_NoChange(t *testing.T) {
	tests := []struct {
		name   string
		target string
		setup  func(*testutil.FakeProvider, *recordingSessions)
	}{
		{"missing id", "/set-org", nil},
		{"not a member", "/set-org?orgId=org_z", func(p *testutil.FakeProvider, _ *recordingSessions) {
			p.AddMembership("user_1", identity.Membership{OrgID: "org_a", UserID: "user_1", Role: "org:member"})
		}},
		{"provider error", "/set-org?orgId=org_a", func(p *testutil.FakeProvider, _ *recordingSessions) {
			p.FailListUser = errors.New("down")
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, provider, sessions := newHandler()
			if tc.setup != nil {
				tc.setup(provider, sessions)
			}
			rec := httptest.NewRecorder()
			h.ServeSetOrg(rec, signedIn(tc.target))

			testutil.AssertRedirect(t, rec, "/")
			if sessions.calls != 0 {
				t.Errorf("active org changed: %+v", sessions)
			}
		})
	}
}

func TestServeSetOrg_NonMemberClearsRevokedActiveOrg(t *testing.T) {
	tests := []struct {
		name        string
		activeOrg   string
		wantCleared int
	}{
		{"active org revoked", "org_old", 1},
		{"active org still valid", "org_a", 0},
		{"no active org", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, provider, sessions := newHandler()
			provider.AddMembership("user_1", identity.Membership{OrgID: "org_a", UserID: "user_1", Role: "org:member"})

			req := httptest.NewRequest(http.MethodGet, "/set-org?orgId=org_z", nil)
			req = testutil.WithIdentity(req, identity.Identity{UserID: "user_1", OrgID: tc.activeOrg})
			rec := httptest.NewRecorder()
			h.ServeSetOrg(rec, req)

			testutil.AssertRedirect(t, rec, "/")
			if sessions.cleared != tc.wantCleared {
				t.Errorf("cleared = %d, want %d", sessions.cleared, tc.wantCleared)
			}
			if sessions.calls != 0 {
				t.Errorf("active org set: %+v", sessions)
			}
		})
	}
}
