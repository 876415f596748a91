// Package gates decides, for each request, whether the caller may reach a
// surface of the application.
//
// # Decision
//
// Decide is a pure function over the caller's resolved Identity. It never
// verifies tokens and never touches the network; the only external fact it
// may need (the caller's organization memberships) is passed in.
//
// Rules, applied in order:
//
//  1. No signed-in user: redirect to sign-in.
//  2. Super-admin surfaces: allow the global super_admin claim, reject
//     everyone else. These surfaces are not organization-scoped.
//  3. No active organization: redirect to the wait-list when the user has no
//     memberships, otherwise to /set-org with the first membership's id.
//  4. Organization surfaces check the organization role. Callers who fall
//     short are sent to the landing page (super admins to their own area).
//
// A missing claim is always a denial, never an error.
//
// # Middleware
//
// Gate.Require wraps Decide for chi route groups. It loads memberships from
// the identity provider only when rule 3 applies.
package gates

import (
	"context"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/authz"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Surface names a class of pages or actions with the same access rule.
type Surface int

const (
	// SurfaceLanding is the authenticated home/dashboard.
	SurfaceLanding Surface = iota
	// SurfaceMember covers report creation, fleet reads and checklist reads.
	SurfaceMember
	// SurfaceAdmin covers checklist edits, fleet writes, report review and billing.
	SurfaceAdmin
	// SurfaceSuperAdmin covers organization provisioning.
	SurfaceSuperAdmin
)

func (s Surface) String() string {
	switch s {
	case SurfaceLanding:
		return "landing"
	case SurfaceMember:
		return "member"
	case SurfaceAdmin:
		return "admin"
	case SurfaceSuperAdmin:
		return "super_admin"
	default:
		return "unknown"
	}
}

// Outcome is the kind of decision reached.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Reject
)

// Decision is the result of Decide. Destination is set for Redirect only.
type Decision struct {
	Outcome     Outcome
	Destination string
}

// Paths are the navigation targets the gate may redirect to.
type Paths struct {
	SignIn     string
	WaitList   string
	SetOrg     string
	Landing    string
	SuperAdmin string
}

// DefaultPaths are the in-app destinations.
var DefaultPaths = Paths{
	SignIn:     "/sign-in",
	WaitList:   "/wait-list",
	SetOrg:     "/set-org",
	Landing:    "/",
	SuperAdmin: "/super-admin",
}

func allow() Decision               { return Decision{Outcome: Allow} }
func redirect(dest string) Decision { return Decision{Outcome: Redirect, Destination: dest} }
func reject() Decision              { return Decision{Outcome: Reject} }

func setOrgURL(p Paths, org string) string {
	return p.SetOrg + "?orgId=" + url.QueryEscape(org)
}

// NeedsMemberships reports whether Decide would consult memberships for
// this identity and surface.
func NeedsMemberships(id identity.Identity, s Surface) bool {
	return id.SignedIn() && s != SurfaceSuperAdmin && !id.HasOrg()
}

// Decide applies the access rules. memberships is consulted only when the
// identity has no active organization.
func Decide(id identity.Identity, s Surface, memberships []identity.Membership, p Paths) Decision {
	if !id.SignedIn() {
		return redirect(p.SignIn)
	}

	if s == SurfaceSuperAdmin {
		if id.IsSuperAdmin {
			return allow()
		}
		return reject()
	}

	if !id.HasOrg() {
		for _, m := range memberships {
			if m.OrgID != "" {
				return redirect(setOrgURL(p, m.OrgID))
			}
		}
		return redirect(p.WaitList)
	}

	switch s {
	case SurfaceLanding:
		if id.IsSuperAdmin || authz.IsOrgUser(id) {
			return allow()
		}
		return redirect(p.WaitList)

	case SurfaceMember:
		if id.IsSuperAdmin || authz.IsOrgUser(id) {
			return allow()
		}
		return redirect(p.Landing)

	case SurfaceAdmin:
		if authz.IsOrgAdmin(id) {
			return allow()
		}
		if id.IsSuperAdmin {
			return redirect(p.SuperAdmin)
		}
		return redirect(p.Landing)
	}

	return reject()
}

// MembershipLister is the part of the identity provider the gate uses.
type MembershipLister interface {
	ListUserMemberships(ctx context.Context, userID string) ([]identity.Membership, error)
}

// Gate is the HTTP form of Decide.
type Gate struct {
	lister MembershipLister
	paths  Paths
	log    *zap.Logger
}

// New constructs a Gate.
func New(lister MembershipLister, paths Paths, logger *zap.Logger) *Gate {
	return &Gate{lister: lister, paths: paths, log: logger}
}

// Decide resolves memberships when needed and returns the decision for r.
func (g *Gate) Decide(r *http.Request, s Surface) Decision {
	id, _ := auth.CurrentIdentity(r)

	var memberships []identity.Membership
	if NeedsMemberships(id, s) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		ms, err := g.lister.ListUserMemberships(ctx, id.UserID)
		if err != nil {
			// Treated as "no memberships": the user lands on the wait-list.
			g.log.Warn("list memberships failed",
				zap.String("user_id", id.UserID),
				zap.Error(err))
		}
		memberships = ms
	}
	return Decide(id, s, memberships, g.paths)
}

// Require returns middleware admitting only callers allowed on s.
//   - Redirect: 303 for browsers; 401 (sign-in) or 403 JSON with the
//     destination for API callers.
//   - Reject: 403.
func (g *Gate) Require(s Surface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Decide(r, s)
			switch d.Outcome {
			case Allow:
				next.ServeHTTP(w, r)
			case Redirect:
				dest := d.Destination
				if dest == g.paths.SignIn {
					dest = signInWithReturn(g.paths.SignIn, r)
				}
				if auth.WantsHTML(r) {
					http.Redirect(w, r, dest, http.StatusSeeOther)
					return
				}
				if d.Destination == g.paths.SignIn {
					uierrors.RenderUnauthorized(w, r, dest)
					return
				}
				uierrors.RenderRedirectRequired(w, r, dest)
			default:
				g.log.Info("gate rejected request",
					zap.String("surface", s.String()),
					zap.String("path", r.URL.Path))
				uierrors.RenderForbidden(w, r, "")
			}
		})
	}
}

func signInWithReturn(signIn string, r *http.Request) string {
	u, err := url.Parse(signIn)
	if err != nil {
		return signIn
	}
	q := u.Query()
	q.Set("redirect_url", r.URL.RequestURI())
	u.RawQuery = q.Encode()
	return u.String()
}
