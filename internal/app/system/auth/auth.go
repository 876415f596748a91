// Package auth resolves the caller's identity for every request and keeps
// the caller's active organization in a signed session cookie.
//
// The identity provider owns sign-in. This package only verifies the
// provider's session token (from the Authorization header or the provider's
// session cookie) and, when the token carries no organization, falls back to
// the organization chosen through /set-org.
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// ProviderCookie is the cookie the identity provider sets with the
	// short-lived session token.
	ProviderCookie = "__session"

	activeUserKey = "active_user_id"
	activeOrgKey  = "active_org_id"
	activeRoleKey = "active_org_role"
)

// TokenVerifier turns a provider session token into an Identity.
type TokenVerifier interface {
	Verify(token string) (identity.Identity, error)
}

// SessionManager loads identities and stores the active organization.
type SessionManager struct {
	store     *sessions.CookieStore
	name      string
	verifier  TokenVerifier
	signInURL string
	log       *zap.Logger
}

// NewSessionManager builds a SessionManager. An empty key is replaced by a
// random one, which invalidates sessions on restart; use it only in dev.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, verifier TokenVerifier, logger *zap.Logger) (*SessionManager, error) {
	if verifier == nil {
		return nil, errors.New("auth: token verifier is required")
	}
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("session key is empty; generated an ephemeral key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:     store,
		name:      name,
		verifier:  verifier,
		signInURL: "/sign-in",
		log:       logger,
	}, nil
}

// SetSignInURL changes where unauthenticated browsers are sent.
func (sm *SessionManager) SetSignInURL(u string) {
	if u != "" {
		sm.signInURL = u
	}
}

// SignInURL returns the configured sign-in destination.
func (sm *SessionManager) SignInURL() string { return sm.signInURL }

// LoadIdentity verifies the provider token, if any, and stores the
// resulting Identity in the request context. Requests without a valid
// token continue anonymously.
func (sm *SessionManager) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFromRequest(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := sm.verifier.Verify(tok)
		if err != nil {
			sm.log.Debug("session token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !id.HasOrg() {
			if sess, err := sm.store.Get(r, sm.name); err == nil {
				if getString(sess, activeUserKey) == id.UserID {
					id.OrgID = getString(sess, activeOrgKey)
					id.OrgRole = normalize.Role(getString(sess, activeRoleKey))
				}
			}
		}
		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
	})
}

// SetActiveOrg records orgID and role as the caller's active organization.
// The selection is bound to the user id so it never leaks across accounts
// sharing a browser.
func (sm *SessionManager) SetActiveOrg(w http.ResponseWriter, r *http.Request, userID, orgID, role string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[activeUserKey] = userID
	sess.Values[activeOrgKey] = orgID
	sess.Values[activeRoleKey] = role
	return sess.Save(r, w)
}

// ClearActiveOrg forgets the active organization.
func (sm *SessionManager) ClearActiveOrg(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	delete(sess.Values, activeUserKey)
	delete(sess.Values, activeOrgKey)
	delete(sess.Values, activeRoleKey)
	return sess.Save(r, w)
}

// CurrentIdentity returns the identity loaded by LoadIdentity.
func CurrentIdentity(r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok || !id.SignedIn() {
		return identity.Identity{}, false
	}
	return id, true
}

// WithTestIdentity injects id into the request context. Tests only.
func WithTestIdentity(r *http.Request, id identity.Identity) *http.Request {
	return r.WithContext(identity.WithIdentity(r.Context(), id))
}

// RequireSignedIn ensures an identity is present.
//   - HTML: 303 redirect to the sign-in URL with a redirect_url back here.
//   - API:  401 Unauthorized.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		if WantsHTML(r) {
			http.Redirect(w, r, sm.SignInRedirect(r), http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// SignInRedirect builds the sign-in URL that returns to the current page.
func (sm *SessionManager) SignInRedirect(r *http.Request) string {
	sep := "?"
	if strings.Contains(sm.signInURL, "?") {
		sep = "&"
	}
	return sm.signInURL + sep + "redirect_url=" + url.QueryEscape(r.URL.RequestURI())
}

// WantsHTML is a light heuristic: browsers and HTMX get redirects, API
// callers get status codes.
func WantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(ProviderCookie); err == nil {
		return c.Value
	}
	return ""
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
