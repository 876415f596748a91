// Package identity is the boundary to the external identity and organization
// provider. It defines the per-request Identity context object, verifies the
// provider's session tokens, and calls the provider's backend API.
package identity

import "context"

// Identity is the caller as resolved for one request. It is passed
// explicitly into every operation that needs authorization.
type Identity struct {
	UserID       string
	OrgID        string
	OrgRole      string // org:admin | org:member | ""
	IsSuperAdmin bool
	Email        string
}

// SignedIn reports whether a user id was resolved.
func (id Identity) SignedIn() bool { return id.UserID != "" }

// HasOrg reports whether an active organization is selected.
func (id Identity) HasOrg() bool { return id.OrgID != "" }

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the Identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
