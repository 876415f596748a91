package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the provider reports a missing resource.
var ErrNotFound = errors.New("identity: not found")

// Membership links a user to an organization with a role.
type Membership struct {
	OrgID   string `json:"org_id"`
	OrgName string `json:"org_name"`
	OrgSlug string `json:"org_slug"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// Organization as known to the provider.
type Organization struct {
	ID   string
	Name string
	Slug string
}

// InvitationRequest asks the provider to email an invitation.
type InvitationRequest struct {
	OrgID       string
	InviterID   string
	Email       string
	Role        string
	RedirectURL string
}

// Invitation is the provider's record of a pending invitation.
type Invitation struct {
	ID     string
	OrgID  string
	Email  string
	Role   string
	Status string
}

// Provider is the subset of the identity provider's backend API the
// application consumes.
type Provider interface {
	ListUserMemberships(ctx context.Context, userID string) ([]Membership, error)
	ListOrganizationMemberships(ctx context.Context, orgID string) ([]Membership, error)
	CreateOrganization(ctx context.Context, name, slug, createdBy string) (Organization, error)
	DeleteOrganization(ctx context.Context, orgID string) error
	CreateMembership(ctx context.Context, orgID, userID, role string) error
	CreateInvitation(ctx context.Context, req InvitationRequest) (Invitation, error)
}
