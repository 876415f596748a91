package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
)

// FakeProvider is an in-memory identity.Provider. Set a Fail* field to make
// the matching call return that error.
type FakeProvider struct {
	mu sync.Mutex

	Memberships map[string][]identity.Membership // by user id
	Orgs        map[string]identity.Organization
	Invitations []identity.InvitationRequest
	Deleted     []string

	FailCreateOrg    error
	FailMembership   error
	FailInvitation   error
	FailDelete       error
	FailListUser     error
	FailListOrgUsers error

	seq int
}

// NewFakeProvider returns an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Memberships: map[string][]identity.Membership{},
		Orgs:        map[string]identity.Organization{},
	}
}

// AddMembership seeds a membership for userID.
func (f *FakeProvider) AddMembership(userID string, m identity.Membership) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.UserID = userID
	f.Memberships[userID] = append(f.Memberships[userID], m)
}

func (f *FakeProvider) ListUserMemberships(_ context.Context, userID string) ([]identity.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListUser != nil {
		return nil, f.FailListUser
	}
	return append([]identity.Membership(nil), f.Memberships[userID]...), nil
}

func (f *FakeProvider) ListOrganizationMemberships(_ context.Context, orgID string) ([]identity.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailListOrgUsers != nil {
		return nil, f.FailListOrgUsers
	}
	var out []identity.Membership
	for _, ms := range f.Memberships {
		for _, m := range ms {
			if m.OrgID == orgID {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *FakeProvider) CreateOrganization(_ context.Context, name, slug, _ string) (identity.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateOrg != nil {
		return identity.Organization{}, f.FailCreateOrg
	}
	f.seq++
	org := identity.Organization{ID: fmt.Sprintf("org_fake_%d", f.seq), Name: name, Slug: slug}
	f.Orgs[org.ID] = org
	return org, nil
}

func (f *FakeProvider) DeleteOrganization(_ context.Context, orgID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete != nil {
		return f.FailDelete
	}
	delete(f.Orgs, orgID)
	f.Deleted = append(f.Deleted, orgID)
	return nil
}

func (f *FakeProvider) CreateMembership(_ context.Context, orgID, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailMembership != nil {
		return f.FailMembership
	}
	org := f.Orgs[orgID]
	f.Memberships[userID] = append(f.Memberships[userID], identity.Membership{
		OrgID: orgID, OrgName: org.Name, OrgSlug: org.Slug, UserID: userID, Role: role,
	})
	return nil
}

func (f *FakeProvider) CreateInvitation(_ context.Context, req identity.InvitationRequest) (identity.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailInvitation != nil {
		return identity.Invitation{}, f.FailInvitation
	}
	f.Invitations = append(f.Invitations, req)
	return identity.Invitation{
		ID: fmt.Sprintf("inv_%d", len(f.Invitations)), OrgID: req.OrgID,
		Email: req.Email, Role: req.Role, Status: "pending",
	}, nil
}

var _ identity.Provider = (*FakeProvider)(nil)
