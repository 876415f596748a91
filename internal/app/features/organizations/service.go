// internal/app/features/organizations/service.go
package organizations

import (
	"context"
	"errors"

	organizationstore "github.com/dalemusser/fleetcheckr/internal/app/store/organizations"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/inputval"
	"github.com/dalemusser/fleetcheckr/internal/app/system/metrics"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.uber.org/zap"
)

// OrgStore is the local organization mirror.
type OrgStore interface {
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]models.Organization, error)
	EnsureReserved(ctx context.Context, id, name string) (bool, error)
}

// MemberStore records invited members.
type MemberStore interface {
	Create(ctx context.Context, m models.Member) (models.Member, error)
}

// Config carries the provisioning settings.
type Config struct {
	InviteRedirectURL string
	SuperOrgID        string
	SuperOrgName      string
}

// Service provisions organizations and reads their membership.
type Service struct {
	orgs     OrgStore
	members  MemberStore
	provider identity.Provider
	cfg      Config
	metrics  *metrics.Metrics
	audit    *auditlog.Logger
	log      *zap.Logger
}

func NewService(orgs OrgStore, members MemberStore, provider identity.Provider, cfg Config, m *metrics.Metrics, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{orgs: orgs, members: members, provider: provider, cfg: cfg, metrics: m, audit: audit, log: logger}
}

const (
	msgUnauthorized = "Unauthorized action."
	msgRequired     = "Organization name and email are required."
	msgBadName      = "Organization name is invalid."
	msgBadEmail     = "Email address is invalid."
	msgExists       = "An organization with this name already exists."
	msgFailed       = "Failed to create organization."
	msgNoOrg        = "Organization not found."
	msgListFailed   = "Could not load organizations."
)

// Provisioned is returned on success.
type Provisioned struct {
	OrgID        string `json:"org_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	InvitationID string `json:"invitation_id"`
}

// Provision creates an organization in the identity provider, makes the
// caller an admin of it, invites email as its admin and records the local
// mirror. If a step after the provider created the organization fails,
// the provider organization is deleted again.
func (s *Service) Provision(ctx context.Context, id identity.Identity, name, email string) result.Result[Provisioned] {
	if !id.SignedIn() || !id.IsSuperAdmin {
		return result.Err[Provisioned](msgUnauthorized)
	}
	name = normalize.Name(name)
	email = normalize.Email(email)
	if name == "" || email == "" {
		return result.Err[Provisioned](msgRequired)
	}
	if !inputval.IsValidEmail(email) {
		return result.Err[Provisioned](msgBadEmail)
	}
	slug := normalize.Slug(name)
	if slug == "" {
		return result.Err[Provisioned](msgBadName)
	}

	exists, err := s.orgs.ExistsBySlug(ctx, slug)
	if err != nil {
		return s.fail(ctx, id, "", name, "slug lookup", err)
	}
	if exists {
		return result.Err[Provisioned](msgExists)
	}

	org, err := s.provider.CreateOrganization(ctx, name, slug, id.UserID)
	if err != nil {
		return s.fail(ctx, id, "", name, "create provider organization", err)
	}

	if err := s.provider.CreateMembership(ctx, org.ID, id.UserID, models.RoleOrgAdmin); err != nil {
		s.compensate(org.ID)
		return s.fail(ctx, id, org.ID, name, "add super admin membership", err)
	}

	inv, err := s.provider.CreateInvitation(ctx, identity.InvitationRequest{
		OrgID:       org.ID,
		InviterID:   id.UserID,
		Email:       email,
		Role:        models.RoleOrgAdmin,
		RedirectURL: s.cfg.InviteRedirectURL,
	})
	if err != nil {
		s.compensate(org.ID)
		return s.fail(ctx, id, org.ID, name, "create invitation", err)
	}

	if _, err := s.orgs.Create(ctx, models.Organization{
		ID:        org.ID,
		Name:      name,
		Slug:      slug,
		Plan:      models.PlanFree,
		CreatedBy: id.UserID,
	}); err != nil {
		s.compensate(org.ID)
		if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			s.metrics.OrgProvisioned("failed")
			s.audit.OrgProvisionFailed(ctx, id.UserID, org.ID, name, "duplicate slug")
			return result.Err[Provisioned](msgExists)
		}
		return s.fail(ctx, id, org.ID, name, "insert organization", err)
	}

	if _, err := s.members.Create(ctx, models.Member{
		OrgID:     org.ID,
		Email:     email,
		Role:      models.RoleOrgAdmin,
		CreatedBy: id.UserID,
	}); err != nil {
		// the org and invitation exist; a missing member row is not fatal
		s.log.Warn("record invited member failed", zap.String("org_id", org.ID), zap.Error(err))
	}

	s.metrics.OrgProvisioned("ok")
	s.audit.OrgProvisioned(ctx, id.UserID, org.ID, name, email)
	s.log.Info("organization provisioned", zap.String("org_id", org.ID), zap.String("slug", slug))
	return result.OkMsg(Provisioned{OrgID: org.ID, Name: name, Slug: slug, InvitationID: inv.ID},
		"Organization created and invitation sent.")
}

func (s *Service) fail(ctx context.Context, id identity.Identity, orgID, name, step string, err error) result.Result[Provisioned] {
	s.log.Error("provision organization failed",
		zap.String("step", step), zap.String("org_id", orgID), zap.String("name", name), zap.Error(err))
	s.metrics.OrgProvisioned("failed")
	s.audit.OrgProvisionFailed(ctx, id.UserID, orgID, name, step)
	return result.Err[Provisioned](msgFailed)
}

// compensate deletes a half-provisioned provider organization. It runs on
// its own context so a cancelled request still cleans up.
func (s *Service) compensate(orgID string) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Medium)
	defer cancel()
	if err := s.provider.DeleteOrganization(ctx, orgID); err != nil {
		s.log.Error("compensating organization delete failed", zap.String("org_id", orgID), zap.Error(err))
		return
	}
	s.log.Warn("rolled back provider organization", zap.String("org_id", orgID))
}

// ListOrganizations returns every organization, newest first.
func (s *Service) ListOrganizations(ctx context.Context, id identity.Identity) result.Result[[]models.Organization] {
	if !id.IsSuperAdmin {
		return result.Err[[]models.Organization](msgUnauthorized)
	}
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		s.log.Error("list organizations failed", zap.Error(err))
		return result.Err[[]models.Organization](msgListFailed)
	}
	return result.Ok(orgs)
}

// ListMembers returns the provider's memberships for the caller's org.
func (s *Service) ListMembers(ctx context.Context, id identity.Identity) result.Result[[]identity.Membership] {
	if id.OrgID == "" {
		return result.Err[[]identity.Membership](msgNoOrg)
	}
	ms, err := s.provider.ListOrganizationMemberships(ctx, id.OrgID)
	if err != nil {
		s.log.Error("list organization members failed", zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[[]identity.Membership]("Could not load members.")
	}
	if ms == nil {
		ms = []identity.Membership{}
	}
	return result.Ok(ms)
}

// EnsureSuperOrg creates the reserved super-admin organization record when
// it is missing.
func (s *Service) EnsureSuperOrg(ctx context.Context) error {
	if s.cfg.SuperOrgID == "" {
		return nil
	}
	name := s.cfg.SuperOrgName
	if name == "" {
		name = "Super Admin"
	}
	created, err := s.orgs.EnsureReserved(ctx, s.cfg.SuperOrgID, name)
	if err != nil {
		return err
	}
	if created {
		s.log.Info("created reserved super-admin organization", zap.String("org_id", s.cfg.SuperOrgID))
	}
	return nil
}
