// internal/app/features/checklist/service.go
package checklist

import (
	"context"
	"errors"

	checkliststore "github.com/dalemusser/fleetcheckr/internal/app/store/checklists"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	engine "github.com/dalemusser/fleetcheckr/internal/app/system/checklist"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.uber.org/zap"
)

// Store is the persistence the service needs.
type Store interface {
	Get(ctx context.Context, orgID string) (models.Checklist, error)
	Put(ctx context.Context, orgID string, categories []models.Category) error
}

// Service reads and writes an organization's checklist.
type Service struct {
	store      Store
	superOrgID string
	audit      *auditlog.Logger
	log        *zap.Logger
}

// NewService constructs a Service. superOrgID is the reserved organization
// whose checklist can never be written.
func NewService(store Store, superOrgID string, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{store: store, superOrgID: superOrgID, audit: audit, log: logger}
}

const (
	msgNoOrg      = "Organization not found."
	msgLoadFailed = "Could not load checklist."
	msgSaveFailed = "Could not save checklist."
	msgReserved   = "The super admin checklist cannot be modified."
)

// GetChecklist returns the org's categories. Super admins always get the
// default template and the store is not touched. A missing or malformed
// document is replaced with the default template, which is then returned.
func (s *Service) GetChecklist(ctx context.Context, orgID string, isSuperAdmin bool) result.Result[[]models.Category] {
	if isSuperAdmin {
		return result.Ok(engine.DefaultTemplate())
	}
	if orgID == "" {
		return result.Err[[]models.Category](msgNoOrg)
	}

	cl, err := s.store.Get(ctx, orgID)
	switch {
	case err == nil && cl.Categories != nil:
		return result.Ok(cl.Categories)
	case err != nil && !errors.Is(err, checkliststore.ErrNotFound):
		s.log.Error("load checklist failed", zap.String("org_id", orgID), zap.Error(err))
		return result.Err[[]models.Category](msgLoadFailed)
	}

	def := engine.DefaultTemplate()
	if err := s.store.Put(ctx, orgID, def); err != nil {
		s.log.Error("seed default checklist failed", zap.String("org_id", orgID), zap.Error(err))
		return result.Err[[]models.Category](msgLoadFailed)
	}
	s.log.Info("seeded default checklist", zap.String("org_id", orgID))
	return result.Ok(def)
}

// SetChecklist overwrites the org's checklist. The reserved super-admin
// organization is refused without a write.
func (s *Service) SetChecklist(ctx context.Context, orgID string, categories []models.Category) result.Result[struct{}] {
	if orgID == "" {
		return result.Err[struct{}](msgNoOrg)
	}
	if orgID == s.superOrgID {
		return result.Err[struct{}](msgReserved)
	}
	if err := s.store.Put(ctx, orgID, categories); err != nil {
		s.log.Error("save checklist failed", zap.String("org_id", orgID), zap.Error(err))
		return result.Err[struct{}](msgSaveFailed)
	}
	return result.OkMsg(struct{}{}, "Checklist saved.")
}

// Replace validates and saves a full category list from an editor.
func (s *Service) Replace(ctx context.Context, id identity.Identity, categories []models.Category) result.Result[[]models.Category] {
	if err := engine.Validate(categories); err != nil {
		return result.Err[[]models.Category](userMessage(err))
	}
	return s.save(ctx, id, categories)
}

// Mutation is a pure edit applied to the current checklist.
type Mutation func([]models.Category) ([]models.Category, error)

// Apply loads the checklist, applies fn and saves the result. There is
// no concurrency token: the last writer wins.
func (s *Service) Apply(ctx context.Context, id identity.Identity, fn Mutation) result.Result[[]models.Category] {
	current := s.GetChecklist(ctx, id.OrgID, false)
	cats, ok := current.Unwrap()
	if !ok {
		return current
	}
	next, err := fn(cats)
	if err != nil {
		return result.Err[[]models.Category](userMessage(err))
	}
	return s.save(ctx, id, next)
}

func (s *Service) save(ctx context.Context, id identity.Identity, cats []models.Category) result.Result[[]models.Category] {
	if res := s.SetChecklist(ctx, id.OrgID, cats); !res.IsOk() {
		return result.Err[[]models.Category](res.Message())
	}
	s.audit.ChecklistSaved(ctx, id.UserID, id.OrgID, len(cats), len(engine.Flatten(cats)))
	return result.OkMsg(cats, "Checklist saved.")
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrCategoryNotFound):
		return "Category not found."
	case errors.Is(err, engine.ErrItemNotFound):
		return "Item not found."
	case errors.Is(err, engine.ErrNameRequired):
		return "Name is required."
	case errors.Is(err, engine.ErrCrossCategoryMove):
		return "Items can only be reordered within their own category."
	case errors.Is(err, engine.ErrIndexOutOfRange):
		return "Invalid position."
	default:
		return "Checklist is invalid: " + err.Error()
	}
}
