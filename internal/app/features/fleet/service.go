// internal/app/features/fleet/service.go
package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	fleetstore "github.com/dalemusser/fleetcheckr/internal/app/store/fleet"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Roster is the store surface one roster kind needs.
type Roster[T fleetstore.Entry] interface {
	Kind() fleetstore.Kind
	Add(ctx context.Context, orgID, value string) (T, error)
	List(ctx context.Context, orgID string) ([]T, error)
	ListPage(ctx context.Context, orgID, after string) (fleetstore.Page[T], error)
	Delete(ctx context.Context, orgID string, id primitive.ObjectID) error
}

// Events are the audit event types recorded for one roster kind.
type Events struct {
	Added   string
	Deleted string
}

var (
	DriverEvents  = Events{Added: audit.EventDriverAdded, Deleted: audit.EventDriverDeleted}
	VehicleEvents = Events{Added: audit.EventVehicleAdded, Deleted: audit.EventVehicleDeleted}
)

// Service manages one roster (drivers or vehicles) for the caller's org.
type Service[T fleetstore.Entry] struct {
	store  Roster[T]
	events Events
	audit  *auditlog.Logger
	log    *zap.Logger
}

func NewService[T fleetstore.Entry](store Roster[T], events Events, audit *auditlog.Logger, logger *zap.Logger) *Service[T] {
	return &Service[T]{store: store, events: events, audit: audit, log: logger}
}

const msgNoOrg = "Organization not found."

func (s *Service[T]) label() string { return s.store.Kind().Label }

// List returns the whole roster ordered by value.
func (s *Service[T]) List(ctx context.Context, id identity.Identity) result.Result[[]T] {
	if id.OrgID == "" {
		return result.Err[[]T](msgNoOrg)
	}
	rows, err := s.store.List(ctx, id.OrgID)
	if err != nil {
		s.log.Error("list roster failed", zap.String("kind", s.label()), zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[[]T]("Could not load " + strings.ToLower(s.label()) + "s.")
	}
	return result.Ok(rows)
}

// ListPage returns one page of the roster, newest first.
func (s *Service[T]) ListPage(ctx context.Context, id identity.Identity, after string) result.Result[fleetstore.Page[T]] {
	if id.OrgID == "" {
		return result.Err[fleetstore.Page[T]](msgNoOrg)
	}
	page, err := s.store.ListPage(ctx, id.OrgID, after)
	switch {
	case errors.Is(err, fleetstore.ErrInvalidCursor):
		return result.Err[fleetstore.Page[T]]("Invalid page cursor.")
	case err != nil:
		s.log.Error("page roster failed", zap.String("kind", s.label()), zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[fleetstore.Page[T]]("Could not load " + strings.ToLower(s.label()) + "s.")
	}
	return result.Ok(page)
}

// Add normalizes value and appends it to the roster.
func (s *Service[T]) Add(ctx context.Context, id identity.Identity, value string) result.Result[T] {
	if id.OrgID == "" {
		return result.Err[T](msgNoOrg)
	}
	entry, err := s.store.Add(ctx, id.OrgID, value)
	switch {
	case errors.Is(err, fleetstore.ErrEmptyValue):
		return result.Err[T](s.label() + " is required.")
	case errors.Is(err, fleetstore.ErrDuplicate):
		return result.Err[T](s.label() + " already exists.")
	case err != nil:
		s.log.Error("add roster entry failed", zap.String("kind", s.label()), zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[T]("Could not add " + strings.ToLower(s.label()) + ".")
	}
	s.audit.FleetChanged(ctx, s.events.Added, id.UserID, id.OrgID, entry.Value())
	return result.OkMsg(entry, s.label()+" added.")
}

// Delete removes one entry by hex id.
func (s *Service[T]) Delete(ctx context.Context, id identity.Identity, entryID string) result.Result[struct{}] {
	if id.OrgID == "" {
		return result.Err[struct{}](msgNoOrg)
	}
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return result.Err[struct{}]("Invalid " + strings.ToLower(s.label()) + " id.")
	}
	err = s.store.Delete(ctx, id.OrgID, oid)
	switch {
	case errors.Is(err, fleetstore.ErrNotFound):
		return result.Err[struct{}](s.label() + " not found.")
	case err != nil:
		s.log.Error("delete roster entry failed", zap.String("kind", s.label()), zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[struct{}]("Could not delete " + strings.ToLower(s.label()) + ".")
	}
	s.audit.FleetChanged(ctx, s.events.Deleted, id.UserID, id.OrgID, entryID)
	return result.OkMsg(struct{}{}, s.label()+" deleted.")
}
