// internal/app/store/fleet/fleetstore.go
//
// Package fleetstore persists the two organization rosters, drivers and
// vehicles. Both share one shape (an org-scoped single string field) so a
// single generic Store serves them, parameterised by Kind.
package fleetstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/paging"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrMissingOrg    = errors.New("organization id is required")
	ErrEmptyValue    = errors.New("value is required")
	ErrDuplicate     = errors.New("value already exists")
	ErrNotFound      = errors.New("entry not found")
	ErrInvalidCursor = errors.New("invalid page cursor")
)

// Kind describes one roster collection.
type Kind struct {
	Collection string
	Field      string
	// Label is used in user-facing messages ("Driver", "Vehicle").
	Label     string
	Normalize func(string) string
}

var (
	Drivers  = Kind{Collection: "drivers", Field: "name", Label: "Driver", Normalize: normalize.DriverName}
	Vehicles = Kind{Collection: "vehicles", Field: "registration", Label: "Vehicle", Normalize: normalize.Registration}
)

// Entry is a decoded roster document.
type Entry interface {
	models.Driver | models.Vehicle
	Position() (time.Time, primitive.ObjectID)
	Value() string
}

type Store[T Entry] struct {
	c    *mongo.Collection
	kind Kind
}

func New[T Entry](db *mongo.Database, kind Kind) *Store[T] {
	return &Store[T]{c: db.Collection(kind.Collection), kind: kind}
}

// NewDrivers and NewVehicles bind the model types to their kinds.
func NewDrivers(db *mongo.Database) *Store[models.Driver] { return New[models.Driver](db, Drivers) }
func NewVehicles(db *mongo.Database) *Store[models.Vehicle] { return New[models.Vehicle](db, Vehicles) }

// Kind returns the roster this store serves.
func (s *Store[T]) Kind() Kind { return s.kind }

// ExistsValue reports whether value (already normalized) is on the org roster.
func (s *Store[T]) ExistsValue(ctx context.Context, orgID, value string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"org_id": orgID, s.kind.Field: value},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add normalizes value and inserts it unless the org already has it.
// The duplicate check and insert are separate operations.
func (s *Store[T]) Add(ctx context.Context, orgID, value string) (T, error) {
	var zero T
	if orgID == "" {
		return zero, ErrMissingOrg
	}
	value = s.kind.Normalize(value)
	if value == "" {
		return zero, ErrEmptyValue
	}

	exists, err := s.ExistsValue(ctx, orgID, value)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, ErrDuplicate
	}

	doc := bson.M{
		"_id":        primitive.NewObjectID(),
		"org_id":     orgID,
		s.kind.Field: value,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return zero, ErrDuplicate
		}
		return zero, err
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return zero, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// List returns the whole roster ordered by the roster field.
func (s *Store[T]) List(ctx context.Context, orgID string) ([]T, error) {
	if orgID == "" {
		return nil, ErrMissingOrg
	}
	return s.find(ctx, bson.M{"org_id": orgID},
		options.Find().SetSort(bson.D{{Key: s.kind.Field, Value: 1}, {Key: "_id", Value: 1}}))
}

// Page is one keyset page; Next is empty on the last page.
type Page[T Entry] struct {
	Items []T    `json:"items"`
	Next  string `json:"next,omitempty"`
}

// ListPage returns up to paging.PageSize entries, newest first, starting
// after the opaque cursor (empty for the first page).
func (s *Store[T]) ListPage(ctx context.Context, orgID, after string) (Page[T], error) {
	if orgID == "" {
		return Page[T]{}, ErrMissingOrg
	}
	filter := bson.M{"org_id": orgID}
	if after != "" {
		c, ok := paging.DecodeTimeCursor(after)
		if !ok {
			return Page[T]{}, ErrInvalidCursor
		}
		for k, v := range paging.AfterDesc("created_at", c) {
			filter[k] = v
		}
	}

	rows, err := s.find(ctx, filter, paging.DescFind("created_at"))
	if err != nil {
		return Page[T]{}, err
	}
	hasNext := paging.TrimPage(&rows)
	next := paging.NextCursor(rows, hasNext,
		func(e T) time.Time { at, _ := e.Position(); return at },
		func(e T) primitive.ObjectID { _, id := e.Position(); return id })
	return Page[T]{Items: rows, Next: next}, nil
}

func (s *Store[T]) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one entry. Both ids are required.
func (s *Store[T]) Delete(ctx context.Context, orgID string, id primitive.ObjectID) error {
	if orgID == "" {
		return ErrMissingOrg
	}
	if id.IsZero() {
		return ErrNotFound
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "org_id": orgID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context, orgID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"org_id": orgID})
}
