// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
	ErrNotFound              = errors.New("organization not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// Create inserts the local mirror of a provider organization. ID must be
// the provider's id.
func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if org.Plan == "" {
		org.Plan = models.PlanFree
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, ErrNotFound
	}
	return org, err
}

// ExistsBySlug reports whether any organization already uses slug.
func (s *Store) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"slug": slug}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all organizations, newest first.
func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Organization{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Subscription is the billing state written after a verified payment.
type Subscription struct {
	Plan             string
	Status           string
	TrialEndsAt      time.Time
	SubscriptionCode string
	CustomerCode     string
}

// UpdateSubscription records billing state on the organization.
func (s *Store) UpdateSubscription(ctx context.Context, orgID string, sub Subscription) error {
	res, err := s.c.UpdateByID(ctx, orgID, bson.M{"$set": bson.M{
		"plan":                sub.Plan,
		"subscription_status": sub.Status,
		"trial_ends_at":       sub.TrialEndsAt.UTC(),
		"subscription_code":   sub.SubscriptionCode,
		"customer_code":       sub.CustomerCode,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureReserved upserts the reserved super-admin organization record.
// Existing records are left untouched.
func (s *Store) EnsureReserved(ctx context.Context, id, name string) (created bool, err error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$setOnInsert": bson.M{
		"name":       name,
		"slug":       id,
		"plan":       models.PlanFree,
		"created_by": "system",
		"created_at": time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
