// internal/app/store/checklists/checkliststore.go
package checkliststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound means the org has never saved a checklist.
var ErrNotFound = errors.New("checklist not found")

// Store keeps one checklist document per organization, keyed by org id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("checklists")}
}

// Get returns the org's checklist. A document whose categories field is
// missing decodes with nil Categories; callers treat that as malformed.
func (s *Store) Get(ctx context.Context, orgID string) (models.Checklist, error) {
	var cl models.Checklist
	err := s.c.FindOne(ctx, bson.M{"_id": orgID}).Decode(&cl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Checklist{}, ErrNotFound
	}
	if err != nil {
		return models.Checklist{}, err
	}
	return cl, nil
}

// Put overwrites the org's checklist in full.
func (s *Store) Put(ctx context.Context, orgID string, categories []models.Category) error {
	if categories == nil {
		categories = []models.Category{}
	}
	doc := models.Checklist{OrgID: orgID, Categories: categories, UpdatedAt: time.Now().UTC()}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": orgID}, doc, options.Replace().SetUpsert(true))
	return err
}
