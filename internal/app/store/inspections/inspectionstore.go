// internal/app/store/inspections/inspectionstore.go
package inspectionstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("report not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("inspections")}
}

// Create inserts one report. ID and SubmittedAt are assigned here.
func (s *Store) Create(ctx context.Context, r models.InspectionReport) (models.InspectionReport, error) {
	r.ID = primitive.NewObjectID()
	r.SubmittedAt = time.Now().UTC()
	if r.Items == nil {
		r.Items = []models.InspectionItemWithStatus{}
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.InspectionReport{}, err
	}
	return r, nil
}

// Filter narrows a report listing.
type Filter struct {
	// Q matches vehicle, driver or inspector, case-insensitively.
	Q string
	// Verdict is PASS, FAIL or empty for both.
	Verdict string
}

func (f Filter) bson(orgID string) bson.M {
	m := bson.M{"org_id": orgID}
	if f.Verdict != "" {
		m["final_verdict"] = f.Verdict
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		m["$or"] = []bson.M{
			{"vehicle_registration": rx},
			{"driver_name": rx},
			{"inspected_by": rx},
		}
	}
	return m
}

// summaryProjection leaves out the item snapshot.
var summaryProjection = bson.M{"items": 0}

// ListByOrg returns report summaries (Items nil) newest first.
func (s *Store) ListByOrg(ctx context.Context, orgID string, f Filter) ([]models.InspectionReport, error) {
	return s.find(ctx, f.bson(orgID), options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(summaryProjection))
}

// ListAllByOrg returns complete reports newest first, for export.
func (s *Store) ListAllByOrg(ctx context.Context, orgID string) ([]models.InspectionReport, error) {
	return s.find(ctx, bson.M{"org_id": orgID}, options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.InspectionReport, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.InspectionReport{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one report scoped to orgID.
func (s *Store) GetByID(ctx context.Context, orgID string, id primitive.ObjectID) (models.InspectionReport, error) {
	var r models.InspectionReport
	err := s.c.FindOne(ctx, bson.M{"_id": id, "org_id": orgID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.InspectionReport{}, ErrNotFound
	}
	return r, err
}
