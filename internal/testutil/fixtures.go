package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateOrganization inserts an organization mirror on the free plan.
func (f *Fixtures) CreateOrganization(ctx context.Context, id, name string) models.Organization {
	f.t.Helper()
	org := models.Organization{
		ID:        id,
		Name:      name,
		Slug:      normalize.Slug(name),
		Plan:      models.PlanFree,
		CreatedBy: "user_root",
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "organizations", org)
	return org
}

// CreateDriver inserts a driver at createdAt.
func (f *Fixtures) CreateDriver(ctx context.Context, orgID, name string, createdAt time.Time) models.Driver {
	f.t.Helper()
	d := models.Driver{ID: primitive.NewObjectID(), OrgID: orgID, Name: name, CreatedAt: createdAt.UTC()}
	f.insert(ctx, "drivers", d)
	return d
}

// CreateVehicle inserts a vehicle at createdAt.
func (f *Fixtures) CreateVehicle(ctx context.Context, orgID, reg string, createdAt time.Time) models.Vehicle {
	f.t.Helper()
	v := models.Vehicle{ID: primitive.NewObjectID(), OrgID: orgID, Registration: reg, CreatedAt: createdAt.UTC()}
	f.insert(ctx, "vehicles", v)
	return v
}

// CreateReport inserts an inspection report with the given verdict.
func (f *Fixtures) CreateReport(ctx context.Context, orgID, vehicle, driver, verdict string, at time.Time) models.InspectionReport {
	f.t.Helper()
	odo := int64(120000)
	r := models.InspectionReport{
		ID:                  primitive.NewObjectID(),
		OrgID:               orgID,
		VehicleRegistration: vehicle,
		DriverName:          driver,
		CurrentOdometer:     &odo,
		InspectedBy:         "INSPECTOR",
		FinalVerdict:        verdict,
		Items: []models.InspectionItemWithStatus{
			{ID: "i1", Name: "Brakes", CategoryID: "c1", CategoryName: "Prime Mover", Status: models.StatusOK},
		},
		SubmittedBy: "user_member",
		SubmittedAt: at.UTC(),
	}
	f.insert(ctx, "inspections", r)
	return r
}
