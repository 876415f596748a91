// Package metricsstore computes the totals shown on dashboards.
package metricsstore

import (
	"context"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlatformCounts is what the super admin sees.
type PlatformCounts struct {
	Organizations int64 `json:"organizations"`
	Reports       int64 `json:"reports"`
}

// OrgCounts is what members of a single organization see.
type OrgCounts struct {
	Reports       int64 `json:"reports"`
	FailedReports int64 `json:"failedReports"`
	Vehicles      int64 `json:"vehicles"`
	Drivers       int64 `json:"drivers"`
}

// FetchPlatformCounts returns cross-organization totals.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchPlatformCounts(ctx context.Context, db *mongo.Database) PlatformCounts {
	var out PlatformCounts
	if n, err := db.Collection("organizations").CountDocuments(ctx, bson.M{}); err == nil {
		out.Organizations = n
	}
	if n, err := db.Collection("inspections").EstimatedDocumentCount(ctx); err == nil {
		out.Reports = n
	}
	return out
}

// FetchOrgCounts returns totals scoped to orgID, with the same tolerance.
func FetchOrgCounts(ctx context.Context, db *mongo.Database, orgID string) OrgCounts {
	var out OrgCounts
	count := func(coll string, filter bson.M) int64 {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			return 0
		}
		return n
	}
	out.Reports = count("inspections", bson.M{"org_id": orgID})
	out.FailedReports = count("inspections", bson.M{"org_id": orgID, "final_verdict": models.VerdictFail})
	out.Vehicles = count("vehicles", bson.M{"org_id": orgID})
	out.Drivers = count("drivers", bson.M{"org_id": orgID})
	return out
}
