// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/fleetcheckr/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Tenants and their members
	ensure("organizations", orgsSchema())
	ensure("members", membersSchema())

	// Per-organization data
	ensure("checklists", checklistsSchema())
	ensure("inspections", inspectionsSchema())
	ensure("drivers", rosterSchema("name"))
	ensure("vehicles", rosterSchema("registration"))

	// Written only by the audit logger; no validator needed.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func orgsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "slug", "plan", "created_at"},
			"properties": bson.M{
				"_id":        bson.M{"bsonType": "string", "minLength": 1},
				"name":       nonBlank,
				"slug":       nonBlank,
				"plan":       bson.M{"enum": bson.A{models.PlanFree, models.PlanPro}},
				"created_by": bson.M{"bsonType": "string"},
				"created_at": bson.M{"bsonType": "date"},
				"subscription_status": bson.M{"enum": bson.A{
					models.SubscriptionTrialing, models.SubscriptionActive, models.SubscriptionCancelled,
				}},
				"trial_ends_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func membersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"org_id", "email", "role", "created_at"},
			"properties": bson.M{
				"org_id":     nonBlank,
				"email":      nonBlank,
				"role":       bson.M{"enum": bson.A{models.RoleOrgAdmin, models.RoleOrgMember}},
				"created_by": bson.M{"bsonType": "string"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func checklistsSchema() bson.M {
	item := bson.M{
		"bsonType": "object",
		"required": bson.A{"id", "name"},
		"properties": bson.M{
			"id":          nonBlank,
			"name":        nonBlank,
			"description": bson.M{"bsonType": "string"},
		},
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"categories"},
			"properties": bson.M{
				"categories": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"id", "name", "items"},
						"properties": bson.M{
							"id":    nonBlank,
							"name":  nonBlank,
							"icon":  bson.M{"bsonType": "string"},
							"items": bson.M{"bsonType": "array", "items": item},
						},
					},
				},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func inspectionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"org_id", "final_verdict", "items", "submitted_by", "submitted_at"},
			"properties": bson.M{
				"org_id":               nonBlank,
				"vehicle_registration": bson.M{"bsonType": "string"},
				"driver_name":          bson.M{"bsonType": "string"},
				"current_odometer":     bson.M{"bsonType": bson.A{"long", "int", "null"}},
				"inspected_by":         bson.M{"bsonType": "string"},
				"final_verdict":        bson.M{"enum": bson.A{models.VerdictPass, models.VerdictFail}},
				"items": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"id", "status"},
						"properties": bson.M{
							"status": bson.M{"enum": bson.A{
								models.StatusOK, models.StatusNeedsRepair, models.StatusNotOK,
							}},
						},
					},
				},
				"submitted_by": nonBlank,
				"submitted_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

// rosterSchema covers drivers and vehicles, which differ only in the name
// of their value field.
func rosterSchema(field string) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"org_id", field, "created_at"},
			"properties": bson.M{
				"org_id":     nonBlank,
				field:        nonBlank,
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
