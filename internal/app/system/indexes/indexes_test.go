package indexes_test

import (
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/system/indexes"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bson.M {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes on %s: %v", coll, err)
	}
	defer cur.Close(ctx)

	out := map[string]bson.M{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode: %v", err)
		}
		out[idx["name"].(string)] = idx
	}
	return out
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesTenantIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	want := map[string][]string{
		"organizations": {"uniq_organizations_slug"},
		"drivers":       {"uniq_drivers_org_name", "idx_drivers_org_created"},
		"vehicles":      {"uniq_vehicles_org_registration", "idx_vehicles_org_created"},
		"inspections":   {"idx_inspections_org_submitted"},
		"audit_events":  {"idx_audit_org_time"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, n := range names {
			if _, ok := got[n]; !ok {
				t.Errorf("%s: missing index %q (have %v)", coll, n, got)
			}
		}
	}

	if u, _ := indexNames(t, db, "organizations")["uniq_organizations_slug"]["unique"].(bool); !u {
		t.Error("slug index should be unique")
	}
}

func TestEnsureAll_RenamesIndexWithSameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("organizations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("legacy_slug").SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	got := indexNames(t, db, "organizations")
	if _, ok := got["legacy_slug"]; ok {
		t.Error("legacy index should have been replaced")
	}
	if _, ok := got["uniq_organizations_slug"]; !ok {
		t.Error("desired index missing after rename")
	}
}

func TestEnsureAll_UniqueFailsOnDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgs := db.Collection("organizations")
	for _, id := range []string{"org_a", "org_b"} {
		if _, err := orgs.InsertOne(ctx, bson.M{"_id": id, "slug": "same"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if err := indexes.EnsureAll(ctx, db); err == nil {
		t.Fatal("expected an error when duplicates block a unique index")
	}
}
