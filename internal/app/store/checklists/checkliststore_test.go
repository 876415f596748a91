package checkliststore_test

import (
	"errors"
	"testing"

	checkliststore "github.com/dalemusser/fleetcheckr/internal/app/store/checklists"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := checkliststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "org_1"); !errors.Is(err, checkliststore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := checkliststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := []models.Category{{ID: "c1", Name: "Cab", Icon: "Cog", Items: []models.Item{{ID: "i1", Name: "Mirrors"}}}}
	second := []models.Category{
		{ID: "c2", Name: "Trailer", Icon: "Trailer", Items: []models.Item{}},
		{ID: "c1", Name: "Cab", Icon: "Cog", Items: []models.Item{{ID: "i2", Name: "Horn", Description: "Audible"}}},
	}

	if err := store.Put(ctx, "org_1", first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := store.Put(ctx, "org_1", second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := store.Get(ctx, "org_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(second, got.Categories, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt")
	}

	n, _ := db.Collection("checklists").CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("documents = %d, want 1", n)
	}
}

func TestStore_GetMalformed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := checkliststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := db.Collection("checklists").InsertOne(ctx, bson.M{"_id": "org_1"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "org_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Categories != nil {
		t.Errorf("Categories = %v, want nil", got.Categories)
	}
}
