package organizationstore_test

import (
	"errors"
	"testing"
	"time"

	organizationstore "github.com/dalemusser/fleetcheckr/internal/app/store/organizations"
	"github.com/dalemusser/fleetcheckr/internal/app/system/indexes"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{
		ID: "org_1", Name: "Acme Haulage", Slug: "acme-haulage", CreatedBy: "user_root",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Plan != models.PlanFree {
		t.Errorf("Plan = %q, want free", created.Plan)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, "org_1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Acme Haulage" || got.Slug != "acme-haulage" {
		t.Errorf("unexpected org: %+v", got)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ExistsBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.NewFixtures(t, db).CreateOrganization(ctx, "org_1", "Acme Haulage")

	exists, err := store.ExistsBySlug(ctx, "acme-haulage")
	if err != nil || !exists {
		t.Errorf("ExistsBySlug(acme-haulage) = %v, %v; want true", exists, err)
	}
	exists, err = store.ExistsBySlug(ctx, "other")
	if err != nil || exists {
		t.Errorf("ExistsBySlug(other) = %v, %v; want false", exists, err)
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	if _, err := store.Create(ctx, models.Organization{ID: "a", Name: "A", Slug: "same"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{ID: "b", Name: "B", Slug: "same"})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Errorf("err = %v, want ErrDuplicateOrganization", err)
	}
}

func TestStore_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := time.Now().Add(-time.Hour).UTC()
	if _, err := store.Create(ctx, models.Organization{ID: "old", Name: "Old", Slug: "old", CreatedAt: old}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, models.Organization{ID: "new", Name: "New", Slug: "new"}); err != nil {
		t.Fatal(err)
	}

	orgs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orgs) != 2 || orgs[0].ID != "new" {
		t.Errorf("List order wrong: %+v", orgs)
	}
	n, err := store.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
}

func TestStore_UpdateSubscription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.NewFixtures(t, db).CreateOrganization(ctx, "org_1", "Acme")

	trialEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Millisecond)
	err := store.UpdateSubscription(ctx, "org_1", organizationstore.Subscription{
		Plan: models.PlanPro, Status: models.SubscriptionTrialing, TrialEndsAt: trialEnd,
		SubscriptionCode: "SUB_1", CustomerCode: "CUS_1",
	})
	if err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}

	got, _ := store.GetByID(ctx, "org_1")
	if got.Plan != models.PlanPro || got.SubscriptionStatus != models.SubscriptionTrialing {
		t.Errorf("plan/status = %q/%q", got.Plan, got.SubscriptionStatus)
	}
	if got.TrialEndsAt == nil || !got.TrialEndsAt.Equal(trialEnd) {
		t.Errorf("TrialEndsAt = %v, want %v", got.TrialEndsAt, trialEnd)
	}
	if got.SubscriptionCode != "SUB_1" || got.CustomerCode != "CUS_1" {
		t.Errorf("codes = %q/%q", got.SubscriptionCode, got.CustomerCode)
	}

	if err := store.UpdateSubscription(ctx, "missing", organizationstore.Subscription{}); !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("missing org err = %v, want ErrNotFound", err)
	}
}

func TestStore_EnsureReserved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.EnsureReserved(ctx, "SUPER_ORG", "Super Admin")
	if err != nil || !created {
		t.Fatalf("first EnsureReserved = %v, %v; want created", created, err)
	}
	created, err = store.EnsureReserved(ctx, "SUPER_ORG", "Renamed")
	if err != nil || created {
		t.Fatalf("second EnsureReserved = %v, %v; want not created", created, err)
	}
	got, _ := store.GetByID(ctx, "SUPER_ORG")
	if got.Name != "Super Admin" {
		t.Errorf("existing record should be untouched, name = %q", got.Name)
	}
}
