package memberstore_test

import (
	"testing"

	memberstore "github.com/dalemusser/fleetcheckr/internal/app/store/members"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
)

func TestStore_CreateAndListByOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Create(ctx, models.Member{OrgID: "org_1", Email: "a@example.com", Role: models.RoleOrgAdmin, CreatedBy: "root"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID.IsZero() || m.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be assigned")
	}
	if _, err := store.Create(ctx, models.Member{OrgID: "org_2", Email: "b@example.com", Role: models.RoleOrgMember}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.ListByOrg(ctx, "org_1")
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(got) != 1 || got[0].Email != "a@example.com" {
		t.Errorf("ListByOrg(org_1) = %+v", got)
	}

	empty, err := store.ListByOrg(ctx, "org_none")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListByOrg(org_none) = %v, %v; want empty non-nil", empty, err)
	}
}
