package checklist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/features/checklist"
	checkliststore "github.com/dalemusser/fleetcheckr/internal/app/store/checklists"
	engine "github.com/dalemusser/fleetcheckr/internal/app/system/checklist"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

const superOrg = "org_super"

type memStore struct {
	docs    map[string][]models.Category
	puts    int
	failGet error
	failPut error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]models.Category{}}
}

func (m *memStore) Get(_ context.Context, orgID string) (models.Checklist, error) {
	if m.failGet != nil {
		return models.Checklist{}, m.failGet
	}
	cats, ok := m.docs[orgID]
	if !ok {
		return models.Checklist{}, checkliststore.ErrNotFound
	}
	return models.Checklist{OrgID: orgID, Categories: engine.Clone(cats)}, nil
}

func (m *memStore) Put(_ context.Context, orgID string, cats []models.Category) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.puts++
	m.docs[orgID] = engine.Clone(cats)
	return nil
}

func newService(store *memStore) *checklist.Service {
	return checklist.NewService(store, superOrg, nil, zap.NewNop())
}

func TestGetChecklist_SeedsDefault(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := svc.GetChecklist(ctx, "org_a", false)
	if !res.IsOk() {
		t.Fatalf("GetChecklist: %s", res.Message())
	}
	if diff := cmp.Diff(engine.DefaultTemplate(), res.Data()); diff != "" {
		t.Errorf("seeded checklist mismatch (-want +got):\n%s", diff)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}

	// second read returns the stored copy without writing again
	svc.GetChecklist(ctx, "org_a", false)
	if store.puts != 1 {
		t.Errorf("puts after second read = %d, want 1", store.puts)
	}
}

func TestGetChecklist_SuperAdminGetsTemplate(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := svc.GetChecklist(ctx, "", true)
	if !res.IsOk() {
		t.Fatalf("GetChecklist: %s", res.Message())
	}
	if len(res.Data()) != len(engine.DefaultTemplate()) {
		t.Errorf("got %d categories", len(res.Data()))
	}
	if store.puts != 0 {
		t.Errorf("super admin read wrote %d times", store.puts)
	}
}

func TestGetChecklist_MalformedDocumentReplaced(t *testing.T) {
	store := newMemStore()
	store.docs["org_a"] = nil
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := svc.GetChecklist(ctx, "org_a", false)
	if !res.IsOk() || len(res.Data()) == 0 {
		t.Fatalf("expected default template, got %+v", res)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}
}

func TestGetChecklist_StoreError(t *testing.T) {
	store := newMemStore()
	store.failGet = errors.New("boom")
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := svc.GetChecklist(ctx, "org_a", false)
	if res.IsOk() {
		t.Fatal("expected error")
	}
	if res.Message() != "Could not load checklist." {
		t.Errorf("message = %q", res.Message())
	}
}

func TestSetChecklist_RefusesReservedOrg(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := svc.SetChecklist(ctx, superOrg, engine.DefaultTemplate())
	if res.IsOk() {
		t.Fatal("expected reserved org to be refused")
	}
	if store.puts != 0 {
		t.Errorf("reserved org was written")
	}

	if res := svc.SetChecklist(ctx, "", nil); res.IsOk() {
		t.Error("expected empty org to be refused")
	}
}

func TestApply_MutationErrors(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	tests := []struct {
		name string
		fn   checklist.Mutation
		want string
	}{
		{
			name: "missing category",
			fn: func(c []models.Category) ([]models.Category, error) {
				return engine.DeleteCategory(c, "nope")
			},
			want: "Category not found.",
		},
		{
			name: "missing item",
			fn: func(c []models.Category) ([]models.Category, error) {
				return engine.DeleteItem(c, c[0].ID, "nope")
			},
			want: "Item not found.",
		},
		{
			name: "blank name",
			fn: func(c []models.Category) ([]models.Category, error) {
				out, _, err := engine.AddCategory(c, "  ", "")
				return out, err
			},
			want: "Name is required.",
		},
		{
			name: "cross category",
			fn: func(c []models.Category) ([]models.Category, error) {
				return engine.MoveItem(c, c[0].ID, c[1].ID, 0, 0)
			},
			want: "Items can only be reordered within their own category.",
		},
		{
			name: "bad index",
			fn: func(c []models.Category) ([]models.Category, error) {
				return engine.MoveCategory(c, 0, 99)
			},
			want: "Invalid position.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.Apply(ctx, id, tc.fn)
			if res.IsOk() {
				t.Fatal("expected error")
			}
			if res.Message() != tc.want {
				t.Errorf("message = %q, want %q", res.Message(), tc.want)
			}
		})
	}
}

func TestApply_AddCategoryPersists(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	res := svc.Apply(ctx, id, func(c []models.Category) ([]models.Category, error) {
		out, _, err := engine.AddCategory(c, "Trailer", "Truck")
		return out, err
	})
	if !res.IsOk() {
		t.Fatalf("Apply: %s", res.Message())
	}
	stored := store.docs["org_a"]
	last := stored[len(stored)-1]
	if last.Name != "Trailer" || last.Icon != "Truck" {
		t.Errorf("last category = %+v", last)
	}
	if len(stored) != len(engine.DefaultTemplate())+1 {
		t.Errorf("stored %d categories", len(stored))
	}
}

func TestReplace_RejectsDuplicateIDs(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cats := []models.Category{
		{ID: "a", Name: "A", Icon: "Cog", Items: []models.Item{{ID: "a", Name: "dup"}}},
	}
	res := svc.Replace(ctx, testutil.AdminIdentity("org_a"), cats)
	if res.IsOk() {
		t.Fatal("expected duplicate ids to be rejected")
	}
	if store.puts != 0 {
		t.Error("invalid checklist was written")
	}
}

func TestGetChecklist_SuperAdminTemplateIsStable(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := engine.DefaultTemplate()
	for _, org := range []string{"", "org_a", "org_b", superOrg} {
		for i := 0; i < 2; i++ {
			res := svc.GetChecklist(ctx, org, true)
			if !res.IsOk() {
				t.Fatalf("GetChecklist(%q): %s", org, res.Message())
			}
			if diff := cmp.Diff(want, res.Data()); diff != "" {
				t.Errorf("GetChecklist(%q) call %d mismatch (-want +got):\n%s", org, i, diff)
			}
		}
	}

	// mutating a returned copy must not leak into later reads
	first := svc.GetChecklist(ctx, "org_a", true).Data()
	first[0].Items = nil
	if diff := cmp.Diff(want, svc.GetChecklist(ctx, "org_a", true).Data()); diff != "" {
		t.Errorf("template changed after caller mutation (-want +got):\n%s", diff)
	}
}

func TestSetThenGet_RoundTrip(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cats := []models.Category{
		{ID: "cab", Name: "Cab", Icon: "Cog", Items: []models.Item{
			{ID: "horn", Name: "Horn", Description: "Works"},
			{ID: "wipers", Name: "Wipers"},
		}},
		{ID: "tyres", Name: "Tyres", Icon: "Circle", Items: []models.Item{}},
	}
	if res := svc.SetChecklist(ctx, "org_a", cats); !res.IsOk() {
		t.Fatalf("SetChecklist: %s", res.Message())
	}

	res := svc.GetChecklist(ctx, "org_a", false)
	if !res.IsOk() {
		t.Fatalf("GetChecklist: %s", res.Message())
	}
	if diff := cmp.Diff(cats, res.Data()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}
}

func TestApply_DeleteCategoryThenGet(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	before := svc.GetChecklist(ctx, "org_a", false).Data()
	victim := before[0]

	res := svc.Apply(ctx, id, func(c []models.Category) ([]models.Category, error) {
		return engine.DeleteCategory(c, victim.ID)
	})
	if !res.IsOk() {
		t.Fatalf("Apply: %s", res.Message())
	}

	after := svc.GetChecklist(ctx, "org_a", false)
	if !after.IsOk() {
		t.Fatalf("GetChecklist: %s", after.Message())
	}
	if diff := cmp.Diff(before[1:], after.Data()); diff != "" {
		t.Errorf("checklist after delete mismatch (-want +got):\n%s", diff)
	}

	gone := map[string]bool{}
	for _, it := range victim.Items {
		gone[it.ID] = true
	}
	for _, it := range engine.Flatten(after.Data()) {
		if gone[it.ItemID] {
			t.Errorf("item %q of deleted category %q still present", it.ItemID, victim.ID)
		}
	}
}
