package fleet_test

import (
	"testing"
	"time"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/features/fleet"
	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	fleetstore "github.com/dalemusser/fleetcheckr/internal/app/store/fleet"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/fleetcheckr/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	db       *mongo.Database
	drivers  *fleet.Service[models.Driver]
	vehicles *fleet.Service[models.Vehicle]
	audits   *audit.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	audits := audit.New(db)
	al := auditlog.New(audits, logger, auditlog.Config{Admin: auditlog.ToDB})
	return env{
		db:       db,
		drivers:  fleet.NewService[models.Driver](fleetstore.NewDrivers(db), fleet.DriverEvents, al, logger),
		vehicles: fleet.NewService[models.Vehicle](fleetstore.NewVehicles(db), fleet.VehicleEvents, al, logger),
		audits:   audits,
	}
}

func TestAddDriver_NormalizesAndAudits(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	res := e.drivers.Add(ctx, id, "  jANE   doe ")
	if !res.IsOk() {
		t.Fatalf("Add: %s", res.Message())
	}
	if got := res.Data().Name; got != "Jane Doe" {
		t.Errorf("name = %q, want %q", got, "Jane Doe")
	}

	n, err := e.audits.Count(ctx, audit.QueryFilter{OrgID: "org_a", EventType: audit.EventDriverAdded})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("driver_added events = %d, want 1", n)
	}
}

func TestAddVehicle_DuplicateAndEmpty(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	if res := e.vehicles.Add(ctx, id, "ab-12 cd"); !res.IsOk() {
		t.Fatalf("Add: %s", res.Message())
	}
	if res := e.vehicles.Add(ctx, id, "AB12CD"); res.Message() != "Vehicle already exists." {
		t.Errorf("duplicate: %q", res.Message())
	}
	if res := e.vehicles.Add(ctx, id, " - "); res.Message() != "Vehicle is required." {
		t.Errorf("empty: %q", res.Message())
	}
	// same registration in another org is fine
	if res := e.vehicles.Add(ctx, testutil.AdminIdentity("org_b"), "AB12CD"); !res.IsOk() {
		t.Errorf("other org: %s", res.Message())
	}
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id := testutil.AdminIdentity("org_a")

	added := e.drivers.Add(ctx, id, "Bob")
	entryID := added.Data().ID.Hex()

	if res := e.drivers.Delete(ctx, testutil.AdminIdentity("org_b"), entryID); res.Message() != "Driver not found." {
		t.Errorf("cross-org delete: %q", res.Message())
	}
	if res := e.drivers.Delete(ctx, id, "zzz"); res.IsOk() {
		t.Error("expected invalid id to fail")
	}
	if res := e.drivers.Delete(ctx, id, entryID); !res.IsOk() {
		t.Fatalf("Delete: %s", res.Message())
	}
	if res := e.drivers.List(ctx, id); len(res.Data()) != 0 {
		t.Errorf("roster still has %d entries", len(res.Data()))
	}
}

func TestListPage(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, e.db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		f.CreateDriver(ctx, "org_a", "Driver "+string(rune('A'+i)), base.Add(time.Duration(i)*time.Minute))
	}
	id := testutil.MemberIdentity("org_a")

	first := e.drivers.ListPage(ctx, id, "")
	if !first.IsOk() {
		t.Fatalf("ListPage: %s", first.Message())
	}
	if len(first.Data().Items) != 10 || first.Data().Next == "" {
		t.Fatalf("first page: %d items, next %q", len(first.Data().Items), first.Data().Next)
	}
	second := e.drivers.ListPage(ctx, id, first.Data().Next)
	if len(second.Data().Items) != 2 || second.Data().Next != "" {
		t.Errorf("second page: %d items, next %q", len(second.Data().Items), second.Data().Next)
	}

	if res := e.drivers.ListPage(ctx, id, "garbage"); res.Message() != "Invalid page cursor." {
		t.Errorf("bad cursor: %q", res.Message())
	}
}

func TestMissingOrg(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if res := e.drivers.Add(ctx, testutil.SuperAdminIdentity(), "Bob"); res.Message() != "Organization not found." {
		t.Errorf("Add without org: %q", res.Message())
	}
}

func newHandlers(t *testing.T) (*fleet.Handler[models.Driver], *fleet.Handler[models.Vehicle]) {
	t.Helper()
	e := newEnv(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return fleet.NewHandler(e.drivers, errLog, logger), fleet.NewHandler(e.vehicles, errLog, logger)
}
