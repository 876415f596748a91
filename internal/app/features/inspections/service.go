// internal/app/features/inspections/service.go
package inspections

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	inspectionstore "github.com/dalemusser/fleetcheckr/internal/app/store/inspections"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	engine "github.com/dalemusser/fleetcheckr/internal/app/system/checklist"
	"github.com/dalemusser/fleetcheckr/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/limits"
	"github.com/dalemusser/fleetcheckr/internal/app/system/metrics"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Form field names posted by the inspection form.
const (
	FieldVehicle  = "vehicleRegistration"
	FieldDriver   = "driverName"
	FieldOdometer = "currentOdometer"
	FieldOfficer  = "inspectedBy"
	FieldVerdict  = "finalVerdict"
)

// Store is the report persistence the service needs.
type Store interface {
	Create(ctx context.Context, r models.InspectionReport) (models.InspectionReport, error)
	ListByOrg(ctx context.Context, orgID string, f inspectionstore.Filter) ([]models.InspectionReport, error)
	ListAllByOrg(ctx context.Context, orgID string) ([]models.InspectionReport, error)
	GetByID(ctx context.Context, orgID string, id primitive.ObjectID) (models.InspectionReport, error)
}

// ChecklistSource supplies an organization's current checklist.
type ChecklistSource interface {
	GetChecklist(ctx context.Context, orgID string, isSuperAdmin bool) result.Result[[]models.Category]
}

// Service writes and reads inspection reports.
type Service struct {
	store     Store
	checklist ChecklistSource
	metrics   *metrics.Metrics
	audit     *auditlog.Logger
	log       *zap.Logger
}

// NewService constructs a Service. metrics and audit may be nil.
func NewService(store Store, checklist ChecklistSource, m *metrics.Metrics, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{store: store, checklist: checklist, metrics: m, audit: audit, log: logger}
}

// Timestamp is a point in time split into whole seconds and the
// nanosecond remainder.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds"`
}

// TimestampOf converts t.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// ReportSummary is one row of the report list.
type ReportSummary struct {
	ID                  string    `json:"id"`
	VehicleRegistration string    `json:"vehicle_registration"`
	DriverName          string    `json:"driver_name"`
	CurrentOdometer     *int64    `json:"current_odometer"`
	InspectedBy         string    `json:"inspected_by"`
	FinalVerdict        string    `json:"final_verdict"`
	SubmittedAt         Timestamp `json:"submitted_at"`
}

// ReportDetail is a summary plus the answered checklist snapshot.
type ReportDetail struct {
	ReportSummary
	SubmittedBy string                            `json:"submitted_by"`
	Items       []models.InspectionItemWithStatus `json:"items"`
}

func summarize(r models.InspectionReport) ReportSummary {
	return ReportSummary{
		ID:                  r.ID.Hex(),
		VehicleRegistration: r.VehicleRegistration,
		DriverName:          r.DriverName,
		CurrentOdometer:     r.CurrentOdometer,
		InspectedBy:         r.InspectedBy,
		FinalVerdict:        r.FinalVerdict,
		SubmittedAt:         TimestampOf(r.SubmittedAt),
	}
}

const (
	msgNoUserOrOrg   = "User or organization not found."
	msgNoOrg         = "Organization not found."
	msgBadVerdict    = "Final verdict must be PASS or FAIL."
	msgNoVehicle     = "Vehicle registration is required."
	msgNoDriver      = "Driver name is required."
	msgNotesTooLong  = "Notes must be 200 characters or less."
	msgSaveFailed    = "Could not save inspection report."
	msgSaved         = "Inspection report saved successfully."
	msgListFailed    = "Could not load reports."
	msgReportMissing = "Report not found."
	msgReportFailed  = "Could not load report."
)

// itemStatus maps a posted status onto the stored vocabulary. Anything
// unrecognised, including no answer, becomes "not ok".
func itemStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok":
		return models.StatusOK
	case "needs repair":
		return models.StatusNeedsRepair
	default:
		return models.StatusNotOK
	}
}

// parseOdometer returns nil for anything that is not a whole number.
func parseOdometer(s string) *int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Errors returned by BuildReport.
var (
	ErrBadVerdict   = errors.New("invalid final verdict")
	ErrNoVehicle    = errors.New("vehicle registration is required")
	ErrNoDriver     = errors.New("driver name is required")
	ErrNotesTooLong = errors.New("item notes too long")
)

// BuildReport assembles the report document from a posted form and the
// checklist it was answered against.
func BuildReport(userID, orgID string, form map[string]string, categories []models.Category) (models.InspectionReport, error) {
	verdict := normalize.Verdict(form[FieldVerdict])
	if verdict == "" {
		return models.InspectionReport{}, ErrBadVerdict
	}
	vehicle := normalize.Registration(htmlsanitize.PlainText(form[FieldVehicle]))
	if vehicle == "" {
		return models.InspectionReport{}, ErrNoVehicle
	}
	driver := normalize.DriverName(htmlsanitize.PlainText(form[FieldDriver]))
	if driver == "" {
		return models.InspectionReport{}, ErrNoDriver
	}

	flat := engine.Flatten(categories)
	items := make([]models.InspectionItemWithStatus, 0, len(flat))
	for _, it := range flat {
		notes := strings.TrimSpace(htmlsanitize.PlainText(form[it.ItemID+"_notes"]))
		if utf8.RuneCountInString(notes) > limits.MaxReportNotesLength {
			return models.InspectionReport{}, ErrNotesTooLong
		}
		items = append(items, models.InspectionItemWithStatus{
			ID:           it.ItemID,
			Name:         it.Name,
			Description:  it.Description,
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			Status:       itemStatus(form[it.ItemID+"_status"]),
			Notes:        notes,
		})
	}

	return models.InspectionReport{
		OrgID:               orgID,
		VehicleRegistration: vehicle,
		DriverName:          driver,
		CurrentOdometer:     parseOdometer(form[FieldOdometer]),
		InspectedBy:         normalize.Officer(htmlsanitize.PlainText(form[FieldOfficer])),
		FinalVerdict:        verdict,
		Items:               items,
		SubmittedBy:         userID,
	}, nil
}

func buildErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoVehicle):
		return msgNoVehicle
	case errors.Is(err, ErrNoDriver):
		return msgNoDriver
	case errors.Is(err, ErrNotesTooLong):
		return msgNotesTooLong
	default:
		return msgBadVerdict
	}
}

// SaveInspectionReport stores one submitted inspection. categories is the
// checklist the form was rendered from; it is snapshotted into the report.
func (s *Service) SaveInspectionReport(ctx context.Context, id identity.Identity, form map[string]string, categories []models.Category) result.Result[string] {
	if id.UserID == "" || id.OrgID == "" {
		return result.Err[string](msgNoUserOrOrg)
	}

	report, err := BuildReport(id.UserID, id.OrgID, form, categories)
	if err != nil {
		return result.Err[string](buildErrorMessage(err))
	}

	saved, err := s.store.Create(ctx, report)
	if err != nil {
		s.log.Error("save inspection report failed", zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[string](msgSaveFailed)
	}

	s.metrics.ReportSubmitted(saved.FinalVerdict)
	s.audit.ReportSubmitted(ctx, id.UserID, id.OrgID, saved.ID.Hex(), saved.FinalVerdict)
	return result.OkMsg(saved.ID.Hex(), msgSaved)
}

// CurrentChecklist returns the categories a new report is answered against.
func (s *Service) CurrentChecklist(ctx context.Context, id identity.Identity) result.Result[[]models.Category] {
	return s.checklist.GetChecklist(ctx, id.OrgID, false)
}

// GetReports lists the caller's organization's reports, newest first.
func (s *Service) GetReports(ctx context.Context, id identity.Identity, f inspectionstore.Filter) result.Result[[]ReportSummary] {
	if id.OrgID == "" {
		return result.Err[[]ReportSummary](msgNoOrg)
	}
	if f.Verdict != "" {
		f.Verdict = normalize.Verdict(f.Verdict)
	}
	rows, err := s.store.ListByOrg(ctx, id.OrgID, f)
	if err != nil {
		s.log.Error("list reports failed", zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[[]ReportSummary](msgListFailed)
	}
	out := make([]ReportSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, summarize(r))
	}
	return result.Ok(out)
}

// GetAllReportsForExport returns every report of the organization with
// its item snapshot.
func (s *Service) GetAllReportsForExport(ctx context.Context, id identity.Identity) result.Result[[]models.InspectionReport] {
	if id.OrgID == "" {
		return result.Err[[]models.InspectionReport](msgNoOrg)
	}
	rows, err := s.store.ListAllByOrg(ctx, id.OrgID)
	if err != nil {
		s.log.Error("list reports for export failed", zap.String("org_id", id.OrgID), zap.Error(err))
		return result.Err[[]models.InspectionReport](msgListFailed)
	}
	return result.Ok(rows)
}

// GetReportDetails loads one report. A missing report and a failed
// lookup produce different messages.
func (s *Service) GetReportDetails(ctx context.Context, id identity.Identity, reportID string) result.Result[ReportDetail] {
	if id.OrgID == "" {
		return result.Err[ReportDetail](msgNoOrg)
	}
	oid, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		return result.Err[ReportDetail](msgReportMissing)
	}
	r, err := s.store.GetByID(ctx, id.OrgID, oid)
	if errors.Is(err, inspectionstore.ErrNotFound) {
		return result.Err[ReportDetail](msgReportMissing)
	}
	if err != nil {
		s.log.Error("load report failed", zap.String("org_id", id.OrgID), zap.String("report_id", reportID), zap.Error(err))
		return result.Err[ReportDetail](msgReportFailed)
	}
	items := r.Items
	if items == nil {
		items = []models.InspectionItemWithStatus{}
	}
	return result.Ok(ReportDetail{ReportSummary: summarize(r), SubmittedBy: r.SubmittedBy, Items: items})
}
