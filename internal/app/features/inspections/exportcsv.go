// internal/app/features/inspections/exportcsv.go
package inspections

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	engine "github.com/dalemusser/fleetcheckr/internal/app/system/checklist"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.uber.org/zap"
)

const csvDateLayout = "2006-01-02 15:04:05"

// ExportFilename is the attachment name for an export made at t.
func ExportFilename(t time.Time) string {
	return "vehicle-check-reports-" + t.UTC().Format("2006-01-02") + ".csv"
}

// WriteReportsCSV writes reports as CSV. The item columns follow the
// organization's current checklist, so items removed since a report was
// submitted are not exported and items added since show N/A.
func WriteReportsCSV(w io.Writer, reports []models.InspectionReport, categories []models.Category) error {
	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	items := engine.Flatten(categories)
	header := []string{"Report ID", "Vehicle Registration", "Driver Name", "Odometer", "Date", "Final Verdict"}
	for _, it := range items {
		header = append(header, it.Name+" - Status", it.Name+" - Notes")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range reports {
		answered := make(map[string]models.InspectionItemWithStatus, len(r.Items))
		for _, a := range r.Items {
			answered[a.ID] = a
		}

		odometer := ""
		if r.CurrentOdometer != nil {
			odometer = strconv.FormatInt(*r.CurrentOdometer, 10)
		}
		row := []string{
			r.ID.Hex(),
			sanitizeCSVField(r.VehicleRegistration),
			sanitizeCSVField(r.DriverName),
			odometer,
			r.SubmittedAt.UTC().Format(csvDateLayout),
			r.FinalVerdict,
		}
		for _, it := range items {
			a, ok := answered[it.ItemID]
			status := a.Status
			if !ok || status == "" {
				status = "N/A"
			}
			row = append(row, status, sanitizeCSVField(a.Notes))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// sanitizeCSVField keeps spreadsheet apps from evaluating a cell as a formula.
func sanitizeCSVField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

// ServeExport streams every report of the caller's organization as CSV.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch)
	defer cancel()

	reports := h.Svc.GetAllReportsForExport(ctx, id)
	if !reports.IsOk() {
		h.ErrLog.LogServerError(w, r, "export reports failed", errors.New(reports.Message()), reports.Message())
		return
	}
	cats := h.Svc.CurrentChecklist(ctx, id)
	if !cats.IsOk() {
		h.ErrLog.LogServerError(w, r, "load checklist for export failed", errors.New(cats.Message()), cats.Message())
		return
	}

	filename := ExportFilename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if err := WriteReportsCSV(w, reports.Data(), cats.Data()); err != nil {
		h.Log.Error("CSV write failed", zap.String("org_id", id.OrgID), zap.Error(err))
	}
}
