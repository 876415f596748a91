// internal/app/features/inspections/handler.go
package inspections

import (
	"net/http"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	inspectionstore "github.com/dalemusser/fleetcheckr/internal/app/store/inspections"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/formutil"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves report submission, review and export.
type Handler struct {
	Svc    *Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc *Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

// submission is the JSON form of POST /inspections.
type submission struct {
	Form       map[string]string `json:"form"`
	Categories []models.Category `json:"categories"`
}

// HandleSubmit stores one inspection. A form post is answered against
// the organization's current checklist; a JSON body may carry the
// checklist it was rendered from.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var in submission
	if formutil.IsJSON(r) {
		if err := formutil.DecodeJSON(w, r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode inspection", err, "Invalid inspection report.")
			return
		}
	} else {
		form, err := formutil.Values(w, r)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse inspection form", err, "Invalid inspection report.")
			return
		}
		in.Form = form
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if in.Categories == nil {
		cats := h.Svc.CurrentChecklist(ctx, id)
		if !cats.IsOk() {
			uierrors.RenderResult(w, cats, http.StatusInternalServerError)
			return
		}
		in.Categories = cats.Data()
	}

	res := h.Svc.SaveInspectionReport(ctx, id, in.Form, in.Categories)
	status := http.StatusBadRequest
	if res.Message() == msgSaveFailed {
		status = http.StatusInternalServerError
	}
	if res.IsOk() {
		uierrors.WriteJSON(w, http.StatusCreated, res)
		return
	}
	uierrors.RenderResult(w, res, status)
}

// ServeReports lists reports, optionally filtered by ?q= and ?verdict=.
func (h *Handler) ServeReports(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	f := inspectionstore.Filter{
		Q:       normalize.QueryParam(r.URL.Query().Get("q")),
		Verdict: r.URL.Query().Get("verdict"),
	}
	res := h.Svc.GetReports(ctx, id, f)
	uierrors.RenderResult(w, res, statusFor(res))
}

// ServeReport returns one report with its answered items.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res := h.Svc.GetReportDetails(ctx, id, chi.URLParam(r, "reportID"))
	uierrors.RenderResult(w, res, statusFor(res))
}

func statusFor[T any](res result.Result[T]) int {
	switch res.Message() {
	case msgReportMissing:
		return http.StatusNotFound
	case msgListFailed, msgReportFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
