// internal/app/features/organizations/handler.go
package organizations

import (
	"net/http"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/formutil"
	"github.com/dalemusser/fleetcheckr/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/limits"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Organizations.
type Handler struct {
	Svc    *Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a new Organizations handler.
func NewHandler(svc *Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

type provisionInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleCreate provisions an organization and invites its first admin.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in provisionInput
	if formutil.IsJSON(r) {
		if err := formutil.DecodeJSON(w, r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode provision request", err, "Invalid request.")
			return
		}
	} else {
		form, err := formutil.Values(w, r)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse provision form", err, "Invalid request.")
			return
		}
		in = provisionInput{Name: form["name"], Email: form["email"]}
	}
	in.Name = formutil.Truncate(htmlsanitize.PlainText(in.Name), limits.MaxNameLength)

	id, _ := auth.CurrentIdentity(r)
	// several provider round trips
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	res := h.Svc.Provision(ctx, id, in.Name, in.Email)
	switch {
	case res.IsOk():
		uierrors.WriteJSON(w, http.StatusCreated, res)
	case res.Message() == msgExists:
		uierrors.RenderResult(w, res, http.StatusConflict)
	case res.Message() == msgUnauthorized:
		uierrors.RenderResult(w, res, http.StatusForbidden)
	case res.Message() == msgFailed:
		uierrors.RenderResult(w, res, http.StatusBadGateway)
	default:
		uierrors.RenderResult(w, res, http.StatusBadRequest)
	}
}

// ServeList returns all organizations for the super admin.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	res := h.Svc.ListOrganizations(ctx, id)
	uierrors.RenderResult(w, res, errStatus(res))
}

// ServeMembers lists the caller's organization members from the provider.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	res := h.Svc.ListMembers(ctx, id)
	uierrors.RenderResult(w, res, errStatus(res))
}

func errStatus[T any](res result.Result[T]) int {
	switch res.Message() {
	case msgUnauthorized:
		return http.StatusForbidden
	case msgNoOrg:
		return http.StatusBadRequest
	case msgListFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
