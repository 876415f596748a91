// internal/app/features/billing/handler.go
package billing

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/formutil"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Svc    *Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc *Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

type initializeInput struct {
	Email string `json:"email"`
}

// HandleInitialize starts checkout and returns {url, reference}.
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	var in initializeInput
	if formutil.IsJSON(r) {
		if err := formutil.DecodeJSON(w, r, &in); err != nil && !errors.Is(err, formutil.ErrEmptyBody) {
			h.ErrLog.LogBadRequest(w, r, "decode billing initialize", err, "Invalid request.")
			return
		}
	}

	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	res := h.Svc.Initialize(ctx, id, in.Email)
	if !res.IsOk() {
		status := http.StatusBadRequest
		if res.Message() == msgGateway {
			status = http.StatusBadGateway
		}
		uierrors.WriteJSON(w, status, map[string]string{"error": res.Message()})
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res.Data())
}

// ServeCallback is where the gateway sends the payer back. On success the
// browser is redirected to the landing page.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	res := h.Svc.VerifyAndSubscribe(ctx, id, r.URL.Query().Get("reference"))
	if res.IsOk() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	status := http.StatusBadRequest
	switch res.Message() {
	case msgGateway:
		status = http.StatusBadGateway
	case msgUpdateFailed:
		status = http.StatusInternalServerError
	}
	uierrors.WriteJSON(w, status, map[string]string{"error": res.Message()})
}
