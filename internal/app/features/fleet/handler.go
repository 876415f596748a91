// internal/app/features/fleet/handler.go
package fleet

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	fleetstore "github.com/dalemusser/fleetcheckr/internal/app/store/fleet"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/formutil"
	"github.com/dalemusser/fleetcheckr/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/limits"
	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves one roster kind.
type Handler[T fleetstore.Entry] struct {
	Svc    *Service[T]
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler[T fleetstore.Entry](svc *Service[T], errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler[T] {
	return &Handler[T]{Svc: svc, ErrLog: errLog, Log: logger}
}

// addInput accepts {"value": ...} or the kind's own field name
// ({"name": ...} for drivers, {"registration": ...} for vehicles).
type addInput struct {
	Value        string `json:"value"`
	Name         string `json:"name"`
	Registration string `json:"registration"`
}

func (in addInput) pick() string {
	for _, v := range []string{in.Value, in.Name, in.Registration} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ServeList returns the roster. With ?after= (or ?paged=1) it returns one
// keyset page instead.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	q := r.URL.Query()
	if q.Has("after") || q.Get("paged") == "1" {
		res := h.Svc.ListPage(ctx, id, normalize.QueryParam(q.Get("after")))
		uierrors.RenderResult(w, res, statusFor(res))
		return
	}
	res := h.Svc.List(ctx, id)
	uierrors.RenderResult(w, res, statusFor(res))
}

// HandleAdd adds one entry from a JSON body or a form post.
func (h *Handler[T]) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var in addInput
	if formutil.IsJSON(r) {
		if err := formutil.DecodeJSON(w, r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode roster entry", err, "Invalid request.")
			return
		}
	} else {
		form, err := formutil.Values(w, r)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "parse roster form", err, "Invalid request.")
			return
		}
		in = addInput{Value: form["value"], Name: form["name"], Registration: form["registration"]}
	}
	value := formutil.Truncate(htmlsanitize.PlainText(in.pick()), limits.MaxNameLength)

	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res := h.Svc.Add(ctx, id, value)
	if res.IsOk() {
		uierrors.WriteJSON(w, http.StatusCreated, res)
		return
	}
	uierrors.RenderResult(w, res, statusFor(res))
}

// HandleDelete removes one entry.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	res := h.Svc.Delete(ctx, id, chi.URLParam(r, "id"))
	uierrors.RenderResult(w, res, statusFor(res))
}

func statusFor[R any](res result.Result[R]) int {
	msg := res.Message()
	switch {
	case strings.HasSuffix(msg, " not found.") && msg != msgNoOrg:
		return http.StatusNotFound
	case strings.HasSuffix(msg, " already exists."):
		return http.StatusConflict
	case strings.HasPrefix(msg, "Could not"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
