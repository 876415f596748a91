// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
)

// Handler is the errors feature handler. No DB needed.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden is the landing target for rejected requests.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "")
}

// WaitList is where signed-in users with no organization are sent.
// GET /wait-list
func (h *Handler) WaitList(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, body{
		Error:   "",
		Message: "Your account is not yet part of an organization. You will get access once an administrator invites you.",
	})
}

// NotFound renders unknown routes as JSON.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, body{Error: "not_found", Message: "Page not found."})
}
