// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
)

type body struct {
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// WriteJSON writes v as the JSON response body with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RenderForbidden writes a 403 with a friendly message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	WriteJSON(w, http.StatusForbidden, body{Error: "forbidden", Message: msg})
}

// RenderUnauthorized writes a 401 carrying where the caller should go.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, redirect string) {
	WriteJSON(w, http.StatusUnauthorized, body{Error: "unauthorized", Message: "Please sign in to continue.", Redirect: redirect})
}

// RenderRedirectRequired tells an API caller which page the gate chose.
func RenderRedirectRequired(w http.ResponseWriter, r *http.Request, redirect string) {
	WriteJSON(w, http.StatusForbidden, body{Error: "redirect", Message: "This action is not available for your account.", Redirect: redirect})
}

// RenderBadRequest writes a 400 with msg.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, http.StatusBadRequest, body{Error: "bad_request", Message: msg})
}

// RenderNotFound writes a 404 with msg.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, http.StatusNotFound, body{Error: "not_found", Message: msg})
}

// RenderResult writes res as {success, data?, message?}: 200 when Ok,
// errStatus otherwise.
func RenderResult[T any](w http.ResponseWriter, res result.Result[T], errStatus int) {
	status := http.StatusOK
	if !res.IsOk() {
		status = errStatus
	}
	WriteJSON(w, status, res)
}
