package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b
}

func TestRenderForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderForbidden(rec, httptest.NewRequest("GET", "/x", nil), "")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if b := decode(t, rec); b.Error != "forbidden" || b.Message == "" {
		t.Errorf("body = %+v", b)
	}
}

func TestLogServerError_HidesCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("POST", "/reports", nil), "insert report failed",
		errors.New("connection reset by peer"), "Could not save report.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Error("underlying error leaked to client")
	}
	if b := decode(t, rec); b.Message != "Could not save report." {
		t.Errorf("message = %q", b.Message)
	}
	if logs.Len() != 1 || logs.All()[0].Message != "insert report failed" {
		t.Errorf("expected one logged error, got %v", logs.All())
	}
}

func TestRenderResult(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderResult(rec, result.Ok([]string{"a"}), http.StatusBadRequest)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("ok: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	RenderResult(rec, result.Err[[]string]("Organization not found."), http.StatusBadRequest)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("err status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":"Organization not found."`) {
		t.Errorf("err body = %s", rec.Body.String())
	}
}
