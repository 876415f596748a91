package formutil

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type in struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{"ok", `{"name":"Cab"}`, false, "Cab"},
		{"unknown field", `{"name":"Cab","x":1}`, true, ""},
		{"trailing data", `{"name":"Cab"}{}`, true, ""},
		{"malformed", `{"name":`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v in
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if v.Name != tt.want {
				t.Errorf("Name = %q, want %q", v.Name, tt.want)
			}
		})
	}
}

func TestDecodeJSON_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var v map[string]any
	if err := DecodeJSON(httptest.NewRecorder(), req, &v); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("err = %v, want ErrEmptyBody", err)
	}
}

func TestValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=1&a=2&b=x+y"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := Values(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if got["a"] != "1" || got["b"] != "x y" {
		t.Errorf("Values = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestValues_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("finalVerdict", "PASS"); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("driverName", "jane smith"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	got, err := Values(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if got["finalVerdict"] != "PASS" || got["driverName"] != "jane smith" {
		t.Errorf("Values = %v", got)
	}
}

func TestValues_MultipartMissingBoundary(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.Header.Set("Content-Type", "multipart/form-data")

	if _, err := Values(httptest.NewRecorder(), req); err == nil {
		t.Error("expected error for multipart body without boundary")
	}
}
