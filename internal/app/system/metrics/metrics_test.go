package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/reports/{reportID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/"+id, nil))
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/reports/{reportID}", "404"))
	if got != 3 {
		t.Errorf("requests_total = %v, want 3", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.ReportSubmitted("PASS")
	m.ReportSubmitted("PASS")
	m.ReportSubmitted("FAIL")
	m.OrgProvisioned("ok")

	if got := testutil.ToFloat64(m.reportsSubmitted.WithLabelValues("PASS")); got != 2 {
		t.Errorf("PASS = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.orgsProvisioned.WithLabelValues("ok")); got != 1 {
		t.Errorf("provisioned ok = %v, want 1", got)
	}

	var nilM *Metrics
	nilM.ReportSubmitted("PASS")
	nilM.OrgProvisioned("failed")
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.ReportSubmitted("FAIL")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `fleetcheckr_inspection_reports_submitted_total{verdict="FAIL"} 1`) {
		t.Error("domain counter missing from exposition")
	}
}
