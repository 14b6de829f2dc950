package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestMetrics_PipelineRunsTotal(t *testing.T) {
	before := getCounterVecValue(PipelineRunsTotal, PipelineSearch, "ok")
	PipelineRunsTotal.WithLabelValues(PipelineSearch, "ok").Inc()
	after := getCounterVecValue(PipelineRunsTotal, PipelineSearch, "ok")

	if after != before+1 {
		t.Errorf("Expected search/ok counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_StaleResponsesTotal(t *testing.T) {
	before := getCounterVecValue(StaleResponsesTotal, PipelineEpisodes)
	StaleResponsesTotal.WithLabelValues(PipelineEpisodes).Inc()
	after := getCounterVecValue(StaleResponsesTotal, PipelineEpisodes)

	if after != before+1 {
		t.Errorf("Expected stale counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ActiveSessions.Set(3)
	defer ActiveSessions.Set(0)

	if v := getGaugeValue(ActiveSessions); v != 3 {
		t.Errorf("Expected active sessions to be 3, got %.0f", v)
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9191)

	if srv.Addr != "localhost:9191" {
		t.Errorf("Expected address 'localhost:9191', got '%s'", srv.Addr)
	}

	UpstreamRequestsTotal.WithLabelValues("search", "200").Inc()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "showfinder_upstream_requests_total") {
		t.Error("Expected upstream request counter in /metrics output")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}

func TestMetrics_NewHTTPServer_Healthz(t *testing.T) {
	srv := NewHTTPServer("localhost", 0)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("Expected 200 ok from /healthz, got %d %q", rec.Code, rec.Body.String())
	}
}
