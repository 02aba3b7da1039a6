package metrics

import (
	"io"
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

func TestMetrics_Counters(t *testing.T) {
	tests := []struct {
		name   string
		vec    *prometheus.CounterVec
		labels []string
	}{
		{"tmdb success", TMDBRequestsTotal, []string{"/movie/popular", StatusSuccess}},
		{"tmdb not found", TMDBRequestsTotal, []string{"/movie/{id}", StatusNotFound}},
		{"favorite add", FavoritesOperationsTotal, []string{"add", StatusSuccess}},
		{"login failure", LoginsTotal, []string{StatusError}},
		{"http request", HTTPRequestsTotal, []string{"GET", "/api/v1/genres", "200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getCounterVecValue(tt.vec, tt.labels...)
			tt.vec.WithLabelValues(tt.labels...).Inc()
			after := getCounterVecValue(tt.vec, tt.labels...)

			if after != before+1 {
				t.Errorf("expected counter to increment by 1, got diff %.0f", after-before)
			}
		})
	}
}

func TestMetrics_Histograms(t *testing.T) {
	TMDBRequestDuration.WithLabelValues("/genre/movie/list").Observe(0.12)
	HTTPRequestDuration.WithLabelValues("GET", "/health").Observe(0.001)

	var m dto.Metric
	h := TMDBRequestDuration.WithLabelValues("/genre/movie/list").(prometheus.Metric)
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("expected at least one observation")
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	LoginsTotal.WithLabelValues(StatusSuccess).Add(0)
	srv := NewHTTPServer("localhost", 9191)

	if srv.Addr != "localhost:9191" {
		t.Errorf("expected address 'localhost:9191', got '%s'", srv.Addr)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "logins_total") {
		t.Error("expected exposition to include logins_total")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}
