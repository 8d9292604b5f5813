package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gobank/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name        string
		method      string
		path        string
		statusCode  int
		wantPattern string
	}{
		{
			name:        "labels by pattern not id",
			method:      http.MethodGet,
			path:        "/api/v1/accounts/01ABC123",
			statusCode:  http.StatusTeapot,
			wantPattern: "/api/v1/accounts/{id}",
		},
		{
			name:        "nested route",
			method:      http.MethodPost,
			path:        "/api/v1/loans/L1/repay",
			statusCode:  http.StatusOK,
			wantPattern: "/api/v1/loans/{id}/repay",
		},
		{
			name:        "static route",
			method:      http.MethodGet,
			path:        "/health",
			statusCode:  http.StatusOK,
			wantPattern: "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(Metrics(m))
			write := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(tc.statusCode) }
			r.Get("/health", write)
			r.Get("/api/v1/accounts/{id}", write)
			r.Post("/api/v1/loans/{id}/repay", write)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			if rr.Code != tc.statusCode {
				t.Fatalf("expected status %d, got %d", tc.statusCode, rr.Code)
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.wantPattern, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestMetricsMiddlewareNilMetrics(t *testing.T) {
	called := false
	h := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if !called {
		t.Fatalf("next handler was not invoked")
	}
}
