package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/users", "/users"},
		{"/users/42", "/users/{id}"},
		{"/users/42/logs", "/users/{id}/logs"},
		{"/logs", "/logs"},
		{"/logs/7", "/logs/{id}"},
		{"/health", "/health"},
		{"/ready", "/ready"},
		{"/metrics", "/metrics"},
		{"/unknown/route", "/unknown/route"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// counterValue reads a counter with the given label values from a gathered
// metric family, returning -1 if no matching series exists.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestHTTPMetrics(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		status      int
		wantPath    string
		wantMetrics bool
	}{
		{
			name:        "GET collection",
			method:      http.MethodGet,
			path:        "/users",
			status:      http.StatusOK,
			wantPath:    "/users",
			wantMetrics: true,
		},
		{
			name:        "GET by id normalized",
			method:      http.MethodGet,
			path:        "/users/42",
			status:      http.StatusOK,
			wantPath:    "/users/{id}",
			wantMetrics: true,
		},
		{
			name:        "404 recorded",
			method:      http.MethodGet,
			path:        "/users/999",
			status:      http.StatusNotFound,
			wantPath:    "/users/{id}",
			wantMetrics: true,
		},
		{
			name:        "health check excluded",
			method:      http.MethodGet,
			path:        "/health",
			status:      http.StatusOK,
			wantMetrics: false,
		},
		{
			name:        "readiness check excluded",
			method:      http.MethodGet,
			path:        "/ready",
			status:      http.StatusOK,
			wantMetrics: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := NewMetrics()
			reg := prometheus.NewRegistry()
			if err := metrics.Register(reg); err != nil {
				t.Fatalf("Register() failed: %v", err)
			}

			handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			labels := map[string]string{
				"method": tt.method,
				"path":   tt.wantPath,
				"status": strconv.Itoa(tt.status),
			}
			got := counterValue(t, reg, MetricHTTPRequestsTotal, labels)
			if tt.wantMetrics && got != 1 {
				t.Errorf("expected 1 request recorded for %s %s, got %v", tt.method, tt.wantPath, got)
			}
			if !tt.wantMetrics && got != -1 {
				t.Errorf("expected no metrics for %s, got %v", tt.path, got)
			}
		})
	}
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	m.ObserveHTTPRequest("GET", "/users", "200", 0.05, 0, 128)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		MetricHTTPRequestDuration,
		MetricHTTPRequestsTotal,
		MetricHTTPRequestSizeBytes,
		MetricHTTPResponseSizeBytes,
	} {
		if !found[name] {
			t.Errorf("metric %s not found in registry", name)
		}
	}
}

func TestMetrics_DoubleRegisterFails(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("expected error on duplicate registration")
	}
}
