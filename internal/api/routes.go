package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/userdir/internal/middleware"
)

// NewRouter builds the ServeMux with every API route registered. The
// Prometheus registry is optional; when nil the /metrics endpoint is not
// exposed.
func NewRouter(users *UserHandlers, logs *LogHandlers, health *HealthHandlers, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users", users.ListUsers)
	mux.HandleFunc("POST /users", users.CreateUser)
	mux.HandleFunc("GET /users/{id}", users.GetUser)
	mux.HandleFunc("PUT /users/{id}", users.UpdateUser)
	mux.HandleFunc("DELETE /users/{id}", users.DeleteUser)
	mux.HandleFunc("GET /users/{id}/logs", users.UserLogs)

	mux.HandleFunc("GET /logs", logs.ListLogs)
	mux.HandleFunc("GET /logs/{id}", logs.GetLog)

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /ready", health.Ready)

	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	// Root reports the service identity; everything else under / is a 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "The requested resource was not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "userdir-api",
			"version": "0.1.0",
		})
	})

	return mux
}
