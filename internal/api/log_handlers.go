package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/onnwee/userdir/internal/audit"
	"github.com/onnwee/userdir/internal/middleware"
)

// LogHandlers holds dependencies for audit log HTTP handlers. The log is
// read-only over HTTP; entries are appended only as a side effect of user
// mutations.
type LogHandlers struct {
	logs *audit.Service
}

// NewLogHandlers creates a new LogHandlers instance.
func NewLogHandlers(logs *audit.Service) *LogHandlers {
	return &LogHandlers{logs: logs}
}

// ListLogs handles GET /logs - lists audit entries, optionally filtered by
// a case-insensitive substring match on the subject's full name
// (?search=), sorted by ID ascending (default) or descending (?sort=desc).
func (h *LogHandlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	entries := h.logs.GetAll(r.Context())

	if search := r.URL.Query().Get("search"); search != "" {
		needle := strings.ToLower(search)
		filtered := entries[:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.FullName()), needle) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	// GetAll returns ascending ID order already.
	if r.URL.Query().Get("sort") == "desc" {
		slices.Reverse(entries)
	}

	if entries == nil {
		entries = []*audit.Entry{}
	}
	writeJSON(w, http.StatusOK, LogListResponse{Items: entries})
}

// GetLog handles GET /logs/{id} - returns one audit entry.
func (h *LogHandlers) GetLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, ok := h.logs.GetByID(r.Context(), id)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Log entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
