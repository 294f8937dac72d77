package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/onnwee/userdir/internal/audit"
	"github.com/onnwee/userdir/internal/middleware"
	"github.com/onnwee/userdir/internal/user"
	"github.com/onnwee/userdir/internal/validate"
)

// UserRequest is the request body for creating or editing a user. The date
// of birth travels as an ISO 8601 string and is parsed here, so the domain
// layer only ever sees well-formed values.
type UserRequest struct {
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
}

// UserListResponse wraps a list of users.
type UserListResponse struct {
	Items []*user.User `json:"items"`
}

// LogListResponse wraps a list of audit entries.
type LogListResponse struct {
	Items []*audit.Entry `json:"items"`
}

// UserHandlers holds dependencies for user HTTP handlers. Mutations append
// to the audit log, but only after the corresponding user-service call has
// succeeded; the log is never written for a failed mutation.
type UserHandlers struct {
	users   *user.Service
	logs    *audit.Service
	metrics *Metrics
}

// NewUserHandlers creates a new UserHandlers instance. metrics may be nil.
func NewUserHandlers(users *user.Service, logs *audit.Service, metrics *Metrics) *UserHandlers {
	return &UserHandlers{users: users, logs: logs, metrics: metrics}
}

// parseUserRequest decodes and validates the request body. All field-level
// validation lives here at the boundary; on failure it writes the error
// response and returns false.
func parseUserRequest(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return nil, false
	}

	forename, err := validate.PersonName(req.Forename)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "forename is required and must be a valid name")
		return nil, false
	}
	surname, err := validate.PersonName(req.Surname)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "surname is required and must be a valid name")
		return nil, false
	}
	email, err := validate.Email(req.Email)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "email is required and must be a valid address")
		return nil, false
	}
	dob, err := user.ParseDate(req.DateOfBirth)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "date_of_birth must be a date in YYYY-MM-DD form")
		return nil, false
	}

	return &user.User{
		Forename:    validate.SanitizeHTML(forename),
		Surname:     validate.SanitizeHTML(surname),
		DateOfBirth: dob,
		Email:       email,
		IsActive:    req.IsActive,
	}, true
}

// pathID parses the {id} path segment. On failure it writes the error
// response and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// ListUsers handles GET /users - lists users, optionally filtered by
// active state with ?filter=active or ?filter=inactive.
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []*user.User
	switch r.URL.Query().Get("filter") {
	case "active":
		users = h.users.FilterByActive(r.Context(), true)
	case "inactive":
		users = h.users.FilterByActive(r.Context(), false)
	default:
		users = h.users.GetAll(r.Context())
	}

	if users == nil {
		users = []*user.User{}
	}
	writeJSON(w, http.StatusOK, UserListResponse{Items: users})
}

// GetUser handles GET /users/{id}.
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, ok := h.users.GetByID(r.Context(), id)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /users - creates a user and, on success, appends
// a "User Created" audit entry.
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := parseUserRequest(w, r)
	if !ok {
		return
	}

	if !h.users.Create(r.Context(), u) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "An error occurred creating the user")
		return
	}
	h.metrics.IncUsersCreated()

	h.logs.Add(r.Context(), &audit.Entry{
		UserID:       u.ID,
		UserForename: u.Forename,
		UserSurname:  u.Surname,
		Action:       audit.ActionUserCreated,
	})
	h.metrics.IncAuditEntries(audit.ActionUserCreated)

	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PUT /users/{id} - persists an edit and, on success,
// appends a "User Edited" entry describing the changed fields. Edits that
// change nothing are persisted but not logged.
func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, ok := h.users.GetByID(r.Context(), id)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}

	updated, ok := parseUserRequest(w, r)
	if !ok {
		return
	}
	updated.ID = existing.ID

	// Diff before the write: the comparison is between the stored snapshot
	// and the incoming one, regardless of what the store does next.
	changes := user.Diff(existing, updated)

	if !h.users.Update(r.Context(), updated) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "An error occurred updating the user")
		return
	}
	h.metrics.IncUsersUpdated()

	if len(changes) > 0 {
		h.logs.Add(r.Context(), &audit.Entry{
			UserID:       updated.ID,
			UserForename: updated.Forename,
			UserSurname:  updated.Surname,
			Action:       audit.ActionUserEdited,
			Details:      user.Summary(changes),
		})
		h.metrics.IncAuditEntries(audit.ActionUserEdited)
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/{id} - removes a user and, on success,
// appends a "User Deleted" entry carrying the pre-deletion name snapshot.
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	prior, ok := h.users.Delete(r.Context(), id)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}
	h.metrics.IncUsersDeleted()

	h.logs.Add(r.Context(), &audit.Entry{
		UserID:       prior.ID,
		UserForename: prior.Forename,
		UserSurname:  prior.Surname,
		Action:       audit.ActionUserDeleted,
	})
	h.metrics.IncAuditEntries(audit.ActionUserDeleted)

	w.WriteHeader(http.StatusNoContent)
}

// UserLogs handles GET /users/{id}/logs - lists the audit entries whose
// subject is the given user ID, in append order. The ID is not checked
// against the directory, so history remains reachable after deletion.
func (h *UserHandlers) UserLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entries := h.logs.GetByUserID(r.Context(), id)
	if entries == nil {
		entries = []*audit.Entry{}
	}
	writeJSON(w, http.StatusOK, LogListResponse{Items: entries})
}
