package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onnwee/userdir/internal/audit"
	"github.com/onnwee/userdir/internal/store"
	"github.com/onnwee/userdir/internal/user"
)

type testEnv struct {
	mux   *http.ServeMux
	users *user.Service
	logs  *audit.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.New[*user.User]()
	users := user.NewService(st, nil)
	logs := audit.NewService()

	userHandlers := NewUserHandlers(users, logs, nil)
	logHandlers := NewLogHandlers(logs)
	healthHandlers := NewHealthHandlers(nil)

	return &testEnv{
		mux:   NewRouter(userHandlers, logHandlers, healthHandlers, nil),
		users: users,
		logs:  logs,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createJohn(t *testing.T) *user.User {
	t.Helper()
	u := &user.User{
		Forename:    "John",
		Surname:     "Smith",
		DateOfBirth: user.NewDate(2000, time.January, 1),
		Email:       "john@example.com",
		IsActive:    true,
	}
	if !e.users.Create(context.Background(), u) {
		t.Fatal("Create failed")
	}
	return u
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) *user.User {
	t.Helper()
	var u user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("Failed to decode user response: %v", err)
	}
	return &u
}

const johnJSON = `{"forename":"John","surname":"Smith","date_of_birth":"2000-01-01","email":"john@example.com","is_active":true}`

func TestCreateUser_SucceedsAndLogs(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/users", johnJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	created := decodeUser(t, rec)
	if created.ID == 0 {
		t.Fatal("Expected assigned ID > 0")
	}

	// A fetch returns an equal record.
	got, ok := env.users.GetByID(context.Background(), created.ID)
	if !ok {
		t.Fatal("Created user not found")
	}
	if *got != *created {
		t.Errorf("Fetched %+v does not equal created %+v", got, created)
	}

	// Exactly one audit entry, for this user, action "User Created".
	entries := env.logs.GetAll(context.Background())
	if len(entries) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].UserID != created.ID || entries[0].Action != audit.ActionUserCreated {
		t.Errorf("Unexpected audit entry: %+v", entries[0])
	}
}

func TestCreateUser_ValidationFailureDoesNotLog(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing forename", `{"forename":"","surname":"Smith","date_of_birth":"2000-01-01","email":"john@example.com","is_active":true}`},
		{"missing surname", `{"forename":"John","surname":"","date_of_birth":"2000-01-01","email":"john@example.com","is_active":true}`},
		{"bad email", `{"forename":"John","surname":"Smith","date_of_birth":"2000-01-01","email":"not-an-email","is_active":true}`},
		{"bad date", `{"forename":"John","surname":"Smith","date_of_birth":"01/01/2000","email":"john@example.com","is_active":true}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/users", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}

	if len(env.users.GetAll(context.Background())) != 0 {
		t.Error("No users should exist after failed creates")
	}
	if env.logs.Len() != 0 {
		t.Error("No audit entries should exist after failed creates")
	}
}

func TestListUsers_FilterByActiveState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	active := env.createJohn(t)
	inactive := &user.User{
		Forename:    "Jane",
		Surname:     "Doe",
		DateOfBirth: user.NewDate(1990, time.June, 15),
		Email:       "jane@example.com",
		IsActive:    false,
	}
	if !env.users.Create(ctx, inactive) {
		t.Fatal("Create failed")
	}

	tests := []struct {
		query  string
		wantID uint64
		count  int
	}{
		{"?filter=active", active.ID, 1},
		{"?filter=inactive", inactive.ID, 1},
		{"", 0, 2},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodGet, "/users"+tt.query, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET /users%s: expected 200, got %d", tt.query, rec.Code)
		}
		var resp UserListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode list: %v", err)
		}
		if len(resp.Items) != tt.count {
			t.Errorf("GET /users%s: expected %d items, got %d", tt.query, tt.count, len(resp.Items))
			continue
		}
		if tt.wantID != 0 && resp.Items[0].ID != tt.wantID {
			t.Errorf("GET /users%s: expected user %d, got %d", tt.query, tt.wantID, resp.Items[0].ID)
		}
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.createJohn(t)

	rec := env.do(t, http.MethodGet, "/users/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := decodeUser(t, rec); *got != *u {
		t.Errorf("Got %+v, want %+v", got, u)
	}

	rec = env.do(t, http.MethodGet, "/users/999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown user, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/users/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestUpdateUser_ChangedFieldsAreLogged(t *testing.T) {
	env := newTestEnv(t)
	env.createJohn(t)

	body := `{"forename":"JohnUpdated","surname":"Smith","date_of_birth":"2000-01-01","email":"johnUpdated@example.com","is_active":true}`
	rec := env.do(t, http.MethodPut, "/users/1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	entries := env.logs.GetAll(context.Background())
	if len(entries) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != audit.ActionUserEdited || e.UserID != 1 {
		t.Errorf("Unexpected audit entry: %+v", e)
	}
	if !strings.Contains(e.Details, "Forename changed") {
		t.Errorf("Expected forename change in details, got %q", e.Details)
	}
	if !strings.Contains(e.Details, "Email changed") {
		t.Errorf("Expected email change in details, got %q", e.Details)
	}
	if strings.Contains(e.Details, "Surname changed") {
		t.Errorf("Surname did not change, details %q", e.Details)
	}
}

func TestUpdateUser_NoChangesNotLogged(t *testing.T) {
	env := newTestEnv(t)
	env.createJohn(t)

	rec := env.do(t, http.MethodPut, "/users/1", johnJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	if env.logs.Len() != 0 {
		t.Errorf("Expected no audit entries for a no-op edit, got %d", env.logs.Len())
	}
}

func TestUpdateUser_UnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/users/42", johnJSON)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if env.logs.Len() != 0 {
		t.Error("Failed update must not log")
	}
}

func TestDeleteUser_LogsPriorNameSnapshot(t *testing.T) {
	env := newTestEnv(t)
	u := env.createJohn(t)

	rec := env.do(t, http.MethodDelete, "/users/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	// Record gone
	if _, ok := env.users.GetByID(context.Background(), u.ID); ok {
		t.Error("Expected user absent after delete")
	}

	// Log retains the name even though the user no longer exists.
	entries := env.logs.GetByUserID(context.Background(), u.ID)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != audit.ActionUserDeleted {
		t.Errorf("Expected %q, got %q", audit.ActionUserDeleted, e.Action)
	}
	if e.UserForename != "John" || e.UserSurname != "Smith" {
		t.Errorf("Expected denormalized name snapshot, got %+v", e)
	}
}

func TestDeleteUser_UnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/users/7", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if env.logs.Len() != 0 {
		t.Error("Failed delete must not log")
	}
}

func TestUserLogs_ReturnsOnlyThatUsersEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.logs.Add(ctx, &audit.Entry{UserID: 1, Action: audit.ActionUserCreated})
	env.logs.Add(ctx, &audit.Entry{UserID: 2, Action: audit.ActionUserCreated})
	env.logs.Add(ctx, &audit.Entry{UserID: 1, Action: audit.ActionUserEdited})

	rec := env.do(t, http.MethodGet, "/users/1/logs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp LogListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != 1 || resp.Items[1].ID != 3 {
		t.Errorf("Expected entries 1 and 3 in append order, got %d and %d", resp.Items[0].ID, resp.Items[1].ID)
	}
}

func TestCreateUser_SeededDirectoryScenario(t *testing.T) {
	st := store.New[*user.User]()
	if err := user.Seed(st); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	users := user.NewService(st, nil)
	logs := audit.NewService()
	mux := NewRouter(NewUserHandlers(users, logs, nil), NewLogHandlers(logs), NewHealthHandlers(nil), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(johnJSON))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}
	created := decodeUser(t, rec)
	if created.ID != 12 {
		t.Errorf("Expected ID 12 after eleven seed users, got %d", created.ID)
	}
}
