package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/onnwee/userdir/internal/store"
	"github.com/onnwee/userdir/internal/tracing"
)

// Service provides business operations over User entities. It owns no
// state of its own; storage is always delegated to the entity store.
//
// Storage faults never escape to the caller. Create, Update, and Delete
// report plain success or failure, and the underlying cause is logged here
// so a storage outage is still visible operationally.
type Service struct {
	store  *store.Store[*User]
	logger *slog.Logger
}

// NewService creates a user service over the given store.
func NewService(st *store.Store[*User], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// GetAll returns every user, in creation order.
func (s *Service) GetAll(ctx context.Context) []*User {
	_, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationList)
	defer endSpan(nil)

	var users []*User
	for u := range s.store.All() {
		users = append(users, u)
	}
	return users
}

// FilterByActive returns every user whose active flag equals isActive, in
// creation order.
func (s *Service) FilterByActive(ctx context.Context, isActive bool) []*User {
	_, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationList)
	defer endSpan(nil)

	var users []*User
	for u := range s.store.All() {
		if u.IsActive == isActive {
			users = append(users, u)
		}
	}
	return users
}

// GetByID returns the user with the given ID. The second return value is
// false when no such user exists; absence is an expected outcome, not a
// fault.
func (s *Service) GetByID(ctx context.Context, id uint64) (*User, bool) {
	_, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationGet)

	u, err := s.store.GetByID(id)
	endSpan(nil)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Create persists a new user. The incoming user must carry a zero ID; on
// success the caller's user is mutated in place with the assigned ID and
// true is returned. On any storage fault the record does not exist and
// false is returned.
func (s *Service) Create(ctx context.Context, u *User) bool {
	_, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationCreate)

	err := s.store.Create(u)
	endSpan(err)
	if err != nil {
		s.logger.Error("user create failed", "error", err, "forename", u.Forename, "surname", u.Surname)
		return false
	}
	return true
}

// Update persists changes to an existing user identified by its ID.
// Returns false if the ID does not exist or the store faults; the caller
// is expected to have already fetched and mutated the record.
func (s *Service) Update(ctx context.Context, u *User) bool {
	_, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationUpdate)

	err := s.store.Update(u)
	endSpan(err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("user update target missing", "id", u.ID)
		} else {
			s.logger.Error("user update failed", "error", err, "id", u.ID)
		}
		return false
	}
	return true
}

// Delete removes the user with the given ID. It reads before it deletes so
// the full prior record is available to the caller for audit logging; the
// second return value is false when the ID does not exist and nothing was
// removed.
func (s *Service) Delete(ctx context.Context, id uint64) (*User, bool) {
	ctx, endSpan := tracing.StartStoreSpan(ctx, "users", tracing.StoreOperationDelete)

	u, ok := s.GetByID(ctx, id)
	if !ok {
		endSpan(nil)
		return nil, false
	}

	err := s.store.Delete(u)
	endSpan(err)
	if err != nil {
		// Lost a race with a concurrent delete, or the store faulted.
		s.logger.Error("user delete failed", "error", err, "id", id)
		return nil, false
	}
	return u, true
}
