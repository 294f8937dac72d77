package audit

import (
	"context"
	"sync"
	"time"

	"github.com/onnwee/userdir/internal/tracing"
)

// Service is an append-only store of audit entries. Thread-safe via
// RWMutex; entries are copied on the way in and out so callers can never
// mutate a stored record.
//
// IDs come from an explicit monotonic counter rather than len(entries)+1,
// so the "ids are never reused" invariant survives if a pruning feature is
// ever added.
type Service struct {
	mu      sync.RWMutex
	entries []*Entry
	nextID  uint64

	now func() time.Time
}

// NewService creates an empty audit service.
func NewService() *Service {
	return &Service{
		now: time.Now,
	}
}

// Add assigns the entry the next sequential ID and the current UTC instant,
// then appends it. The caller's entry is mutated in place with the assigned
// ID and timestamp, and the stored record is returned. As long as entries
// are never removed, IDs are dense and contiguous starting at 1.
func (s *Service) Add(ctx context.Context, entry *Entry) *Entry {
	_, endSpan := tracing.StartStoreSpan(ctx, "audit_log", tracing.StoreOperationCreate)
	defer endSpan(nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	entry.Timestamp = s.now().UTC()

	stored := *entry
	s.entries = append(s.entries, &stored)
	return entry
}

// GetAll returns every entry in append order (ascending ID order).
func (s *Service) GetAll(ctx context.Context) []*Entry {
	_, endSpan := tracing.StartStoreSpan(ctx, "audit_log", tracing.StoreOperationList)
	defer endSpan(nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		c := *e
		results[i] = &c
	}
	return results
}

// GetByUserID returns every entry whose subject user ID matches, in append
// order. The ID is not checked against the user store; entries for deleted
// or unknown users are returned as-is.
func (s *Service) GetByUserID(ctx context.Context, userID uint64) []*Entry {
	_, endSpan := tracing.StartStoreSpan(ctx, "audit_log", tracing.StoreOperationList)
	defer endSpan(nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Entry
	for _, e := range s.entries {
		if e.UserID == userID {
			c := *e
			results = append(results, &c)
		}
	}
	return results
}

// GetByID returns the entry with the given ID. The second return value is
// false when no such entry exists.
func (s *Service) GetByID(ctx context.Context, id uint64) (*Entry, bool) {
	_, endSpan := tracing.StartStoreSpan(ctx, "audit_log", tracing.StoreOperationGet)
	defer endSpan(nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			c := *e
			return &c, true
		}
	}
	return nil, false
}

// Len reports the number of stored entries.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
