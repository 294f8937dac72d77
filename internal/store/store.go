// Package store provides a generic in-memory entity store with
// auto-incrementing identity assignment. It backs every entity kind in the
// directory through one storage discipline; a durable implementation can
// replace it behind the same contract.
package store

import (
	"errors"
	"iter"
	"sync"
)

var (
	// ErrNotFound is returned when no entity with the requested ID exists.
	ErrNotFound = errors.New("entity not found")
	// ErrIDAssigned is returned when Create receives an entity that already
	// carries an ID.
	ErrIDAssigned = errors.New("entity already has an ID")
)

// Entity is the contract every stored record fulfills. Clone must return a
// deep copy so the store never aliases caller-held memory.
type Entity[T any] interface {
	EntityID() uint64
	SetEntityID(id uint64)
	Clone() T
}

// Store is a generic keyed container for one entity kind. IDs are assigned
// monotonically per store and are never reused, even after deletion. All
// mutation happens under a single lock, so readers never observe a
// half-written record.
type Store[T Entity[T]] struct {
	mu     sync.RWMutex
	items  map[uint64]T
	order  []uint64
	nextID uint64
}

// New creates an empty store for entity kind T.
func New[T Entity[T]]() *Store[T] {
	return &Store[T]{
		items: make(map[uint64]T),
	}
}

// All returns a lazy, restartable sequence over every stored entity in
// insertion order. Each restart of the sequence reflects the store's state
// at that moment; snapshot isolation across a full iteration is not
// guaranteed. Yielded entities are copies.
func (s *Store[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.mu.RLock()
		ids := make([]uint64, len(s.order))
		copy(ids, s.order)
		s.mu.RUnlock()

		for _, id := range ids {
			s.mu.RLock()
			item, ok := s.items[id]
			if ok {
				item = item.Clone()
			}
			s.mu.RUnlock()
			if !ok {
				// Deleted between snapshot and visit.
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Len reports the number of stored entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Create assigns the next unused ID to the entity, mutates the caller's
// entity in place to carry it, and inserts a copy. ID assignment and
// insertion happen under one lock, so concurrent creates never race on the
// counter.
func (s *Store[T]) Create(entity T) error {
	if entity.EntityID() != 0 {
		return ErrIDAssigned
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entity.SetEntityID(s.nextID)
	s.items[s.nextID] = entity.Clone()
	s.order = append(s.order, s.nextID)
	return nil
}

// Update replaces the stored entity matching the given entity's ID with the
// given field values. Returns ErrNotFound if no such entity exists; the
// store is left untouched in that case.
func (s *Store[T]) Update(entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.EntityID()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	s.items[id] = entity.Clone()
	return nil
}

// Delete removes the entity matching the given entity's ID. Returns
// ErrNotFound if it was never stored or already removed. The ID is not
// reused by later creates.
func (s *Store[T]) Delete(entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.EntityID()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetByID returns a copy of the entity with the given ID, or ErrNotFound.
// Absence is an expected outcome, not a fault; callers distinguish it with
// errors.Is(err, ErrNotFound).
func (s *Store[T]) GetByID(id uint64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item.Clone(), nil
}
