// Package audit provides the append-only audit trail of state-changing
// actions taken on user records.
package audit

import (
	"time"
)

// Actions recorded against user records.
const (
	ActionUserCreated = "User Created"
	ActionUserEdited  = "User Edited"
	ActionUserDeleted = "User Deleted"
)

// Entry is a single immutable audit record. UserID is a weak reference:
// it is never validated against the user store and entries outlive the
// users they describe, which is why the subject's name is denormalized
// onto the entry.
type Entry struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	UserForename string    `json:"user_forename"`
	UserSurname  string    `json:"user_surname"`
	Action       string    `json:"action"`
	Details      string    `json:"details,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// FullName returns the denormalized "Forename Surname" snapshot.
func (e *Entry) FullName() string {
	return e.UserForename + " " + e.UserSurname
}
