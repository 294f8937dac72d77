package user

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldChange describes one differing field between two snapshots of the
// same user.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Describe renders the change as a single human-readable line.
func (c FieldChange) Describe() string {
	return fmt.Sprintf("%s changed from '%s' to '%s'", c.Field, c.Old, c.New)
}

// diffField pairs a field label with its textual rendering. The diff walks
// these in order, so the order of entries is part of the contract.
type diffField struct {
	name   string
	render func(*User) string
}

// diffFields is the fixed comparison order: forename, surname, date of
// birth, email, active flag. Comparison is by rendered value, which gives
// exact text equality for the string fields, calendar-date equality for the
// date, and boolean equality for the flag.
var diffFields = []diffField{
	{"Forename", func(u *User) string { return u.Forename }},
	{"Surname", func(u *User) string { return u.Surname }},
	{"Date of Birth", func(u *User) string { return u.DateOfBirth.String() }},
	{"Email", func(u *User) string { return u.Email }},
	{"Active", func(u *User) string { return strconv.FormatBool(u.IsActive) }},
}

// Diff compares an existing user snapshot against a proposed update and
// returns one change per differing field, in the fixed field order. An
// empty result means the two snapshots are equal and nothing should be
// logged. Diff is a pure function; it never touches the store.
func Diff(existing, updated *User) []FieldChange {
	var changes []FieldChange
	for _, f := range diffFields {
		oldVal := f.render(existing)
		newVal := f.render(updated)
		if oldVal != newVal {
			changes = append(changes, FieldChange{Field: f.name, Old: oldVal, New: newVal})
		}
	}
	return changes
}

// Summary joins the change descriptions into a single details line for an
// audit entry.
func Summary(changes []FieldChange) string {
	if len(changes) == 0 {
		return ""
	}
	parts := make([]string, len(changes))
	for i, c := range changes {
		parts[i] = c.Describe()
	}
	return strings.Join(parts, "; ")
}
