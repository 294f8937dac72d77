package user

import (
	"strconv"
	"testing"
	"time"
)

func baseUser() *User {
	return &User{
		ID:          1,
		Forename:    "John",
		Surname:     "Smith",
		DateOfBirth: NewDate(2000, time.January, 1),
		Email:       "john@example.com",
		IsActive:    true,
	}
}

func TestDiff_NoChangesYieldsEmpty(t *testing.T) {
	existing := baseUser()
	updated := baseUser()

	if changes := Diff(existing, updated); len(changes) != 0 {
		t.Errorf("Expected empty diff for equal snapshots, got %+v", changes)
	}
}

func TestDiff_ForenameAndEmailOnly(t *testing.T) {
	existing := baseUser()
	updated := baseUser()
	updated.Forename = "JohnUpdated"
	updated.Email = "johnUpdated@example.com"

	changes := Diff(existing, updated)
	if len(changes) != 2 {
		t.Fatalf("Expected exactly 2 changes, got %d: %+v", len(changes), changes)
	}

	// Field order is fixed: forename before email.
	if changes[0].Field != "Forename" {
		t.Errorf("Expected first change to be Forename, got %s", changes[0].Field)
	}
	if changes[1].Field != "Email" {
		t.Errorf("Expected second change to be Email, got %s", changes[1].Field)
	}
	if changes[0].Old != "John" || changes[0].New != "JohnUpdated" {
		t.Errorf("Unexpected forename change values: %+v", changes[0])
	}
}

func TestDiff_FixedFieldOrder(t *testing.T) {
	existing := baseUser()
	updated := &User{
		ID:          1,
		Forename:    "Jane",
		Surname:     "Doe",
		DateOfBirth: NewDate(1990, time.June, 15),
		Email:       "jane@example.com",
		IsActive:    false,
	}

	changes := Diff(existing, updated)
	wantOrder := []string{"Forename", "Surname", "Date of Birth", "Email", "Active"}
	if len(changes) != len(wantOrder) {
		t.Fatalf("Expected %d changes, got %d", len(wantOrder), len(changes))
	}
	for i, want := range wantOrder {
		if changes[i].Field != want {
			t.Errorf("Position %d: expected field %s, got %s", i, want, changes[i].Field)
		}
	}
}

func TestDiff_DateComparedByCalendarDate(t *testing.T) {
	existing := baseUser()
	updated := baseUser()
	updated.DateOfBirth = NewDate(2000, time.January, 2)

	changes := Diff(existing, updated)
	if len(changes) != 1 || changes[0].Field != "Date of Birth" {
		t.Fatalf("Expected a single Date of Birth change, got %+v", changes)
	}
	if changes[0].Old != "2000-01-01" || changes[0].New != "2000-01-02" {
		t.Errorf("Unexpected date rendering: %+v", changes[0])
	}
}

// applyChanges replays a diff onto a snapshot by field name.
func applyChanges(t *testing.T, u *User, changes []FieldChange) {
	t.Helper()
	for _, c := range changes {
		switch c.Field {
		case "Forename":
			u.Forename = c.New
		case "Surname":
			u.Surname = c.New
		case "Date of Birth":
			d, err := ParseDate(c.New)
			if err != nil {
				t.Fatalf("Unparseable date in change %+v: %v", c, err)
			}
			u.DateOfBirth = d
		case "Email":
			u.Email = c.New
		case "Active":
			b, err := strconv.ParseBool(c.New)
			if err != nil {
				t.Fatalf("Unparseable bool in change %+v: %v", c, err)
			}
			u.IsActive = b
		default:
			t.Fatalf("Unknown field in change: %+v", c)
		}
	}
}

func TestDiff_RoundTripReconstructsUpdatedSnapshot(t *testing.T) {
	existing := baseUser()
	updated := &User{
		ID:          1,
		Forename:    "Jane",
		Surname:     "Smith",
		DateOfBirth: NewDate(1995, time.March, 9),
		Email:       "jane.smith@example.com",
		IsActive:    false,
	}

	reconstructed := existing.Clone()
	applyChanges(t, reconstructed, Diff(existing, updated))

	if *reconstructed != *updated {
		t.Errorf("Round trip failed: got %+v, want %+v", reconstructed, updated)
	}
}

func TestFieldChange_Describe(t *testing.T) {
	c := FieldChange{Field: "Forename", Old: "John", New: "Jane"}
	want := "Forename changed from 'John' to 'Jane'"
	if got := c.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "" {
		t.Errorf("Expected empty summary for no changes, got %q", got)
	}

	changes := []FieldChange{
		{Field: "Forename", Old: "John", New: "Jane"},
		{Field: "Email", Old: "a@example.com", New: "b@example.com"},
	}
	want := "Forename changed from 'John' to 'Jane'; Email changed from 'a@example.com' to 'b@example.com'"
	if got := Summary(changes); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
