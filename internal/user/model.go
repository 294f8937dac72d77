// Package user provides the User domain model, the business service over
// the entity store, and the field-level change diff used for audit logging.
package user

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time component. Values are comparable
// with ==; the zero value is "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in ISO 8601 form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date in ISO 8601 form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON renders the date as a "2006-01-02" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "2006-01-02" JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// User is a directory record. ID is assigned by the store on creation and
// immutable afterwards; every other field is mutable via update.
type User struct {
	ID          uint64 `json:"id"`
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	DateOfBirth Date   `json:"date_of_birth"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
}

// EntityID returns the store identity.
func (u *User) EntityID() uint64 { return u.ID }

// SetEntityID records the store-assigned identity.
func (u *User) SetEntityID(id uint64) { u.ID = id }

// Clone returns a deep copy.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// FullName returns "Forename Surname" for display and log search.
func (u *User) FullName() string {
	return u.Forename + " " + u.Surname
}
