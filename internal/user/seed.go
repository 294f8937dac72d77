package user

import (
	"fmt"
	"time"

	"github.com/onnwee/userdir/internal/store"
)

// SeedUsers returns the fixed development data set: eleven sample users
// loaded on process start. Existing tests depend on these exact records, so
// a durable store implementation must preserve them.
func SeedUsers() []*User {
	dob := NewDate(1989, time.November, 23)
	return []*User{
		{Forename: "Peter", Surname: "Loew", DateOfBirth: dob, Email: "ploew@example.com", IsActive: true},
		{Forename: "Benjamin Franklin", Surname: "Gates", DateOfBirth: dob, Email: "bfgates@example.com", IsActive: true},
		{Forename: "Castor", Surname: "Troy", DateOfBirth: dob, Email: "ctroy@example.com", IsActive: false},
		{Forename: "Memphis", Surname: "Raines", DateOfBirth: dob, Email: "mraines@example.com", IsActive: true},
		{Forename: "Stanley", Surname: "Goodspeed", DateOfBirth: dob, Email: "sgodspeed@example.com", IsActive: true},
		{Forename: "H.I.", Surname: "McDunnough", DateOfBirth: dob, Email: "himcdunnough@example.com", IsActive: true},
		{Forename: "Cameron", Surname: "Poe", DateOfBirth: dob, Email: "cpoe@example.com", IsActive: false},
		{Forename: "Edward", Surname: "Malus", DateOfBirth: dob, Email: "emalus@example.com", IsActive: false},
		{Forename: "Damon", Surname: "Macready", DateOfBirth: dob, Email: "dmacready@example.com", IsActive: false},
		{Forename: "Johnny", Surname: "Blaze", DateOfBirth: dob, Email: "jblaze@example.com", IsActive: true},
		{Forename: "Robin", Surname: "Feld", DateOfBirth: dob, Email: "rfeld@example.com", IsActive: true},
	}
}

// Seed loads the sample users into an empty store. Seeding a non-empty
// store is refused so restarts with persistent state cannot duplicate
// records.
func Seed(st *store.Store[*User]) error {
	if st.Len() != 0 {
		return fmt.Errorf("refusing to seed non-empty store (%d users)", st.Len())
	}
	for _, u := range SeedUsers() {
		if err := st.Create(u); err != nil {
			return fmt.Errorf("seeding user %s %s: %w", u.Forename, u.Surname, err)
		}
	}
	return nil
}
