package domain

import "strings"

// Actor is the denormalized snapshot of the user who performed a change.
type Actor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Valid reports whether the actor carries an email address.
func (a *Actor) Valid() bool {
	return a != nil && strings.TrimSpace(a.Email) != ""
}
