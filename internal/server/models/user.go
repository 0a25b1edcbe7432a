// Package models defines server-side data models persisted in the database.
package models

// User is a row of the users table. PasswordHash is only populated by
// lookups that need it (login) and never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
