// Package model defines the data structures used throughout the application.
package model

import "time"

// Role names. Instructors and admins may edit or remove any answer; students
// only their own.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User represents an account that acts on answers.
//
// WHY PasswordHash HAS `json:"-"`?
// The "-" tag tells encoding/json to skip the field entirely. The bcrypt hash
// must never leave the server, even though it lives on the same struct that
// /api/me serialises.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         string    `json:"role"      db:"role"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsStaff reports whether the user may moderate other users' answers.
func (u *User) IsStaff() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}
