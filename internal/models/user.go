package models

import "time"

// Roles assignable at registration.
const (
	RoleSecretary = "secretary"
	RoleAdmin     = "admin"
)

// User represents a staff account. Password hash is never serialized.
type User struct {
	ID           int64     `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
