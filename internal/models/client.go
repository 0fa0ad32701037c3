package models

import "time"

// Client represents one client record managed by the secretary/admin staff.
// JSON field names match what the SPA frontend expects.
type Client struct {
	ID          int64     `json:"clientId" db:"client_id"`
	Name        string    `json:"name" db:"name"`
	ContactInfo string    `json:"contactInfo" db:"contact_info"`
	Address     *string   `json:"address,omitempty" db:"address"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
