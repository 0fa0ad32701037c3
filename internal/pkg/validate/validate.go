// Package validate provides input validation for API body parameters.
package validate

import (
	"regexp"
	"strings"
)

// Field length caps; generous for free text, bounded to keep rows sane.
const (
	NameMaxLen    = 255
	ContactMaxLen = 255
	AddressMaxLen = 1000
	NotesMaxLen   = 4000
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ClientName reports whether a client name is acceptable: non-blank, capped.
func ClientName(s string) bool {
	t := strings.TrimSpace(s)
	return t != "" && len(t) <= NameMaxLen
}

// ContactInfo reports whether contact info is acceptable: non-blank, capped.
func ContactInfo(s string) bool {
	t := strings.TrimSpace(s)
	return t != "" && len(t) <= ContactMaxLen
}

// Address allows empty (optional field) up to the cap.
func Address(s string) bool {
	return len(s) <= AddressMaxLen
}

// Notes allows empty (optional field) up to the cap.
func Notes(s string) bool {
	return len(s) <= NotesMaxLen
}

// Username: alphanumeric plus dot, hyphen, underscore; 3-64 chars.
func Username(s string) bool {
	if len(s) < 3 || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// Email performs a light shape check; deliverability is not our problem.
func Email(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// Role restricts accounts to the two staff roles.
func Role(s string) bool {
	return s == "secretary" || s == "admin"
}
