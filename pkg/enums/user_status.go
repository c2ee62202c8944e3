package enums

import (
	"fmt"
	"strings"
)

// UserStatus is the account status stored on a user row. Canonical storage is
// lowercase; legacy rows carry capitalized values ("Active"), so read paths
// compare case-insensitively via Matches until a backfill normalizes them.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

var validUserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusInactive,
}

// String implements fmt.Stringer.
func (s UserStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known canonical UserStatus.
func (s UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Matches compares a stored status value against this one, tolerating the
// legacy capitalized form.
func (s UserStatus) Matches(stored string) bool {
	return strings.EqualFold(stored, string(s))
}

// ParseUserStatus normalizes raw input into a canonical UserStatus. Writes go
// through this, so only reads need the legacy-case tolerance.
func ParseUserStatus(value string) (UserStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUserStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", value)
}
