package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
)

// User represents the canonical identity entity. Agents, HR users and
// candidates share this table and are distinguished by Role.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"type:text;not null;uniqueIndex"`
	FirstName string         `gorm:"column:first_name;not null"`
	LastName  string         `gorm:"column:last_name;not null"`
	Phone     *string        `gorm:"column:phone"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null"`
	// Status is stored lowercase for new rows; legacy rows may carry the
	// capitalized form, so lookups compare case-insensitively.
	Status    string    `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive reports whether the user is assignable, tolerating legacy status
// capitalization.
func (u User) IsActive() bool {
	return enums.UserStatusActive.Matches(u.Status)
}

// FullName joins the user's first and last name for display.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
