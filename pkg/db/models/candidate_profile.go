package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
)

// CandidateProfile holds the recruitment-specific data derived from a
// candidate user. Assignments reference profile IDs, never candidate user IDs.
type CandidateProfile struct {
	ID                uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Skills            pq.StringArray        `gorm:"type:text[];column:skills;not null;default:ARRAY[]::text[]"`
	SalaryMin         decimal.Decimal       `gorm:"column:salary_min;type:numeric(12,2);not null;default:0"`
	SalaryMax         decimal.Decimal       `gorm:"column:salary_max;type:numeric(12,2);not null;default:0"`
	ResumeStatus      enums.ResumeStatus    `gorm:"column:resume_status;type:text;not null;default:pending"`
	EarliestStartDate time.Time             `gorm:"column:earliest_start_date;not null"`
	ExperienceLevel   enums.ExperienceLevel `gorm:"column:experience_level;type:text;not null;default:entry"`
	ProfileCompletion int                   `gorm:"column:profile_completion;not null;default:0"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
