package candidates

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
)

// CandidateProfileDTO is the transport shape of a candidate profile.
type CandidateProfileDTO struct {
	ID                uuid.UUID             `json:"id"`
	UserID            uuid.UUID             `json:"user_id"`
	Skills            []string              `json:"skills"`
	SalaryMin         decimal.Decimal       `json:"salary_min"`
	SalaryMax         decimal.Decimal       `json:"salary_max"`
	ResumeStatus      enums.ResumeStatus    `json:"resume_status"`
	EarliestStartDate time.Time             `json:"earliest_start_date"`
	ExperienceLevel   enums.ExperienceLevel `json:"experience_level"`
	ProfileCompletion int                   `json:"profile_completion"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func FromModel(p *models.CandidateProfile) *CandidateProfileDTO {
	if p == nil {
		return nil
	}
	return &CandidateProfileDTO{
		ID:                p.ID,
		UserID:            p.UserID,
		Skills:            append([]string(nil), p.Skills...),
		SalaryMin:         p.SalaryMin,
		SalaryMax:         p.SalaryMax,
		ResumeStatus:      p.ResumeStatus,
		EarliestStartDate: p.EarliestStartDate,
		ExperienceLevel:   p.ExperienceLevel,
		ProfileCompletion: p.ProfileCompletion,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
