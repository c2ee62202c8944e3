package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
)

// AgentAssignment is the single owning-set record per agent: the HR users and
// candidate profiles the agent currently works. Each HR id and profile id may
// appear in at most one assignment platform-wide; reconciliation enforces this
// on every assign.
type AgentAssignment struct {
	ID                 uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentID            uuid.UUID              `gorm:"column:agent_id;type:uuid;not null;uniqueIndex"`
	AssignedHRs        dbtypes.UUIDArray      `gorm:"type:uuid[];column:assigned_hrs;not null"`
	AssignedCandidates dbtypes.UUIDArray      `gorm:"type:uuid[];column:assigned_candidates;not null"`
	AssignedBy         uuid.UUID              `gorm:"column:assigned_by;type:uuid;not null"`
	Notes              *string                `gorm:"column:notes"`
	Status             enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// Snapshot renders the assignment as a generic map for audit before/after
// captures.
func (a AgentAssignment) Snapshot() dbtypes.JSONMap {
	hrs := make([]string, 0, len(a.AssignedHRs))
	for _, id := range a.AssignedHRs {
		hrs = append(hrs, id.String())
	}
	candidates := make([]string, 0, len(a.AssignedCandidates))
	for _, id := range a.AssignedCandidates {
		candidates = append(candidates, id.String())
	}
	snap := dbtypes.JSONMap{
		"id":                  a.ID.String(),
		"agent_id":            a.AgentID.String(),
		"assigned_hrs":        hrs,
		"assigned_candidates": candidates,
		"assigned_by":         a.AssignedBy.String(),
		"status":              a.Status.String(),
	}
	if a.Notes != nil {
		snap["notes"] = *a.Notes
	}
	return snap
}
