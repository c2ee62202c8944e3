package assignments

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/internal/candidates"
	"github.com/talentbridgehq/talentbridge-backend/internal/users"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	"github.com/talentbridgehq/talentbridge-backend/pkg/pagination"
)

// AssignInput is the validated payload for assigning resources to an agent.
// Notes is patch semantics: nil leaves any prior notes untouched.
type AssignInput struct {
	AgentID      uuid.UUID
	HRIDs        []uuid.UUID
	CandidateIDs []uuid.UUID
	Notes        *string
}

// RemoveInput names the resources to strip from an agent's assignment. At
// least one list must be non-empty.
type RemoveInput struct {
	HRIDs        []uuid.UUID
	CandidateIDs []uuid.UUID
}

// Actor identifies who performed an operation plus the caller context the
// audit trail captures.
type Actor struct {
	ID        uuid.UUID
	IPAddress string
	UserAgent string
}

// FilteredUsers summarizes input ids dropped during resolution so callers can
// surface a partial-success message.
type FilteredUsers struct {
	OriginalHRCount        int         `json:"originalHRCount"`
	ActiveHRCount          int         `json:"activeHRCount"`
	OriginalCandidateCount int         `json:"originalCandidateCount"`
	ActiveCandidateCount   int         `json:"activeCandidateCount"`
	DroppedHRIDs           []uuid.UUID `json:"droppedHRIds,omitempty"`
	DroppedCandidateIDs    []uuid.UUID `json:"droppedCandidateIds,omitempty"`
}

// AssignmentDTO is the transport shape of an agent assignment.
type AssignmentDTO struct {
	ID                 uuid.UUID              `json:"id"`
	AgentID            uuid.UUID              `json:"agentId"`
	AssignedHRs        []uuid.UUID            `json:"assignedHRs"`
	AssignedCandidates []uuid.UUID            `json:"assignedCandidates"`
	AssignedBy         uuid.UUID              `json:"assignedBy"`
	Notes              *string                `json:"notes,omitempty"`
	Status             enums.AssignmentStatus `json:"status"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// AssignResult pairs the persisted assignment with the filtering summary,
// present only when input ids were dropped.
type AssignResult struct {
	Assignment    *AssignmentDTO `json:"assignment"`
	FilteredUsers *FilteredUsers `json:"filteredUsers,omitempty"`
}

// AssignmentDetailDTO expands an assignment's references for display.
type AssignmentDetailDTO struct {
	AssignmentDTO
	Agent      *users.UserDTO                   `json:"agent,omitempty"`
	HRs        []users.UserDTO                  `json:"hrs"`
	Candidates []candidates.CandidateProfileDTO `json:"candidates"`
}

// ListResult is a cursor page of detail-expanded assignments.
type ListResult struct {
	Assignments []AssignmentDetailDTO `json:"assignments"`
	Cursor      string                `json:"cursor,omitempty"`
}

// ListParams carries pagination inputs for listing assignments.
type ListParams struct {
	Limit  int
	Cursor string
}

func fromModel(a *models.AgentAssignment) *AssignmentDTO {
	if a == nil {
		return nil
	}
	return &AssignmentDTO{
		ID:                 a.ID,
		AgentID:            a.AgentID,
		AssignedHRs:        append([]uuid.UUID(nil), a.AssignedHRs...),
		AssignedCandidates: append([]uuid.UUID(nil), a.AssignedCandidates...),
		AssignedBy:         a.AssignedBy,
		Notes:              cloneStringPtr(a.Notes),
		Status:             a.Status,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// emptyAssignment synthesizes the default shape returned when an agent has no
// assignment yet.
func emptyAssignment(agentID uuid.UUID) *AssignmentDTO {
	return &AssignmentDTO{
		AgentID:            agentID,
		AssignedHRs:        []uuid.UUID{},
		AssignedCandidates: []uuid.UUID{},
		Status:             enums.AssignmentStatusActive,
	}
}

func encodeCursor(c *pagination.Cursor) string {
	if c == nil {
		return ""
	}
	return pagination.EncodeCursor(*c)
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
