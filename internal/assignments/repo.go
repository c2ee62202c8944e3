package assignments

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes agent-assignment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an assignments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByAgent loads the single assignment owned by the given agent.
func (r *Repository) FindByAgent(ctx context.Context, agentID uuid.UUID) (*models.AgentAssignment, error) {
	var assignment models.AgentAssignment
	if err := r.db.WithContext(ctx).Where("agent_id = ?", agentID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListOthers returns every assignment not owned by the given agent. The
// reconciler intersects the resource sets in memory, so no array operators
// are needed here.
func (r *Repository) ListOthers(ctx context.Context, excludeAgentID uuid.UUID) ([]models.AgentAssignment, error) {
	var out []models.AgentAssignment
	if err := r.db.WithContext(ctx).Where("agent_id <> ?", excludeAgentID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

// List pages through assignments newest first.
func (r *Repository) List(ctx context.Context, params listParams) ([]models.AgentAssignment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.AgentAssignment{})
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var assignments []models.AgentAssignment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&assignments).Error; err != nil {
		return nil, nil, err
	}

	if len(assignments) > normalized {
		assignments = assignments[:normalized]
		// The cursor is the last returned row; the next query's strict
		// (created_at, id) < comparison then resumes at the row after it.
		last := assignments[normalized-1]
		return assignments, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return assignments, nil, nil
}

// Create inserts a new assignment row. Nil resource sets are normalized to
// empty arrays so the NOT NULL columns always receive a valid uuid[] literal.
func (r *Repository) Create(ctx context.Context, assignment *models.AgentAssignment) error {
	if assignment.AssignedHRs == nil {
		assignment.AssignedHRs = dbtypes.UUIDArray{}
	}
	if assignment.AssignedCandidates == nil {
		assignment.AssignedCandidates = dbtypes.UUIDArray{}
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

// Update persists the full assignment row.
func (r *Repository) Update(ctx context.Context, assignment *models.AgentAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete removes the assignment row entirely.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AgentAssignment{}, "id = ?", id).Error
}
