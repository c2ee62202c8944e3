package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
)

// EntityTypeAgentAssignment is the audit entity type for assignment rows.
const EntityTypeAgentAssignment = "agent_assignment"

// BusinessProcessAssignment tags audit rows produced by the assignment flows.
const BusinessProcessAssignment = "agent_resource_assignment"

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]models.AuditLog, error)
}

// Entry is everything a caller supplies to record one audit event.
type Entry struct {
	ActorID         uuid.UUID
	Action          enums.AuditAction
	EntityType      string
	EntityID        uuid.UUID
	Before          dbtypes.JSONMap
	After           dbtypes.JSONMap
	Metadata        dbtypes.JSONMap
	IPAddress       string
	UserAgent       string
	BusinessProcess string
	RiskLevel       enums.RiskLevel
}

// Recorder writes audit events. Compliance treats the trail as authoritative,
// so recording failures propagate to the caller instead of being swallowed.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Trail(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]models.AuditLog, error)
}

type recorder struct {
	repo auditRepository
	logg *logger.Logger
}

// NewRecorder builds an audit recorder over the given repo.
func NewRecorder(repo auditRepository, logg *logger.Logger) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &recorder{repo: repo, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, entry Entry) error {
	if entry.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit entry requires an actor")
	}
	if !entry.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid audit action")
	}
	if entry.EntityType == "" || entry.EntityID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit entry requires an entity")
	}

	risk := entry.RiskLevel
	if risk == "" {
		risk = enums.RiskLevelLow
	}

	row := &models.AuditLog{
		ActorID:         entry.ActorID,
		Action:          entry.Action,
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Before:          entry.Before,
		After:           entry.After,
		Metadata:        entry.Metadata,
		IPAddress:       entry.IPAddress,
		UserAgent:       entry.UserAgent,
		BusinessProcess: entry.BusinessProcess,
		RiskLevel:       risk,
	}
	if err := r.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record audit entry")
	}
	return nil
}

func (r *recorder) Trail(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.repo.ListByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit trail")
	}
	return rows, nil
}
