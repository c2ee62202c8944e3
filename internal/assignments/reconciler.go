package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/internal/audit"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	"github.com/talentbridgehq/talentbridge-backend/pkg/metrics"
	"github.com/talentbridgehq/talentbridge-backend/pkg/pagination"
)

// ReasonResourceReassignment tags audit metadata for reconciliation strips.
const ReasonResourceReassignment = "resource_reassignment"

type assignmentsRepository interface {
	FindByAgent(ctx context.Context, agentID uuid.UUID) (*models.AgentAssignment, error)
	ListOthers(ctx context.Context, excludeAgentID uuid.UUID) ([]models.AgentAssignment, error)
	List(ctx context.Context, params listParams) ([]models.AgentAssignment, *pagination.Cursor, error)
	Create(ctx context.Context, assignment *models.AgentAssignment) error
	Update(ctx context.Context, assignment *models.AgentAssignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// reconciler enforces the single-owner invariant: before resources land on
// the target agent, every other assignment still holding them is stripped.
type reconciler struct {
	repo     assignmentsRepository
	recorder audit.Recorder
	logg     *logger.Logger
	metrics  *metrics.AssignmentMetrics
}

func newReconciler(repo assignmentsRepository, recorder audit.Recorder, logg *logger.Logger, m *metrics.AssignmentMetrics) (*reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &reconciler{repo: repo, recorder: recorder, logg: logg, metrics: m}, nil
}

// Reconcile scans every assignment not owned by targetAgentID and strips any
// overlap with the incoming resource sets, persisting each stripped record
// and writing one audit entry per record. A failure mid-loop aborts and
// surfaces, leaving earlier strips committed; a retry of the whole assign
// converges to the same single-owner outcome.
func (r *reconciler) Reconcile(ctx context.Context, actor Actor, targetAgentID uuid.UUID, hrIDs, profileIDs []uuid.UUID) (int, error) {
	if len(hrIDs) == 0 && len(profileIDs) == 0 {
		return 0, nil
	}

	others, err := r.repo.ListOthers(ctx, targetAgentID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan assignments")
	}

	stripped := 0
	for i := range others {
		assignment := &others[i]

		overlapHRs := assignment.AssignedHRs.Intersect(hrIDs)
		overlapProfiles := assignment.AssignedCandidates.Intersect(profileIDs)
		if len(overlapHRs) == 0 && len(overlapProfiles) == 0 {
			continue
		}

		before := assignment.Snapshot()
		assignment.AssignedHRs = assignment.AssignedHRs.Without(overlapHRs)
		assignment.AssignedCandidates = assignment.AssignedCandidates.Without(overlapProfiles)

		if err := r.repo.Update(ctx, assignment); err != nil {
			return stripped, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "strip reassigned resources")
		}

		entry := audit.Entry{
			ActorID:    actor.ID,
			Action:     enums.AuditActionUpdate,
			EntityType: audit.EntityTypeAgentAssignment,
			EntityID:   assignment.ID,
			Before:     before,
			After:      assignment.Snapshot(),
			Metadata: dbtypes.JSONMap{
				"reason":             ReasonResourceReassignment,
				"new_agent_id":       targetAgentID.String(),
				"removed_hrs":        uuidStrings(overlapHRs),
				"removed_candidates": uuidStrings(overlapProfiles),
			},
			IPAddress:       actor.IPAddress,
			UserAgent:       actor.UserAgent,
			BusinessProcess: audit.BusinessProcessAssignment,
			RiskLevel:       enums.RiskLevelMedium,
		}
		if err := r.recorder.Record(ctx, entry); err != nil {
			return stripped, err
		}

		if r.logg != nil {
			r.logg.Info(
				r.logg.WithAgentID(ctx, assignment.AgentID.String()),
				fmt.Sprintf("reconciled assignment: stripped %d hr, %d candidate resources", len(overlapHRs), len(overlapProfiles)),
			)
		}
		stripped++
	}

	if r.metrics != nil {
		r.metrics.AddReconciled(stripped)
	}
	return stripped, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
