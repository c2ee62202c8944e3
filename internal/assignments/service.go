package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridgehq/talentbridge-backend/internal/audit"
	"github.com/talentbridgehq/talentbridge-backend/internal/candidates"
	"github.com/talentbridgehq/talentbridge-backend/internal/users"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	"github.com/talentbridgehq/talentbridge-backend/pkg/metrics"
	"github.com/talentbridgehq/talentbridge-backend/pkg/pagination"
)

// Service exposes agent-assignment operations.
type Service interface {
	Assign(ctx context.Context, actor Actor, input AssignInput) (*AssignResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetByAgent(ctx context.Context, agentID uuid.UUID) (*AssignmentDetailDTO, error)
	GetOwn(ctx context.Context, agentID uuid.UUID) (*AssignmentDTO, error)
	Remove(ctx context.Context, actor Actor, agentID uuid.UUID, input RemoveInput) (*AssignmentDetailDTO, error)
	Delete(ctx context.Context, actor Actor, agentID uuid.UUID) error
}

type service struct {
	repo        assignmentsRepository
	users       usersRepository
	provisioner candidates.Provisioner
	recorder    audit.Recorder
	resolver    *resolver
	reconciler  *reconciler
	locker      Locker
	logg        *logger.Logger
	metrics     *metrics.AssignmentMetrics
	now         func() time.Time
}

// NewService builds the assignment service. locker may be nil, which disables
// per-agent mutual exclusion; metrics and logg may be nil.
func NewService(
	repo assignmentsRepository,
	usersRepo usersRepository,
	provisioner candidates.Provisioner,
	recorder audit.Recorder,
	locker Locker,
	logg *logger.Logger,
	m *metrics.AssignmentMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if provisioner == nil {
		return nil, fmt.Errorf("candidates provisioner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}

	res, err := newResolver(usersRepo)
	if err != nil {
		return nil, err
	}
	rec, err := newReconciler(repo, recorder, logg, m)
	if err != nil {
		return nil, err
	}

	return &service{
		repo:        repo,
		users:       usersRepo,
		provisioner: provisioner,
		recorder:    recorder,
		resolver:    res,
		reconciler:  rec,
		locker:      locker,
		logg:        logg,
		metrics:     m,
		now:         time.Now,
	}, nil
}

func (s *service) Assign(ctx context.Context, actor Actor, input AssignInput) (result *AssignResult, err error) {
	defer s.observe("assign", s.now())(&err)

	release, err := s.acquireLock(ctx, input.AgentID)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer func() {
			if relErr := release(ctx); relErr != nil && s.logg != nil {
				s.logg.Warn(ctx, fmt.Sprintf("release assignment lock: %v", relErr))
			}
		}()
	}

	resolved, err := s.resolver.Resolve(ctx, input.AgentID, input.HRIDs, input.CandidateIDs)
	if err != nil {
		return nil, err
	}

	// Well-formed input that filters down to nothing is rejected before any
	// mutation or audit write happens.
	if len(resolved.HRIDs) == 0 && len(resolved.CandidateUserIDs) == 0 {
		conflict := pkgerrors.New(pkgerrors.CodeConflict, "No active users found to assign")
		if summary := resolved.Summary(); summary != nil {
			conflict = conflict.WithDetails(summary)
		}
		return nil, conflict
	}

	profiles, created, err := s.provisioner.EnsureProfiles(ctx, resolved.CandidateUserIDs)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil && created > 0 {
		s.metrics.AddProvisioned(created)
	}
	profileIDs := make([]uuid.UUID, 0, len(profiles))
	for _, profile := range profiles {
		profileIDs = append(profileIDs, profile.ID)
	}

	if _, err := s.reconciler.Reconcile(ctx, actor, input.AgentID, resolved.HRIDs, profileIDs); err != nil {
		return nil, err
	}

	assignment, err := s.merge(ctx, actor, resolved, input, profileIDs)
	if err != nil {
		return nil, err
	}

	return &AssignResult{
		Assignment:    fromModel(assignment),
		FilteredUsers: resolved.Summary(),
	}, nil
}

// merge unions the resolved resources into the agent's assignment, creating
// it when absent. Notes follow patch semantics; a successful assign always
// leaves the assignment active.
func (s *service) merge(ctx context.Context, actor Actor, resolved *Resolved, input AssignInput, profileIDs []uuid.UUID) (*models.AgentAssignment, error) {
	existing, err := s.repo.FindByAgent(ctx, input.AgentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	if existing == nil {
		assignment := &models.AgentAssignment{
			ID:                 uuid.New(),
			AgentID:            input.AgentID,
			AssignedHRs:        dbtypes.UUIDArray{}.Union(resolved.HRIDs),
			AssignedCandidates: dbtypes.UUIDArray{}.Union(profileIDs),
			AssignedBy:         actor.ID,
			Notes:              cloneStringPtr(input.Notes),
			Status:             enums.AssignmentStatusActive,
		}
		if err := s.repo.Create(ctx, assignment); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}
		if err := s.recordMutation(ctx, actor, enums.AuditActionCreate, assignment.ID, nil, assignment.Snapshot(), dbtypes.JSONMap{
			"hr_count":        len(resolved.HRIDs),
			"candidate_count": len(profileIDs),
		}); err != nil {
			return nil, err
		}
		return assignment, nil
	}

	before := existing.Snapshot()
	existing.AssignedHRs = existing.AssignedHRs.Union(resolved.HRIDs)
	existing.AssignedCandidates = existing.AssignedCandidates.Union(profileIDs)
	existing.AssignedBy = actor.ID
	existing.Status = enums.AssignmentStatusActive
	if input.Notes != nil {
		existing.Notes = cloneStringPtr(input.Notes)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
	}
	if err := s.recordMutation(ctx, actor, enums.AuditActionUpdate, existing.ID, before, existing.Snapshot(), dbtypes.JSONMap{
		"hr_count":        len(resolved.HRIDs),
		"candidate_count": len(profileIDs),
	}); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) List(ctx context.Context, params ListParams) (result *ListResult, err error) {
	defer s.observe("list", s.now())(&err)

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		cursor, err = pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
	}

	rows, next, err := s.repo.List(ctx, listParams{Limit: params.Limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}

	details := make([]AssignmentDetailDTO, 0, len(rows))
	for i := range rows {
		detail, err := s.expand(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}

	return &ListResult{
		Assignments: details,
		Cursor:      encodeCursor(next),
	}, nil
}

func (s *service) GetByAgent(ctx context.Context, agentID uuid.UUID) (result *AssignmentDetailDTO, err error) {
	defer s.observe("get", s.now())(&err)

	assignment, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	return s.expand(ctx, assignment)
}

// GetOwn returns the caller's assignment, synthesizing an empty default when
// none exists yet.
func (s *service) GetOwn(ctx context.Context, agentID uuid.UUID) (result *AssignmentDTO, err error) {
	defer s.observe("get_own", s.now())(&err)

	assignment, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyAssignment(agentID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	return fromModel(assignment), nil
}

func (s *service) Remove(ctx context.Context, actor Actor, agentID uuid.UUID, input RemoveInput) (result *AssignmentDetailDTO, err error) {
	defer s.observe("remove", s.now())(&err)

	if len(input.HRIDs) == 0 && len(input.CandidateIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one of hrIds or candidateIds is required")
	}

	release, err := s.acquireLock(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer func() {
			if relErr := release(ctx); relErr != nil && s.logg != nil {
				s.logg.Warn(ctx, fmt.Sprintf("release assignment lock: %v", relErr))
			}
		}()
	}

	assignment, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	// Removal speaks candidate-user ids; the assignment stores profile ids.
	profiles, err := s.provisioner.ProfilesByUserIDs(ctx, dedupe(input.CandidateIDs))
	if err != nil {
		return nil, err
	}
	profileIDs := make([]uuid.UUID, 0, len(profiles))
	for _, profile := range profiles {
		profileIDs = append(profileIDs, profile.ID)
	}

	before := assignment.Snapshot()
	beforeHRs := len(assignment.AssignedHRs)
	beforeCandidates := len(assignment.AssignedCandidates)

	assignment.AssignedHRs = assignment.AssignedHRs.Without(dedupe(input.HRIDs))
	assignment.AssignedCandidates = assignment.AssignedCandidates.Without(profileIDs)

	removedHRs := beforeHRs - len(assignment.AssignedHRs)
	removedCandidates := beforeCandidates - len(assignment.AssignedCandidates)

	// Every named id was absent: nothing changed, so skip the write and keep
	// the audit trail free of no-op entries.
	if removedHRs == 0 && removedCandidates == 0 {
		return s.expand(ctx, assignment)
	}

	assignment.AssignedBy = actor.ID

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
	}

	if err := s.recordMutation(ctx, actor, enums.AuditActionUpdate, assignment.ID, before, assignment.Snapshot(), dbtypes.JSONMap{
		"removed_hr_count":        removedHRs,
		"removed_candidate_count": removedCandidates,
	}); err != nil {
		return nil, err
	}

	// Re-read so the caller sees exactly what is persisted.
	updated, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload assignment")
	}
	return s.expand(ctx, updated)
}

func (s *service) Delete(ctx context.Context, actor Actor, agentID uuid.UUID) (err error) {
	defer s.observe("delete", s.now())(&err)

	release, err := s.acquireLock(ctx, agentID)
	if err != nil {
		return err
	}
	if release != nil {
		defer func() {
			if relErr := release(ctx); relErr != nil && s.logg != nil {
				s.logg.Warn(ctx, fmt.Sprintf("release assignment lock: %v", relErr))
			}
		}()
	}

	assignment, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	snapshot := assignment.Snapshot()
	if err := s.repo.Delete(ctx, assignment.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
	}

	return s.recordMutation(ctx, actor, enums.AuditActionDelete, assignment.ID, snapshot, nil, nil)
}

// expand loads the agent, HR users and candidate profiles referenced by an
// assignment for display.
func (s *service) expand(ctx context.Context, assignment *models.AgentAssignment) (*AssignmentDetailDTO, error) {
	detail := &AssignmentDetailDTO{
		AssignmentDTO: *fromModel(assignment),
		HRs:           []users.UserDTO{},
		Candidates:    []candidates.CandidateProfileDTO{},
	}

	agent, err := s.users.FindByID(ctx, assignment.AgentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	detail.Agent = users.FromModel(agent)

	hrUsers, err := s.users.FindByIDs(ctx, assignment.AssignedHRs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hr users")
	}
	for i := range hrUsers {
		detail.HRs = append(detail.HRs, *users.FromModel(&hrUsers[i]))
	}

	profiles, err := s.provisioner.ProfilesByIDs(ctx, assignment.AssignedCandidates)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		detail.Candidates = append(detail.Candidates, *candidates.FromModel(&profiles[i]))
	}
	return detail, nil
}

func (s *service) recordMutation(ctx context.Context, actor Actor, action enums.AuditAction, entityID uuid.UUID, before, after, metadata dbtypes.JSONMap) error {
	return s.recorder.Record(ctx, audit.Entry{
		ActorID:         actor.ID,
		Action:          action,
		EntityType:      audit.EntityTypeAgentAssignment,
		EntityID:        entityID,
		Before:          before,
		After:           after,
		Metadata:        metadata,
		IPAddress:       actor.IPAddress,
		UserAgent:       actor.UserAgent,
		BusinessProcess: audit.BusinessProcessAssignment,
		RiskLevel:       enums.RiskLevelMedium,
	})
}

func (s *service) acquireLock(ctx context.Context, agentID uuid.UUID) (func(context.Context) error, error) {
	if s.locker == nil {
		return nil, nil
	}
	release, ok, err := s.locker.Acquire(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire assignment lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another assignment operation is in progress for this agent")
	}
	return release, nil
}

// observe records operation duration and outcome counters; safe with nil
// metrics.
func (s *service) observe(operation string, start time.Time) func(*error) {
	return func(errPtr *error) {
		if s.metrics == nil {
			return
		}
		s.metrics.ObserveDuration(operation, time.Since(start))
		if errPtr != nil && *errPtr != nil {
			s.metrics.IncFailure(operation)
			return
		}
		s.metrics.IncSuccess(operation)
	}
}
