package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
)

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindActiveAgent(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	FilterActiveByRole(ctx context.Context, ids []uuid.UUID, role enums.UserRole) ([]models.User, error)
}

// Resolved is the strict working set produced by resolution: the confirmed
// agent, the ids that survived filtering, and the ids that were dropped.
type Resolved struct {
	Agent            *models.User
	HRIDs            []uuid.UUID
	CandidateUserIDs []uuid.UUID

	OriginalHRCount        int
	OriginalCandidateCount int
	DroppedHRIDs           []uuid.UUID
	DroppedCandidateIDs    []uuid.UUID
}

// Filtered reports whether any input ids were dropped during resolution.
func (r Resolved) Filtered() bool {
	return len(r.DroppedHRIDs) > 0 || len(r.DroppedCandidateIDs) > 0
}

// Summary renders the filtering outcome for the caller, or nil when nothing
// was dropped.
func (r Resolved) Summary() *FilteredUsers {
	if !r.Filtered() {
		return nil
	}
	return &FilteredUsers{
		OriginalHRCount:        r.OriginalHRCount,
		ActiveHRCount:          len(r.HRIDs),
		OriginalCandidateCount: r.OriginalCandidateCount,
		ActiveCandidateCount:   len(r.CandidateUserIDs),
		DroppedHRIDs:           r.DroppedHRIDs,
		DroppedCandidateIDs:    r.DroppedCandidateIDs,
	}
}

// resolver validates the target agent and filters the HR and candidate id
// lists down to currently active users with the right role.
type resolver struct {
	users usersRepository
}

func newResolver(users usersRepository) (*resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &resolver{users: users}, nil
}

// Resolve confirms the agent and filters both id lists. Agent resolution
// failure is terminal; HR and candidate ids that do not resolve to an active
// user with the expected role are dropped silently and reported in the
// Resolved summary fields.
func (r *resolver) Resolve(ctx context.Context, agentID uuid.UUID, hrIDs, candidateIDs []uuid.UUID) (*Resolved, error) {
	agent, err := r.users.FindActiveAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Active agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve agent")
	}

	hrIDs = dedupe(hrIDs)
	candidateIDs = dedupe(candidateIDs)

	activeHRs, droppedHRs, err := r.filterActive(ctx, hrIDs, enums.UserRoleHR)
	if err != nil {
		return nil, err
	}
	activeCandidates, droppedCandidates, err := r.filterActive(ctx, candidateIDs, enums.UserRoleCandidate)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Agent:                  agent,
		HRIDs:                  activeHRs,
		CandidateUserIDs:       activeCandidates,
		OriginalHRCount:        len(hrIDs),
		OriginalCandidateCount: len(candidateIDs),
		DroppedHRIDs:           droppedHRs,
		DroppedCandidateIDs:    droppedCandidates,
	}, nil
}

// filterActive keeps ids that resolve to an active user with the given role,
// preserving input order.
func (r *resolver) filterActive(ctx context.Context, ids []uuid.UUID, role enums.UserRole) (kept, dropped []uuid.UUID, err error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	matched, err := r.users.FilterActiveByRole(ctx, ids, role)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("filter %s users", role))
	}

	valid := make(map[uuid.UUID]struct{}, len(matched))
	for _, u := range matched {
		valid[u.ID] = struct{}{}
	}

	kept = make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := valid[id]; ok {
			kept = append(kept, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	return kept, dropped, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
