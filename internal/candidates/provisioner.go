package candidates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
)

// Placeholder values for profiles created on first assignment. The candidate
// fills these in later; profile completion starts at 10 percent to reflect
// that only identity data is present.
const (
	defaultProfileCompletion = 10
	defaultStartDateOffset   = 24 * time.Hour
)

type profileRepository interface {
	Create(ctx context.Context, profile *models.CandidateProfile) error
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CandidateProfile, error)
}

// Provisioner guarantees a candidate profile exists for every candidate user
// handed to an assignment, creating placeholder profiles on demand.
type Provisioner interface {
	EnsureProfiles(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, int, error)
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CandidateProfile, error)
	ProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, error)
}

type provisioner struct {
	repo profileRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewProvisioner builds a candidate-profile provisioner.
func NewProvisioner(repo profileRepository, logg *logger.Logger) (Provisioner, error) {
	if repo == nil {
		return nil, fmt.Errorf("candidates repository required")
	}
	return &provisioner{repo: repo, logg: logg, now: time.Now}, nil
}

// EnsureProfiles returns the profile for every given candidate user id,
// creating placeholder profiles for users that have none. The returned count
// is the number of profiles created. Profile ids, not user ids, are what
// assignments store.
func (p *provisioner) EnsureProfiles(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, int, error) {
	if len(userIDs) == 0 {
		return nil, 0, nil
	}

	existing, err := p.repo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate profiles")
	}

	byUser := make(map[uuid.UUID]models.CandidateProfile, len(existing))
	for _, profile := range existing {
		byUser[profile.UserID] = profile
	}

	created := 0
	out := make([]models.CandidateProfile, 0, len(userIDs))
	for _, userID := range userIDs {
		if profile, ok := byUser[userID]; ok {
			out = append(out, profile)
			continue
		}
		profile := p.placeholderProfile(userID)
		if err := p.repo.Create(ctx, &profile); err != nil {
			return nil, created, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create candidate profile")
		}
		if p.logg != nil {
			p.logg.Info(p.logg.WithUserID(ctx, userID.String()), "provisioned placeholder candidate profile")
		}
		created++
		out = append(out, profile)
	}
	return out, created, nil
}

// ProfilesByIDs loads profiles by primary key for detail expansion.
func (p *provisioner) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CandidateProfile, error) {
	profiles, err := p.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate profiles")
	}
	return profiles, nil
}

// ProfilesByUserIDs loads existing profiles for candidate users without
// creating any. Removal flows resolve user ids to profile ids this way.
func (p *provisioner) ProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, error) {
	profiles, err := p.repo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate profiles")
	}
	return profiles, nil
}

func (p *provisioner) placeholderProfile(userID uuid.UUID) models.CandidateProfile {
	return models.CandidateProfile{
		ID:                uuid.New(),
		UserID:            userID,
		Skills:            pq.StringArray{},
		SalaryMin:         decimal.Zero,
		SalaryMax:         decimal.Zero,
		ResumeStatus:      enums.ResumeStatusPending,
		EarliestStartDate: p.now().Add(defaultStartDateOffset),
		ExperienceLevel:   enums.ExperienceLevelEntry,
		ProfileCompletion: defaultProfileCompletion,
	}
}
