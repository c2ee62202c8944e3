package candidates

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes candidate-profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a candidates repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new candidate profile.
func (r *Repository) Create(ctx context.Context, profile *models.CandidateProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByUserIDs loads the profiles belonging to the given candidate user ids.
// Users without a profile are simply absent from the result.
func (r *Repository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.CandidateProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var out []models.CandidateProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDs loads profiles by their primary keys.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CandidateProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.CandidateProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
