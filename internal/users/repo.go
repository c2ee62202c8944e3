package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveAgent loads the user with the given id only when they hold the
// agent role and an active status. Legacy rows carry mixed-case status
// values, so the comparison runs on lower(status).
func (r *Repository) FindActiveAgent(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND lower(status) = ?", id, enums.UserRoleAgent, enums.UserStatusActive).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads every user whose id appears in ids. Missing ids are simply
// absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FilterActiveByRole returns the users among ids that hold the given role and
// an active status.
func (r *Repository) FilterActiveByRole(ctx context.Context, ids []uuid.UUID, role enums.UserRole) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.User
	err := r.db.WithContext(ctx).
		Where("id IN ? AND role = ? AND lower(status) = ?", ids, role, enums.UserStatusActive).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
