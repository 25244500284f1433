package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. The unique index on
// email is the database-enforced backstop behind the service-level
// uniqueness pre-check; a conflict surfaces as a duplicate error.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ProfileImg == "" {
		user.ProfileImg = models.DefaultProfileImg
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Duplicate("email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database. The
// match is case-sensitive and exact.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("user with email %s not found", email))
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("user with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetAll retrieves all users from the database.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// Update persists modified user fields.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperr.Duplicate("email already exists")
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("user with ID %d not found for update", user.ID))
	}
	return nil
}

// Delete removes the user and cascades over their favorites: every
// users_movies row owned by the user is removed, together with any
// review those rows referenced, before the user row itself. The whole
// cascade runs in one transaction so either all of it commits or none
// of it does. Catalog entries are left untouched.
func (r *GORMUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reviewIDs []string
		if err := tx.Model(&models.UserMovie{}).
			Where("user_id = ? AND review_id IS NOT NULL", id).
			Pluck("review_id", &reviewIDs).Error; err != nil {
			return fmt.Errorf("failed to collect review ids for user %d: %w", id, err)
		}
		if len(reviewIDs) > 0 {
			if err := tx.Delete(&models.Review{}, "id IN ?", reviewIDs).Error; err != nil {
				return fmt.Errorf("failed to delete reviews for user %d: %w", id, err)
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserMovie{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites for user %d: %w", id, err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(fmt.Sprintf("user with ID %d not found for deletion", id))
		}
		return nil
	})
}
