package repositories

import "movieweb/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetAll() ([]models.User, error)
	Update(user *models.User) error
	// Delete removes the user together with all of their favorites
	// and any reviews those favorites referenced, atomically.
	Delete(id uint) error
}
