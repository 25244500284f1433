package repositories

import "movieweb/internal/models"

// MovieRepository defines the interface for catalog data access.
// There is no delete: catalog entries are shared across users and
// long-lived.
type MovieRepository interface {
	Create(movie *models.Movie) error
	GetByID(id uint) (*models.Movie, error)
	// GetByName matches the catalog by case-insensitive exact name.
	GetByName(name string) (*models.Movie, error)
	GetAll() ([]models.Movie, error)
}
