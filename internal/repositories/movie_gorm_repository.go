package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
)

// GORMMovieRepository is a GORM implementation of MovieRepository.
type GORMMovieRepository struct {
	db *gorm.DB
}

// NewGORMMovieRepository creates a new instance of GORMMovieRepository.
func NewGORMMovieRepository(db *gorm.DB) *GORMMovieRepository {
	return &GORMMovieRepository{
		db: db,
	}
}

// Create creates a new catalog entry in the database.
func (r *GORMMovieRepository) Create(movie *models.Movie) error {
	if err := r.db.Create(movie).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// GetByID retrieves a single movie by its ID from the database.
func (r *GORMMovieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("movie with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get movie by ID %d: %w", id, err)
	}
	return &movie, nil
}

// GetByName retrieves a movie by case-insensitive exact name match.
// LOWER-on-both-sides works the same on SQLite and Postgres.
func (r *GORMMovieRepository) GetByName(name string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("movie %q not found in catalog", name))
		}
		return nil, fmt.Errorf("failed to get movie by name %q: %w", name, err)
	}
	return &movie, nil
}

// GetAll retrieves all catalog entries from the database.
func (r *GORMMovieRepository) GetAll() ([]models.Movie, error) {
	var movies []models.Movie
	if err := r.db.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to get all movies: %w", err)
	}
	return movies, nil
}
