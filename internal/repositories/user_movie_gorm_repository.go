package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
)

// GORMUserMovieRepository is a GORM implementation of
// UserMovieRepository.
type GORMUserMovieRepository struct {
	db *gorm.DB
}

// NewGORMUserMovieRepository creates a new instance of
// GORMUserMovieRepository.
func NewGORMUserMovieRepository(db *gorm.DB) *GORMUserMovieRepository {
	return &GORMUserMovieRepository{
		db: db,
	}
}

// Create inserts a new favorite link. The composite primary key is
// the database-enforced backstop behind the service-level existence
// check; a concurrent identical insert surfaces as a duplicate error
// instead of a raw constraint violation.
func (r *GORMUserMovieRepository) Create(link *models.UserMovie) error {
	if err := r.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Duplicate("movie already favorite by user")
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// GetByIDs retrieves a favorite link by its composite key.
func (r *GORMUserMovieRepository) GetByIDs(userID, movieID uint) (*models.UserMovie, error) {
	var link models.UserMovie
	if err := r.db.First(&link, "user_id = ? AND movie_id = ?", userID, movieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("favorite (%d, %d) not found", userID, movieID))
		}
		return nil, fmt.Errorf("failed to get favorite (%d, %d): %w", userID, movieID, err)
	}
	return &link, nil
}

// GetByUserAndTitle finds the user's favorite whose movie title
// matches case-insensitively, joined with its catalog entry.
func (r *GORMUserMovieRepository) GetByUserAndTitle(userID uint, title string) (*FavoriteMovie, error) {
	var movie models.Movie
	err := r.db.
		Joins("JOIN users_movies ON users_movies.movie_id = movies.id").
		Where("users_movies.user_id = ? AND LOWER(movies.name) = LOWER(?)", userID, title).
		First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("user %d has no favorite titled %q", userID, title))
		}
		return nil, fmt.Errorf("failed to get favorite by title %q: %w", title, err)
	}
	link, err := r.GetByIDs(userID, movie.ID)
	if err != nil {
		return nil, err
	}
	return &FavoriteMovie{UserMovie: *link, Movie: movie}, nil
}

// GetWithMovie retrieves one favorite joined with its catalog entry.
func (r *GORMUserMovieRepository) GetWithMovie(userID, movieID uint) (*FavoriteMovie, error) {
	link, err := r.GetByIDs(userID, movieID)
	if err != nil {
		return nil, err
	}
	var movie models.Movie
	if err := r.db.First(&movie, "id = ?", movieID).Error; err != nil {
		return nil, fmt.Errorf("failed to get movie %d for favorite: %w", movieID, err)
	}
	return &FavoriteMovie{UserMovie: *link, Movie: movie}, nil
}

// ListByUser retrieves all of a user's favorites joined with their
// catalog entries.
func (r *GORMUserMovieRepository) ListByUser(userID uint) ([]FavoriteMovie, error) {
	var links []models.UserMovie
	if err := r.db.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	out := make([]FavoriteMovie, 0, len(links))
	for _, link := range links {
		var movie models.Movie
		if err := r.db.First(&movie, "id = ?", link.MovieID).Error; err != nil {
			return nil, fmt.Errorf("failed to get movie %d for favorite: %w", link.MovieID, err)
		}
		out = append(out, FavoriteMovie{UserMovie: link, Movie: movie})
	}
	return out, nil
}

// Update persists modified rating/note fields on a favorite link.
func (r *GORMUserMovieRepository) Update(link *models.UserMovie) error {
	res := r.db.Model(&models.UserMovie{}).
		Where("user_id = ? AND movie_id = ?", link.UserID, link.MovieID).
		Updates(map[string]any{
			"user_rating": link.UserRating,
			"user_note":   link.UserNote,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update favorite (%d, %d): %w", link.UserID, link.MovieID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("favorite (%d, %d) not found for update", link.UserID, link.MovieID))
	}
	return nil
}

// AttachReview persists a new review and links it to the favorite in
// one transaction, so the review row and the back-reference can never
// diverge.
func (r *GORMUserMovieRepository) AttachReview(link *models.UserMovie, review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		res := tx.Model(&models.UserMovie{}).
			Where("user_id = ? AND movie_id = ?", link.UserID, link.MovieID).
			Update("review_id", review.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to link review to favorite: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(fmt.Sprintf("favorite (%d, %d) not found for review", link.UserID, link.MovieID))
		}
		link.ReviewID = &review.ID
		return nil
	})
}

// Delete removes the favorite and, first, the review it references if
// any. Both deletes share one transaction.
func (r *GORMUserMovieRepository) Delete(userID, movieID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var link models.UserMovie
		if err := tx.First(&link, "user_id = ? AND movie_id = ?", userID, movieID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(fmt.Sprintf("favorite (%d, %d) not found for deletion", userID, movieID))
			}
			return fmt.Errorf("failed to get favorite (%d, %d): %w", userID, movieID, err)
		}
		if link.ReviewID != nil {
			if err := tx.Delete(&models.Review{}, "id = ?", *link.ReviewID).Error; err != nil {
				return fmt.Errorf("failed to delete review %s: %w", *link.ReviewID, err)
			}
		}
		if err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).
			Delete(&models.UserMovie{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorite (%d, %d): %w", userID, movieID, err)
		}
		return nil
	})
}
