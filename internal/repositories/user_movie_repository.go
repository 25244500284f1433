package repositories

import "movieweb/internal/models"

// FavoriteMovie pairs a favorite link with its catalog entry. It is
// the result shape of the joined queries; operations that need only
// the link return a bare UserMovie instead.
type FavoriteMovie struct {
	UserMovie models.UserMovie `json:"favorite"`
	Movie     models.Movie     `json:"movie"`
}

// UserMovieRepository defines the interface for favorite data access.
type UserMovieRepository interface {
	Create(link *models.UserMovie) error
	GetByIDs(userID, movieID uint) (*models.UserMovie, error)
	// GetByUserAndTitle finds a user's favorite whose movie title
	// matches case-insensitively.
	GetByUserAndTitle(userID uint, title string) (*FavoriteMovie, error)
	GetWithMovie(userID, movieID uint) (*FavoriteMovie, error)
	ListByUser(userID uint) ([]FavoriteMovie, error)
	Update(link *models.UserMovie) error
	// AttachReview persists a new review and links it to the favorite
	// in one transaction.
	AttachReview(link *models.UserMovie, review *models.Review) error
	// Delete removes the favorite and its review, if any, in one
	// transaction.
	Delete(userID, movieID uint) error
}
