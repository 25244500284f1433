package repositories

import "movieweb/internal/models"

// ReviewRepository defines the interface for review data access.
// Reviews are created through UserMovieRepository.AttachReview and
// deleted through the favorite/user cascades, so only lookup and
// in-place update live here.
type ReviewRepository interface {
	GetByID(id string) (*models.Review, error)
	Update(review *models.Review) error
}
