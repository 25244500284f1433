package services

import (
	"github.com/google/uuid"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
	"movieweb/internal/repositories"
)

// Operation tags returned by Upsert so callers can pick the right
// user-facing message.
const (
	OpAdded   = "added"
	OpUpdated = "updated"
)

// ReviewService handles the optional review attached to a favorite.
type ReviewService struct {
	userMovieRepo repositories.UserMovieRepository
	reviewRepo    repositories.ReviewRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(userMovieRepo repositories.UserMovieRepository, reviewRepo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{
		userMovieRepo: userMovieRepo,
		reviewRepo:    reviewRepo,
	}
}

// ReviewRequest carries the review form fields. An empty note means
// "leave unchanged" on update.
type ReviewRequest struct {
	Rating float64
	Text   string
	Note   string
}

// Upsert creates the favorite's review on first call and updates it
// in place afterwards. The returned tag is OpAdded or OpUpdated.
// There is no way to remove a review short of removing the favorite.
func (s *ReviewService) Upsert(userID, movieID uint, req ReviewRequest) (string, *models.Review, error) {
	link, err := s.userMovieRepo.GetByIDs(userID, movieID)
	if err != nil {
		return "", nil, err
	}

	if link.ReviewID != nil {
		review, err := s.reviewRepo.GetByID(*link.ReviewID)
		if err != nil {
			return "", nil, err
		}
		review.Rating = req.Rating
		review.Text = req.Text
		if req.Note != "" {
			review.Note = req.Note
		}
		if err := s.reviewRepo.Update(review); err != nil {
			return "", nil, err
		}
		return OpUpdated, review, nil
	}

	review := &models.Review{
		ID:     uuid.New().String(),
		Rating: req.Rating,
		Text:   req.Text,
		Note:   req.Note,
	}
	if err := s.userMovieRepo.AttachReview(link, review); err != nil {
		return "", nil, err
	}
	return OpAdded, review, nil
}

// GetForFavorite retrieves the review attached to a favorite, if any.
func (s *ReviewService) GetForFavorite(userID, movieID uint) (*models.Review, error) {
	link, err := s.userMovieRepo.GetByIDs(userID, movieID)
	if err != nil {
		return nil, err
	}
	if link.ReviewID == nil {
		return nil, apperr.NotFound("favorite has no review")
	}
	return s.reviewRepo.GetByID(*link.ReviewID)
}
