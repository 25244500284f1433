package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"movieweb/internal/services"
)

// ReviewHandler handles HTTP requests for the review attached to a
// favorite.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes under the favorites
// resource; all of them require authentication.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/favorites/:movieID/review", h.HandleGetReview)
	router.Put("/favorites/:movieID/review", h.HandleUpsertReview)
}

// ReviewRequest represents the request body for adding or updating a
// review.
type ReviewRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=0,lte=10"`
	Text   string  `json:"text" validate:"required"`
	Note   string  `json:"note"`
}

// HandleUpsertReview creates the review on first submit and updates
// it in place afterwards.
func (h *ReviewHandler) HandleUpsertReview(c *fiber.Ctx) error {
	movieID, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	operation, review, err := h.reviewService.Upsert(userID(c), uint(movieID), services.ReviewRequest{
		Rating: req.Rating,
		Text:   req.Text,
		Note:   req.Note,
	})
	if err != nil {
		log.Printf("Error upserting review (%d, %d): %v", userID(c), movieID, err)
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if operation == services.OpAdded {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"message":   "Review successfully " + operation,
		"operation": operation,
		"review":    review,
	})
}

// HandleGetReview returns the review attached to a favorite.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	movieID, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	review, err := h.reviewService.GetForFavorite(userID(c), uint(movieID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}
