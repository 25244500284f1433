package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"movieweb/internal/services"
)

// FavoriteHandler handles HTTP requests for the authenticated user's
// favorites list.
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	validate        *validator.Validate
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the favorites routes; all of them require
// authentication.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router) {
	favoriteRoutes := router.Group("/favorites")
	favoriteRoutes.Get("/", h.HandleListFavorites)
	favoriteRoutes.Post("/", h.HandleAddFavorite)
	favoriteRoutes.Get("/:movieID", h.HandleGetFavorite)
	favoriteRoutes.Patch("/:movieID", h.HandleUpdateFavorite)
	favoriteRoutes.Delete("/:movieID", h.HandleRemoveFavorite)
}

// HandleListFavorites returns the user's favorites with their catalog
// entries.
func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	favorites, err := h.favoriteService.ListFavorites(userID(c))
	if err != nil {
		log.Printf("Error listing favorites for user %d: %v", userID(c), err)
		return respondError(c, err)
	}
	return c.JSON(favorites)
}

// AddFavoriteRequest represents the request body for adding a
// favorite.
type AddFavoriteRequest struct {
	Title       string `json:"title" validate:"required"`
	ReleaseYear string `json:"release_year" validate:"omitempty,len=4,numeric"`
}

// HandleAddFavorite adds a movie to the user's favorites, fetching it
// from the metadata API when the catalog does not have it yet.
func (h *FavoriteHandler) HandleAddFavorite(c *fiber.Ctx) error {
	var req AddFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add favorite body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	movie, err := h.favoriteService.AddFavorite(c.UserContext(), userID(c), services.AddFavoriteRequest{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		log.Printf("Error adding favorite %q for user %d: %v", req.Title, userID(c), err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "New movie " + movie.Name + " successfully added to user",
		"movie":   movie,
	})
}

// HandleGetFavorite returns one favorite joined with its catalog
// entry, e.g. to prefill the edit form.
func (h *FavoriteHandler) HandleGetFavorite(c *fiber.Ctx) error {
	movieID, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	favorite, err := h.favoriteService.GetFavorite(userID(c), uint(movieID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(favorite)
}

// UpdateFavoriteRequest represents the rating/note form. A missing
// rating and an empty note both mean "leave unchanged".
type UpdateFavoriteRequest struct {
	Rating *float64 `json:"user_rating" validate:"omitempty,gte=0,lte=10"`
	Note   string   `json:"note"`
}

// HandleUpdateFavorite applies the user's rating and note to a
// favorite.
func (h *FavoriteHandler) HandleUpdateFavorite(c *fiber.Ctx) error {
	movieID, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	var req UpdateFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update favorite body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	updated, err := h.favoriteService.UpdateRating(userID(c), uint(movieID), services.UpdateFavoriteRequest{
		Rating: req.Rating,
		Note:   req.Note,
	})
	if err != nil {
		log.Printf("Error updating favorite (%d, %d): %v", userID(c), movieID, err)
		return respondError(c, err)
	}
	if !updated {
		return c.JSON(fiber.Map{"message": "Nothing to update"})
	}
	return c.JSON(fiber.Map{"message": "Successfully updated entry"})
}

// HandleRemoveFavorite removes a favorite together with its review.
func (h *FavoriteHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	movieID, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	if err := h.favoriteService.Remove(userID(c), uint(movieID)); err != nil {
		log.Printf("Error removing favorite (%d, %d): %v", userID(c), movieID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User favorite movie successfully deleted"})
}
