package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"movieweb/internal/services"
)

// CatalogHandler handles the public read-only pages: user listings,
// public favorite lists and the shared movie catalog.
type CatalogHandler struct {
	accountService  *services.AccountService
	favoriteService *services.FavoriteService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(accountService *services.AccountService, favoriteService *services.FavoriteService) *CatalogHandler {
	return &CatalogHandler{
		accountService:  accountService,
		favoriteService: favoriteService,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/users", h.HandleListUsers)
	router.Get("/users/:userID/movies", h.HandleListUserMovies)
	router.Get("/movies", h.HandleListMovies)
	router.Get("/movies/:movieID", h.HandleGetMovie)
}

// HandleListUsers returns all registered users.
func (h *CatalogHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.accountService.List()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return respondError(c, err)
	}
	return c.JSON(users)
}

// HandleListUserMovies returns the favorite movies of any user, the
// public-profile view.
func (h *CatalogHandler) HandleListUserMovies(c *fiber.Ctx) error {
	id, err := c.ParamsInt("userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}
	if _, err := h.accountService.GetByID(uint(id)); err != nil {
		return respondError(c, err)
	}
	favorites, err := h.favoriteService.ListFavorites(uint(id))
	if err != nil {
		log.Printf("Error listing favorites for user %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(favorites)
}

// HandleListMovies returns the whole shared catalog.
func (h *CatalogHandler) HandleListMovies(c *fiber.Ctx) error {
	movies, err := h.favoriteService.ListCatalog()
	if err != nil {
		log.Printf("Error listing movies: %v", err)
		return respondError(c, err)
	}
	return c.JSON(movies)
}

// HandleGetMovie returns a single catalog entry.
func (h *CatalogHandler) HandleGetMovie(c *fiber.Ctx) error {
	id, err := c.ParamsInt("movieID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid movie ID",
		})
	}
	movie, err := h.favoriteService.GetMovie(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movie)
}
