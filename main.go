package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"movieweb/internal/handlers"
	"movieweb/internal/middleware"
	"movieweb/internal/models"
	"movieweb/internal/omdb"
	"movieweb/internal/repositories"
	"movieweb/internal/services"
	"movieweb/pkg/events"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "data/movieweb.sqlite")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "super secret key")
	viper.SetDefault("OMDB_API_KEY", "")
	viper.SetDefault("OMDB_BASE_URL", "http://www.omdbapi.com/")
	viper.SetDefault("OMDB_TIMEOUT_SECONDS", 3)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Movie{}, &models.UserMovie{}, &models.Review{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Event Publisher (optional) ---
	var mqClient *events.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		if err := mqClient.Consume(events.LogDeliveries); err != nil {
			log.Fatalf("Failed to start event consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, event publishing disabled")
	}

	// --- Movie Metadata Client ---
	omdbClient := omdb.New(
		viper.GetString("OMDB_API_KEY"),
		viper.GetString("OMDB_BASE_URL"),
		time.Duration(viper.GetInt("OMDB_TIMEOUT_SECONDS"))*time.Second,
	)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	movieRepo := repositories.NewGORMMovieRepository(db)
	userMovieRepo := repositories.NewGORMUserMovieRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)

	// --- Initialize Services ---
	accountService := services.NewAccountService(userRepo, mqClient, viper.GetString("JWT_SECRET"))
	favoriteService := services.NewFavoriteService(userMovieRepo, movieRepo, omdbClient, mqClient)
	reviewService := services.NewReviewService(userMovieRepo, reviewRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(accountService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	catalogHandler := handlers.NewCatalogHandler(accountService, favoriteService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	// The same handlers serve two presentation modes: routes under
	// /api return structured errors, the rest return user-facing
	// notices. The mode is fixed per group, never inferred.
	mountRoutes(app.Group(""), accountService, authHandler, favoriteHandler, reviewHandler, catalogHandler)
	mountRoutes(app.Group("/api", middleware.APIMode()), accountService, authHandler, favoriteHandler, reviewHandler, catalogHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured database. TranslateError turns
// driver-level unique-constraint violations into gorm.ErrDuplicatedKey
// so the repositories can report them as duplicates.
func openDatabase() (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if viper.GetString("DB_DRIVER") == "postgres" {
		return gorm.Open(postgres.Open(viper.GetString("DATABASE_URL")), cfg)
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), cfg)
}

// mountRoutes registers every route set on one group.
func mountRoutes(router fiber.Router, accountService *services.AccountService,
	authHandler *handlers.AuthHandler, favoriteHandler *handlers.FavoriteHandler,
	reviewHandler *handlers.ReviewHandler, catalogHandler *handlers.CatalogHandler) {
	// Public routes
	authHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)

	// Protected routes (require JWT authentication)
	protectedRoutes := router.Group("", middleware.AuthRequired(accountService))
	authHandler.RegisterProfileRoutes(protectedRoutes)
	favoriteHandler.RegisterRoutes(protectedRoutes)
	reviewHandler.RegisterRoutes(protectedRoutes)
}
