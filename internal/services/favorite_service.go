package services

import (
	"context"
	"errors"
	"log"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
	"movieweb/internal/omdb"
	"movieweb/internal/repositories"
	"movieweb/pkg/events"
)

// MetadataClient looks up movie attributes by title and optional
// release year.
type MetadataClient interface {
	GetMovieData(ctx context.Context, title, year string) (*omdb.MovieData, error)
}

// FavoriteService handles the favorites list and the shared movie
// catalog behind it.
type FavoriteService struct {
	userMovieRepo repositories.UserMovieRepository
	movieRepo     repositories.MovieRepository
	metadata      MetadataClient
	mqClient      *events.Client
}

// NewFavoriteService creates a new FavoriteService. mqClient may be
// nil when no broker is configured.
func NewFavoriteService(userMovieRepo repositories.UserMovieRepository, movieRepo repositories.MovieRepository, metadata MetadataClient, mqClient *events.Client) *FavoriteService {
	return &FavoriteService{
		userMovieRepo: userMovieRepo,
		movieRepo:     movieRepo,
		metadata:      metadata,
		mqClient:      mqClient,
	}
}

// AddFavoriteRequest carries the add-favorite form fields.
type AddFavoriteRequest struct {
	Title       string
	ReleaseYear string
}

// AddFavorite adds a movie to the user's favorites. If the title is
// not in the catalog it is fetched from the metadata API first; the
// catalog is then re-checked under the canonical name the API
// returned, so a second spelling of an existing title never creates a
// second row. Returns the resolved catalog entry.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID uint, req AddFavoriteRequest) (*models.Movie, error) {
	if _, err := s.userMovieRepo.GetByUserAndTitle(userID, req.Title); err == nil {
		return nil, apperr.Duplicate("movie already favorite by user")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	movie, err := s.movieRepo.GetByName(req.Title)
	if apperr.IsKind(err, apperr.KindNotFound) {
		movie, err = s.addMovieFromAPI(ctx, req.Title, req.ReleaseYear)
	}
	if err != nil {
		return nil, err
	}

	link := &models.UserMovie{UserID: userID, MovieID: movie.ID}
	if err := s.userMovieRepo.Create(link); err != nil {
		return nil, err
	}

	if err := s.mqClient.Publish(events.TypeFavoriteAdded, map[string]interface{}{
		"userID":  userID,
		"movieID": movie.ID,
		"title":   movie.Name,
	}); err != nil {
		log.Printf("Warning: failed to publish favorite event for user %d: %v", userID, err)
	}

	return movie, nil
}

// addMovieFromAPI fetches metadata for an unknown title and persists
// a new catalog entry for it.
func (s *FavoriteService) addMovieFromAPI(ctx context.Context, title, year string) (*models.Movie, error) {
	data, err := s.metadata.GetMovieData(ctx, title, year)
	if err != nil {
		if errors.Is(err, omdb.ErrMovieNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, omdb.ErrMovieNotFound.Error(), err)
		}
		// Failures outside the two sentinels (bad base URL, request
		// build) keep their own message instead of "connection error".
		message := omdb.ErrConnection.Error()
		if !errors.Is(err, omdb.ErrConnection) {
			message = err.Error()
		}
		return nil, apperr.Wrap(apperr.KindExternalLookup, message, err)
	}

	// The canonical name may differ in case or spelling from the
	// user's input; re-check before inserting a duplicate row.
	if existing, err := s.movieRepo.GetByName(data.Name); err == nil {
		return existing, nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	movie := &models.Movie{
		Name:          data.Name,
		ReleaseYear:   data.Year,
		Director:      data.Director,
		IMDBID:        data.IMDBID,
		IMDBRating:    data.Rating,
		Genre:         data.Genre,
		Img:           data.Img,
		Country:       data.Country,
		CountryAlpha2: data.Alpha2,
	}
	if err := s.movieRepo.Create(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// UpdateFavoriteRequest carries the rating/note form fields. A nil
// rating means "not supplied". An empty note means "leave unchanged":
// partial form submissions must not silently blank an existing note.
type UpdateFavoriteRequest struct {
	Rating *float64
	Note   string
}

// UpdateRating applies the user's rating and note to a favorite.
// Returns updated=false without writing when no qualifying field was
// supplied.
func (s *FavoriteService) UpdateRating(userID, movieID uint, req UpdateFavoriteRequest) (bool, error) {
	link, err := s.userMovieRepo.GetByIDs(userID, movieID)
	if err != nil {
		return false, err
	}

	updated := false
	if req.Rating != nil {
		link.UserRating = req.Rating
		updated = true
	}
	if req.Note != "" {
		note := req.Note
		link.UserNote = &note
		updated = true
	}

	if !updated {
		return false, nil
	}
	return true, s.userMovieRepo.Update(link)
}

// Remove deletes a favorite; an attached review goes with it in the
// same transaction.
func (s *FavoriteService) Remove(userID, movieID uint) error {
	return s.userMovieRepo.Delete(userID, movieID)
}

// FindMovieByName matches the catalog by case-insensitive exact name.
func (s *FavoriteService) FindMovieByName(name string) (*models.Movie, error) {
	return s.movieRepo.GetByName(name)
}

// ListFavorites retrieves all of a user's favorites with their
// catalog entries.
func (s *FavoriteService) ListFavorites(userID uint) ([]repositories.FavoriteMovie, error) {
	return s.userMovieRepo.ListByUser(userID)
}

// GetFavorite retrieves one favorite with its catalog entry, e.g. for
// the edit form.
func (s *FavoriteService) GetFavorite(userID, movieID uint) (*repositories.FavoriteMovie, error) {
	return s.userMovieRepo.GetWithMovie(userID, movieID)
}

// ListCatalog retrieves every movie in the shared catalog.
func (s *FavoriteService) ListCatalog() ([]models.Movie, error) {
	return s.movieRepo.GetAll()
}

// GetMovie retrieves a single catalog entry.
func (s *FavoriteService) GetMovie(movieID uint) (*models.Movie, error) {
	return s.movieRepo.GetByID(movieID)
}
