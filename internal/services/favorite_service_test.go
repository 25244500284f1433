package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
	"movieweb/internal/omdb"
	"movieweb/internal/repositories"
	"movieweb/internal/services"
)

// MockUserMovieRepository is a mock implementation of
// repositories.UserMovieRepository.
type MockUserMovieRepository struct {
	mock.Mock
}

func (m *MockUserMovieRepository) Create(link *models.UserMovie) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockUserMovieRepository) GetByIDs(userID, movieID uint) (*models.UserMovie, error) {
	args := m.Called(userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMovie), args.Error(1)
}

func (m *MockUserMovieRepository) GetByUserAndTitle(userID uint, title string) (*repositories.FavoriteMovie, error) {
	args := m.Called(userID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.FavoriteMovie), args.Error(1)
}

func (m *MockUserMovieRepository) GetWithMovie(userID, movieID uint) (*repositories.FavoriteMovie, error) {
	args := m.Called(userID, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.FavoriteMovie), args.Error(1)
}

func (m *MockUserMovieRepository) ListByUser(userID uint) ([]repositories.FavoriteMovie, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.FavoriteMovie), args.Error(1)
}

func (m *MockUserMovieRepository) Update(link *models.UserMovie) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockUserMovieRepository) AttachReview(link *models.UserMovie, review *models.Review) error {
	args := m.Called(link, review)
	return args.Error(0)
}

func (m *MockUserMovieRepository) Delete(userID, movieID uint) error {
	args := m.Called(userID, movieID)
	return args.Error(0)
}

// MockMovieRepository is a mock implementation of
// repositories.MovieRepository.
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(movie *models.Movie) error {
	args := m.Called(movie)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(id uint) (*models.Movie, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByName(name string) (*models.Movie, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetAll() ([]models.Movie, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

// MockMetadataClient is a mock implementation of
// services.MetadataClient.
type MockMetadataClient struct {
	mock.Mock
}

func (m *MockMetadataClient) GetMovieData(ctx context.Context, title, year string) (*omdb.MovieData, error) {
	args := m.Called(ctx, title, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*omdb.MovieData), args.Error(1)
}

func noFavorite(userID uint, title string) *apperr.Error {
	return apperr.NotFound("no favorite")
}

func TestFavoriteService_AddFavorite_CatalogHit(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	mockMetadata := new(MockMetadataClient)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, mockMetadata, nil)

	movie := &models.Movie{ID: 7, Name: "Inception", ReleaseYear: 2010}

	mockLinks.On("GetByUserAndTitle", uint(1), "inception").Return(nil, noFavorite(1, "inception")).Once()
	mockMovies.On("GetByName", "inception").Return(movie, nil).Once()
	mockLinks.On("Create", &models.UserMovie{UserID: 1, MovieID: 7}).Return(nil).Once()

	got, err := favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "inception"})
	assert.NoError(t, err)
	assert.Equal(t, movie, got)
	// The metadata client is never consulted for a known title.
	mockMetadata.AssertNotCalled(t, "GetMovieData", mock.Anything, mock.Anything, mock.Anything)
	mockLinks.AssertExpectations(t)
	mockMovies.AssertExpectations(t)
}

func TestFavoriteService_AddFavorite_Duplicate(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	mockMetadata := new(MockMetadataClient)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, mockMetadata, nil)

	existing := &repositories.FavoriteMovie{
		UserMovie: models.UserMovie{UserID: 1, MovieID: 7},
		Movie:     models.Movie{ID: 7, Name: "Inception"},
	}
	mockLinks.On("GetByUserAndTitle", uint(1), "INCEPTION").Return(existing, nil).Once()

	_, err := favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "INCEPTION"})
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	mockLinks.AssertNotCalled(t, "Create", mock.Anything)
	mockLinks.AssertExpectations(t)
}

func TestFavoriteService_AddFavorite_MetadataLookup(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	mockMetadata := new(MockMetadataClient)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, mockMetadata, nil)

	data := &omdb.MovieData{
		Name:     "Inception",
		Rating:   8.8,
		Year:     2010,
		Genre:    "Action, Adventure, Sci-Fi",
		Director: "Christopher Nolan",
		Country:  "United States, United Kingdom",
		Alpha2:   "US",
		IMDBID:   "tt1375666",
	}

	mockLinks.On("GetByUserAndTitle", uint(1), "inception").Return(nil, noFavorite(1, "inception")).Once()
	// The user's spelling misses the catalog, but the canonical name
	// from the lookup is re-checked before inserting.
	mockMovies.On("GetByName", "inception").Return(nil, apperr.NotFound("not in catalog")).Once()
	mockMetadata.On("GetMovieData", mock.Anything, "inception", "2010").Return(data, nil).Once()
	mockMovies.On("GetByName", "Inception").Return(nil, apperr.NotFound("not in catalog")).Once()
	mockMovies.On("Create", mock.AnythingOfType("*models.Movie")).Run(func(args mock.Arguments) {
		created := args.Get(0).(*models.Movie)
		created.ID = 9
		assert.Equal(t, "Inception", created.Name)
		assert.Equal(t, 2010, created.ReleaseYear)
		assert.Equal(t, "US", created.CountryAlpha2)
	}).Return(nil).Once()
	mockLinks.On("Create", &models.UserMovie{UserID: 1, MovieID: 9}).Return(nil).Once()

	movie, err := favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "inception", ReleaseYear: "2010"})
	assert.NoError(t, err)
	assert.Equal(t, uint(9), movie.ID)
	mockLinks.AssertExpectations(t)
	mockMovies.AssertExpectations(t)
	mockMetadata.AssertExpectations(t)
}

func TestFavoriteService_AddFavorite_CanonicalNameAlreadyInCatalog(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	mockMetadata := new(MockMetadataClient)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, mockMetadata, nil)

	existing := &models.Movie{ID: 3, Name: "Seven"}
	data := &omdb.MovieData{Name: "Seven", Year: 1995, Country: "United States", Alpha2: "US"}

	mockLinks.On("GetByUserAndTitle", uint(1), "se7en").Return(nil, noFavorite(1, "se7en")).Once()
	mockMovies.On("GetByName", "se7en").Return(nil, apperr.NotFound("not in catalog")).Once()
	mockMetadata.On("GetMovieData", mock.Anything, "se7en", "").Return(data, nil).Once()
	mockMovies.On("GetByName", "Seven").Return(existing, nil).Once()
	mockLinks.On("Create", &models.UserMovie{UserID: 1, MovieID: 3}).Return(nil).Once()

	movie, err := favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "se7en"})
	assert.NoError(t, err)
	assert.Equal(t, existing, movie)
	// No second catalog row under the alternate spelling.
	mockMovies.AssertNotCalled(t, "Create", mock.Anything)
	mockMovies.AssertExpectations(t)
}

func TestFavoriteService_AddFavorite_LookupFailures(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	mockMetadata := new(MockMetadataClient)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, mockMetadata, nil)

	mockLinks.On("GetByUserAndTitle", uint(1), mock.Anything).Return(nil, noFavorite(1, "")).Times(3)
	mockMovies.On("GetByName", mock.Anything).Return(nil, apperr.NotFound("not in catalog")).Times(3)

	mockMetadata.On("GetMovieData", mock.Anything, "no such movie", "").Return(nil, omdb.ErrMovieNotFound).Once()
	_, err := favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "no such movie"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "movie not found!", apperr.Message(err))

	mockMetadata.On("GetMovieData", mock.Anything, "inception", "").Return(nil, omdb.ErrConnection).Once()
	_, err = favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "inception"})
	assert.True(t, apperr.IsKind(err, apperr.KindExternalLookup))
	assert.Equal(t, "connection error", apperr.Message(err))

	// Client failures outside the two sentinels keep their own message.
	mockMetadata.On("GetMovieData", mock.Anything, "broken", "").Return(nil, errors.New("invalid omdb base url")).Once()
	_, err = favoriteService.AddFavorite(context.Background(), 1, services.AddFavoriteRequest{Title: "broken"})
	assert.True(t, apperr.IsKind(err, apperr.KindExternalLookup))
	assert.Equal(t, "invalid omdb base url", apperr.Message(err))
	mockMetadata.AssertExpectations(t)
}

func TestFavoriteService_UpdateRating(t *testing.T) {
	mockLinks := new(MockUserMovieRepository)
	mockMovies := new(MockMovieRepository)
	favoriteService := services.NewFavoriteService(mockLinks, mockMovies, nil, nil)

	note := "old note"
	link := &models.UserMovie{UserID: 1, MovieID: 7, UserNote: &note}

	// An empty note leaves the existing note unchanged.
	mockLinks.On("GetByIDs", uint(1), uint(7)).Return(link, nil)
	updated, err := favoriteService.UpdateRating(1, 7, services.UpdateFavoriteRequest{Note: ""})
	assert.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, "old note", *link.UserNote)
	mockLinks.AssertNotCalled(t, "Update", mock.Anything)

	// A rating alone leaves the note untouched.
	rating := 4.5
	mockLinks.On("Update", link).Return(nil).Once()
	updated, err = favoriteService.UpdateRating(1, 7, services.UpdateFavoriteRequest{Rating: &rating})
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 4.5, *link.UserRating)
	assert.Equal(t, "old note", *link.UserNote)

	// A non-empty note overwrites.
	mockLinks.On("Update", link).Return(nil).Once()
	updated, err = favoriteService.UpdateRating(1, 7, services.UpdateFavoriteRequest{Note: "foo"})
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "foo", *link.UserNote)

	// Unknown favorite.
	mockLinks.On("GetByIDs", uint(1), uint(99)).Return(nil, apperr.NotFound("favorite not found")).Once()
	_, err = favoriteService.UpdateRating(1, 99, services.UpdateFavoriteRequest{Note: "foo"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	mockLinks.AssertExpectations(t)
}
