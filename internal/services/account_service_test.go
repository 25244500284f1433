package services_test

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
	"movieweb/internal/services"
)

// MockUserRepository is a mock implementation of
// repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAccountService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService := services.NewAccountService(mockRepo, nil, "test_jwt_secret")

	req := services.RegisterRequest{
		Name:           "Test User",
		Email:          "test@example.com",
		Password:       "password123",
		RepeatPassword: "password123",
	}

	// Successful registration hashes the password before persisting.
	mockRepo.On("GetByEmail", req.Email).Return(nil, apperr.NotFound("user not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored := args.Get(0).(*models.User)
		assert.NotEqual(t, req.Password, stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.Password)))
	}).Return(nil).Once()

	user, err := accountService.Register(req)
	assert.NoError(t, err)
	assert.Equal(t, req.Email, user.Email)
	mockRepo.AssertExpectations(t)

	// Mismatched passwords fail validation before any repository call.
	mismatched := req
	mismatched.RepeatPassword = "different"
	_, err = accountService.Register(mismatched)
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "passwords don't match", apperr.Message(err))

	// Re-registering an existing email is always a duplicate.
	mockRepo.On("GetByEmail", req.Email).Return(&models.User{ID: 1, Email: req.Email}, nil).Once()
	_, err = accountService.Register(req)
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService := services.NewAccountService(mockRepo, nil, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       1,
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Name:     "Test User",
	}

	// Successful login.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	got, err := accountService.Authenticate(user.Email, "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Wrong password and unknown email produce the same error so the
	// caller cannot tell which case occurred.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, errWrongPassword := accountService.Authenticate(user.Email, "wrongpassword")
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, apperr.NotFound("user not found")).Once()
	_, errNoUser := accountService.Authenticate("nobody@example.com", "password123")
	assert.ErrorIs(t, errNoUser, services.ErrInvalidCredentials)

	assert.Equal(t, errWrongPassword.Error(), errNoUser.Error())
	mockRepo.AssertExpectations(t)
}

func TestAccountService_TokenRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService := services.NewAccountService(mockRepo, nil, "test_jwt_secret")

	user := &models.User{ID: 42, Email: "test@example.com"}
	token, err := accountService.IssueToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := accountService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])

	_, err = accountService.ValidateToken(token + "tampered")
	assert.Error(t, err)
}

func TestAccountService_Update(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService := services.NewAccountService(mockRepo, nil, "test_jwt_secret")

	user := &models.User{ID: 1, Email: "test@example.com", Name: "Old Name", Password: "oldhash"}

	// A call with no recognized field performs no write.
	mockRepo.On("GetByID", uint(1)).Return(user, nil).Once()
	updated, err := accountService.Update(1, services.UpdateUserRequest{})
	assert.NoError(t, err)
	assert.False(t, updated)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)

	// A new password is re-hashed before storing.
	mockRepo.On("GetByID", uint(1)).Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored := args.Get(0).(*models.User)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword")))
	}).Return(nil).Once()
	updated, err = accountService.Update(1, services.UpdateUserRequest{Password: "newpassword"})
	assert.NoError(t, err)
	assert.True(t, updated)

	// Changing to an email someone else holds is a duplicate.
	mockRepo.On("GetByID", uint(1)).Return(user, nil).Once()
	mockRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: 2}, nil).Once()
	_, err = accountService.Update(1, services.UpdateUserRequest{Email: "taken@example.com"})
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicate))
	mockRepo.AssertExpectations(t)
}
