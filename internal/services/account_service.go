package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"movieweb/internal/apperr"
	"movieweb/internal/models"
	"movieweb/internal/repositories"
	"movieweb/pkg/events"
)

// ErrInvalidCredentials is returned for every failed login attempt.
// A missing account and a wrong password are indistinguishable to the
// caller so the response never leaks which one occurred.
var ErrInvalidCredentials = errors.New("invalid email and/or password")

// AccountService handles registration, authentication and account
// lifecycle.
type AccountService struct {
	userRepo   repositories.UserRepository
	mqClient   *events.Client
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAccountService creates a new AccountService. mqClient may be nil
// when no broker is configured.
func NewAccountService(userRepo repositories.UserRepository, mqClient *events.Client, jwtSecret string) *AccountService {
	return &AccountService{
		userRepo:   userRepo,
		mqClient:   mqClient,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Name           string
	Email          string
	Password       string
	RepeatPassword string
}

// Register validates the form, hashes the password and persists a new
// user. Failures come back as typed errors; how they are presented
// (structured response vs. user notice) is the caller's choice.
func (s *AccountService) Register(req RegisterRequest) (*models.User, error) {
	if req.Password != req.RepeatPassword {
		return nil, apperr.Validation("passwords don't match")
	}

	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, apperr.Duplicate("email already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.mqClient.Publish(events.TypeUserRegistered, map[string]interface{}{
		"userID": user.ID,
		"email":  user.Email,
	}); err != nil {
		log.Printf("Warning: failed to publish registration event for user %d: %v", user.ID, err)
	}

	return user, nil
}

// Authenticate looks the user up by exact email and verifies the
// password against the stored bcrypt hash.
func (s *AccountService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken generates a signed JWT for an authenticated user.
func (s *AccountService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if
// valid.
func (s *AccountService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UpdateUserRequest carries the profile form fields. Empty strings
// mean "leave unchanged".
type UpdateUserRequest struct {
	Name     string
	Email    string
	Password string
}

// Update applies any subset of name/email/password to the account. A
// call with no recognized field performs no write and reports
// updated=false. A new password is re-hashed before storing.
func (s *AccountService) Update(userID uint, req UpdateUserRequest) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, err
	}

	updated := false
	if req.Name != "" {
		user.Name = req.Name
		updated = true
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
			return false, apperr.Duplicate("email already exists")
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			return false, err
		}
		user.Email = req.Email
		updated = true
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
		updated = true
	}

	if !updated {
		return false, nil
	}
	return true, s.userRepo.Update(user)
}

// Delete removes the account and cascades over its favorites and
// their reviews.
func (s *AccountService) Delete(userID uint) error {
	return s.userRepo.Delete(userID)
}

// GetByID retrieves a single user.
func (s *AccountService) GetByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// List retrieves all registered users.
func (s *AccountService) List() ([]models.User, error) {
	return s.userRepo.GetAll()
}
