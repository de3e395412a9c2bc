package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
)

// userService handles user-related business logic.
type userService struct {
	store *store.Store
}

// NewUserService creates a new UserServicer.
func NewUserService(s *store.Store) UserServicer {
	return &userService{store: s}
}

// CreateUser registers a new user
func (s *userService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	var count int64
	err := s.store.Run(ctx, "count users", func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	hash := string(hashedPassword)

	user := &models.User{
		Email:        email,
		PasswordHash: &hash,
		Name:         strings.TrimSpace(name),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateID) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.store.Run(ctx, "find user", func(tx *gorm.DB) error {
		return tx.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.store.Run(ctx, "find user", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&user).Error
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash.
// Users without a password hash can only sign in through an identity provider.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	if user.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) == nil
}

// AttemptLogin verifies credentials without revealing which half was wrong.
func (s *userService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
