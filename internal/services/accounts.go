package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"coinpulse/internal/apperr"
	"coinpulse/internal/models"
	"coinpulse/internal/utils"
)

const (
	MinPasswordLength = 6
	// bcrypt refuses longer input.
	MaxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountService creates users and checks their credentials.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apperr.Invalid("email", "is required")
	}
	if !emailPattern.MatchString(email) {
		return apperr.Invalid("email", "must be a valid email address")
	}
	if len(password) < MinPasswordLength {
		return apperr.Invalid("password", "must be at least 6 characters")
	}
	if len(password) > MaxPasswordLength {
		return apperr.Invalid("password", "must be at most 72 bytes")
	}
	return nil
}

// Register creates a user. The email is normalized before the uniqueness
// check, so addresses differing only in case collide.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Storage("check email", err)
	}
	if count > 0 {
		return nil, apperr.ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent signup for the same address
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, apperr.Storage("create user", err)
	}
	return &user, nil
}

// Authenticate returns the user for email if password matches. An unknown
// address yields ErrUnknownEmail, a wrong password ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrUnknownEmail
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	return &user, nil
}

// FindByID re-resolves a principal. A missing row is ErrUnauthorized.
func (s *AccountService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return &user, nil
}
