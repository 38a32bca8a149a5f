package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new passwords
const PasswordHashCost = 10

// AuthService handles signup, login and profile lookup
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *TokenIssuer
	// dummyHash keeps unknown-email logins as slow as wrong-password ones
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens *TokenIssuer) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("fintrack-placeholder"), PasswordHashCost)
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		dummyHash: dummy,
	}
}

// SignupInput holds the input for creating an account
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is a freshly issued token with the user it belongs to
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Signup validates input, hashes the password and stores the new user
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewFieldError("name", domain.ErrNameRequired)
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, domain.NewFieldError("name", fmt.Errorf("name exceeds %d characters: %w", domain.MaxNameLength, domain.ErrInvalidInput))
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, domain.NewFieldError("email", err)
	}

	if utf8.RuneCountInString(input.Password) < domain.MinPasswordLength {
		return nil, domain.NewFieldError("password", domain.ErrPasswordTooShort)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordHashCost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.NewFieldError("password", fmt.Errorf("password is too long: %w", domain.ErrInvalidInput))
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.NewFieldError("email", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return user, nil
}

// Login checks credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("Password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetCurrentUser returns the profile of the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// A valid token for a deleted user is no longer a valid session
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
