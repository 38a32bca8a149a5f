package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testIssuer   = "fintrack-test"
	testAudience = "fintrack-api-test"
)

var testSecret = strings.Repeat("s", 32)

func newTestAuthService() (*AuthService, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	issuer := NewTokenIssuer(testSecret, testIssuer, testAudience, time.Hour)
	return NewAuthService(repo, issuer), repo
}

func TestAuthService_Signup(t *testing.T) {
	svc, repo := newTestAuthService()

	user, err := svc.Signup(context.Background(), SignupInput{
		Name:     "  Ada Lovelace ",
		Email:    " Ada@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Name: "Other Ada", Email: "ADA@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	var fieldErr *domain.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "email", fieldErr.Field)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     SignupInput
		wantField string
		wantErr   error
	}{
		{"blank name", SignupInput{Name: "  ", Email: "a@b.co", Password: "secret1"}, "name", domain.ErrNameRequired},
		{"long name", SignupInput{Name: strings.Repeat("n", domain.MaxNameLength+1), Email: "a@b.co", Password: "secret1"}, "name", domain.ErrInvalidInput},
		{"missing email", SignupInput{Name: "Ada", Email: "", Password: "secret1"}, "email", domain.ErrInvalidEmail},
		{"malformed email", SignupInput{Name: "Ada", Email: "not-an-email", Password: "secret1"}, "email", domain.ErrInvalidEmail},
		{"display name email", SignupInput{Name: "Ada", Email: "Ada <ada@example.com>", Password: "secret1"}, "email", domain.ErrInvalidEmail},
		{"short password", SignupInput{Name: "Ada", Email: "a@b.co", Password: "12345"}, "password", domain.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestAuthService()

			user, err := svc.Signup(context.Background(), tt.input)

			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var fieldErr *domain.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.wantField, fieldErr.Field)
			assert.Empty(t, repo.ByID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)

	// The issued token must be accepted by the request authenticator
	v, err := middleware.NewTokenValidator(testSecret, testIssuer, testAudience)
	require.NoError(t, err)
	claims, userID, err := v.Validate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	custom, ok := claims.CustomClaims.(*middleware.CustomClaims)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", custom.Email)
	assert.Equal(t, "Ada", custom.Name)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "secret2"},
		{"unknown email", "bob@example.com", "secret1"},
		{"empty password", "ada@example.com", ""},
		{"malformed email", "ada", "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(ctx, tt.email, tt.password)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	user := repo.AddUser(&domain.User{Name: "Ada", Email: "ada@example.com"})

	got, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = svc.GetCurrentUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
