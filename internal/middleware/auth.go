package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the profile claims issued at login
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// TokenValidator checks HS256 bearer tokens and resolves their subject
type TokenValidator struct {
	validator *validator.Validator
}

// NewTokenValidator creates a validator for tokens signed with secret
func NewTokenValidator(secret, issuer, audience string) (*TokenValidator, error) {
	key := []byte(secret)
	keyFunc := func(context.Context) (interface{}, error) {
		return key, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &TokenValidator{validator: jwtValidator}, nil
}

// Validate verifies token and returns its claims and the user ID from the subject
func (v *TokenValidator) Validate(ctx context.Context, token string) (*validator.ValidatedClaims, uuid.UUID, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, uuid.Nil, fmt.Errorf("%w: unexpected claims type", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(validated.RegisteredClaims.Subject)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	return validated, userID, nil
}

// ValidateToken verifies token and returns the user ID it was issued to
func (v *TokenValidator) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	_, userID, err := v.Validate(ctx, token)
	return userID, err
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator *TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(v *TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: v}
}

// Authenticate returns an Echo middleware that validates bearer tokens and
// stores the caller's user ID in the request context
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return unauthorizedError(c, "invalid authorization header format")
			}

			claims, userID, err := m.validator.Validate(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserIDKey, userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}
