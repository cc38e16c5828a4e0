// Package service defines domain-level service interfaces implemented by the
// infrastructure layer.
package service

import (
	"time"

	"konv/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims is the decoded content of a verified token.
type Claims struct {
	UserID uuid.UUID
	Role   entity.Role
	Type   string // "access" or "refresh"
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID, role entity.Role) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}

// PasswordHasher abstracts password hashing from the use cases.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a stored hash.
	Check(password, hash string) bool
}
