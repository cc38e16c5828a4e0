// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"konv/config"
	"konv/internal/domain/entity"
	"konv/internal/domain/service"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = time.Minute * 15
	defaultRefreshTTL = time.Hour * 24 * 7
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL := defaultAccessTTL
	refreshTTL := defaultRefreshTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTTL > 0 {
			accessTTL = cfg.Auth.AccessTTL
		}
		if cfg.Auth.RefreshTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTTL
		}
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// GenerateTokens creates a new access token and refresh token for a given user.
func (s *jwtService) GenerateTokens(userID uuid.UUID, role entity.Role) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(userID, role, s.accessTTL, s.accessSecret, tokenTypeAccess)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(userID, role, s.refreshTTL, s.refreshSecret, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken checks an access token and returns its claims.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.accessSecret, tokenTypeAccess)
}

// ValidateRefreshToken checks a refresh token and returns its claims.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.validateToken(tokenString, s.refreshSecret, tokenTypeRefresh)
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, role entity.Role, ttl time.Duration, secret, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role.String(),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
		"type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// validateToken parses and verifies a token, then decodes its claims. A token
// of the wrong type is rejected even when its signature checks out.
func (s *jwtService) validateToken(tokenString, secret, expectedType string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType != expectedType {
		return nil, jwt.ErrTokenInvalidClaims
	}

	subject, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	roleClaim, _ := mapClaims["role"].(string)
	role := entity.Role(roleClaim)
	if !role.IsValid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &service.Claims{
		UserID: userID,
		Role:   role,
		Type:   tokenType,
	}, nil
}
