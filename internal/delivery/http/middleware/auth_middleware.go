// Package middleware contains the HTTP middlewares for the application.
package middleware

import (
	"strings"

	deliverycontext "konv/internal/delivery/context"
	"konv/internal/delivery/http/response"
	"konv/internal/domain/policy"
	"konv/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
// On success the verified actor is stored on the echo context for handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		c.Set(string(deliverycontext.KeyActor), policy.Actor{
			ID:            claims.UserID,
			Role:          claims.Role,
			Authenticated: true,
		})

		return next(c)
	}
}

// RequireStaff only lets staff roles through. It must be used AFTER the
// Authenticate middleware.
func (m *AuthMiddleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := GetActor(c)
		if !actor.Authenticated || !actor.Role.IsStaff() {
			return response.Forbidden(c, "STAFF_ONLY", "Permission denied: staff role required")
		}

		return next(c)
	}
}

// GetActor returns the authenticated actor stored by Authenticate, or a
// zero-value unauthenticated actor when absent.
func GetActor(c echo.Context) policy.Actor {
	if actor, ok := c.Get(string(deliverycontext.KeyActor)).(policy.Actor); ok {
		return actor
	}

	return policy.Actor{}
}
