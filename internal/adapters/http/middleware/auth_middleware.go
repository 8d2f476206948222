package middleware

import (
	"context"
	"strings"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/config"
	"guilde-api/internal/pkg/jwt"
	"guilde-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileSource resolves an identity to its profile. Satisfied by
// AuthService; narrow on purpose so the gate is testable with fakes.
type ProfileSource interface {
	GetProfileByID(ctx context.Context, profileID string) (*models.Profile, error)
}

// AuthMiddleware creates authentication middleware for API endpoints.
// Rejections are JSON 401s, unlike the page gate which redirects.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("profileID", claims.ProfileID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// AdminOnly allows only profiles whose admin flag is set in the database.
// The flag is re-read on every request; any lookup failure denies access.
func AdminOnly(profiles ProfileSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID, ok := c.Locals("profileID").(string)
		if !ok || profileID == "" {
			return response.Unauthorized(c, "Unauthorized")
		}

		profile, err := profiles.GetProfileByID(c.Context(), profileID)
		if err != nil || !profile.IsAdmin {
			return response.Forbidden(c, "Administrator access required")
		}

		c.Locals("isAdmin", true)
		return c.Next()
	}
}

// OptionalAuth doesn't require auth but sets identity info if a valid
// token is present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := tokenFromRequest(c); accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("userID", claims.UserID)
				c.Locals("profileID", claims.ProfileID)
				c.Locals("email", claims.Email)
			}
		}

		return c.Next()
	}
}

// tokenFromRequest reads the access token from the cookie first, then
// the Authorization header
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
