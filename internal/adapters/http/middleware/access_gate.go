package middleware

import (
	"strings"

	"guilde-api/internal/config"
	"guilde-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Route classes for the access gate. Classification is by path prefix so
// nested pages (/admin/membres/xyz) inherit the class of their section.
const (
	routePublic = iota
	routeAuthEntry
	routeProtected
	routeAdmin
)

// authEntryPaths are the sign-in/sign-up pages: reachable only without a
// session, otherwise redirected to the account page.
var authEntryPaths = []string{
	"/connexion",
	"/inscription",
	"/mot-de-passe-oublie",
}

// protectedPrefixes are the member pages: a session is required.
var protectedPrefixes = []string{
	"/compte",
	"/couronnes",
	"/calendrier",
	"/evenements",
	"/hall",
}

func classifyRoute(path string) int {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return routeAdmin
	}
	for _, p := range authEntryPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return routeAuthEntry
		}
	}
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return routeProtected
		}
	}
	return routePublic
}

// AccessGate enforces the page-level access rules:
//
//   - auth entry pages with a live session redirect to /compte
//   - protected pages without a session redirect to /connexion
//   - admin pages additionally require the profile's admin flag, re-read
//     from the database on every request; a failed lookup denies access
//     and redirects to /compte rather than letting the request through
//
// A request that passes with a session gets a fresh access cookie, so
// active users are never logged out mid-browsing.
func AccessGate(cfg *config.Config, profiles ProfileSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		class := classifyRoute(c.Path())

		var claims *jwt.Claims
		if token := tokenFromRequest(c); token != "" {
			claims, _ = jwt.ValidateAccessToken(token, cfg.JWT.Secret)
		}

		switch class {
		case routeAuthEntry:
			if claims != nil {
				return c.Redirect("/compte", fiber.StatusFound)
			}
			return c.Next()

		case routePublic:
			if claims != nil {
				setIdentity(c, claims)
				refreshAccessCookie(c, cfg, claims)
			}
			return c.Next()
		}

		// Protected and admin pages require a session. Anonymous
		// requests are turned away before any database access.
		if claims == nil {
			return c.Redirect("/connexion", fiber.StatusFound)
		}

		profile, err := profiles.GetProfileByID(c.Context(), claims.ProfileID)
		if err != nil {
			if class == routeAdmin {
				return c.Redirect("/compte", fiber.StatusFound)
			}
			return c.Redirect("/connexion", fiber.StatusFound)
		}

		if class == routeAdmin && !profile.IsAdmin {
			return c.Redirect("/compte", fiber.StatusFound)
		}

		setIdentity(c, claims)
		c.Locals("isAdmin", profile.IsAdmin)
		refreshAccessCookie(c, cfg, claims)

		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals("userID", claims.UserID)
	c.Locals("profileID", claims.ProfileID)
	c.Locals("email", claims.Email)
}

// refreshAccessCookie re-issues the access cookie with a full lifetime
// (sliding session)
func refreshAccessCookie(c *fiber.Ctx, cfg *config.Config, claims *jwt.Claims) {
	token, err := jwt.GenerateAccessToken(
		claims.UserID,
		claims.ProfileID,
		claims.Email,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.JWT.AccessTokenMins * 60,
		Secure:   cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
	})
}
