package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"guilde-api/internal/adapters/persistence/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminTestApp(profiles *fakeProfileSource) *fiber.App {
	cfg := gateTestConfig()
	app := fiber.New()
	app.Get("/admin/membres",
		AuthMiddleware(cfg),
		AdminOnly(profiles),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestAdminOnly(t *testing.T) {
	cfg := gateTestConfig()

	member := &models.Profile{ID: "member-1", Email: "m@example.fr", Status: "active"}
	admin := &models.Profile{ID: "admin-1", Email: "a@example.fr", Status: "active", IsAdmin: true}

	tests := []struct {
		name       string
		profileID  string // empty = no token
		lookupErr  error
		wantStatus int
	}{
		{
			name:       "no token rejected",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "member token rejected",
			profileID:  "member-1",
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "admin token passes",
			profileID:  "admin-1",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "lookup failure denies access",
			profileID:  "admin-1",
			lookupErr:  errors.New("db down"),
			wantStatus: fiber.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &fakeProfileSource{
				profiles: map[string]*models.Profile{member.ID: member, admin.ID: admin},
				err:      tt.lookupErr,
			}
			app := adminTestApp(profiles)

			req := httptest.NewRequest("GET", "/admin/membres", nil)
			if tt.profileID != "" {
				req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, tt.profileID))
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareCookieBeforeHeader(t *testing.T) {
	cfg := gateTestConfig()

	app := fiber.New()
	app.Get("/auth/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("profileID").(string))
	})

	// A valid cookie wins over a garbage Authorization header
	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Cookie", "access_token="+accessToken(t, cfg, "member-1"))
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
