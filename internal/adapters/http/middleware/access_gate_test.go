package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"guilde-api/internal/adapters/persistence/models"
	"guilde-api/internal/config"
	"guilde-api/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProfileSource struct {
	profiles map[string]*models.Profile
	err      error
	lookups  int
}

func (f *fakeProfileSource) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func gateTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 15,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
}

func gateTestApp(cfg *config.Config, profiles *fakeProfileSource) *fiber.App {
	app := fiber.New()
	app.Use(AccessGate(cfg, profiles))
	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func accessToken(t *testing.T, cfg *config.Config, profileID string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(1, profileID, "test@example.fr", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	return token
}

func TestAccessGateDecisionTable(t *testing.T) {
	cfg := gateTestConfig()

	member := &models.Profile{ID: "member-1", Email: "m@example.fr", Status: "active"}
	admin := &models.Profile{ID: "admin-1", Email: "a@example.fr", Status: "active", IsAdmin: true}

	tests := []struct {
		name         string
		path         string
		profileID    string // empty = anonymous
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "anonymous on public page passes",
			path:       "/",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "anonymous on auth entry passes",
			path:       "/connexion",
			wantStatus: fiber.StatusOK,
		},
		{
			name:         "session on auth entry redirects to account",
			path:         "/connexion",
			profileID:    "member-1",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/compte",
		},
		{
			name:         "session on signup page redirects to account",
			path:         "/inscription",
			profileID:    "member-1",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/compte",
		},
		{
			name:         "anonymous on protected page redirects to login",
			path:         "/compte",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/connexion",
		},
		{
			name:         "anonymous on dues page redirects to login",
			path:         "/couronnes",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/connexion",
		},
		{
			name:       "member on protected page passes",
			path:       "/compte",
			profileID:  "member-1",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "member on nested protected page passes",
			path:       "/evenements/12",
			profileID:  "member-1",
			wantStatus: fiber.StatusOK,
		},
		{
			name:         "anonymous on admin redirects to login",
			path:         "/admin",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/connexion",
		},
		{
			name:         "member on admin redirects to account",
			path:         "/admin",
			profileID:    "member-1",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/compte",
		},
		{
			name:         "member on nested admin page redirects to account",
			path:         "/admin/membres/member-1",
			profileID:    "member-1",
			wantStatus:   fiber.StatusFound,
			wantLocation: "/compte",
		},
		{
			name:       "admin on admin passes",
			path:       "/admin/membres",
			profileID:  "admin-1",
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &fakeProfileSource{profiles: map[string]*models.Profile{
				member.ID: member,
				admin.ID:  admin,
			}}
			app := gateTestApp(cfg, profiles)

			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.profileID != "" {
				req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, tt.profileID))
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
			}
		})
	}
}

func TestAccessGateAdminFailsClosed(t *testing.T) {
	cfg := gateTestConfig()

	// The profile lookup fails entirely: a logged-in user must be turned
	// away from admin pages, not let through.
	profiles := &fakeProfileSource{err: errors.New("db down")}
	app := gateTestApp(cfg, profiles)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, "admin-1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/compte", resp.Header.Get("Location"))
}

func TestAccessGateProtectedLookupFailureRedirectsToLogin(t *testing.T) {
	cfg := gateTestConfig()

	profiles := &fakeProfileSource{err: errors.New("db down")}
	app := gateTestApp(cfg, profiles)

	req := httptest.NewRequest("GET", "/compte", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, "member-1"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/connexion", resp.Header.Get("Location"))
}

func TestAccessGateAnonymousAdminDoesNoLookup(t *testing.T) {
	cfg := gateTestConfig()

	profiles := &fakeProfileSource{}
	app := gateTestApp(cfg, profiles)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, profiles.lookups, "anonymous requests must not hit the profile store")
}

func TestAccessGateInvalidTokenTreatedAsAnonymous(t *testing.T) {
	cfg := gateTestConfig()

	profiles := &fakeProfileSource{}
	app := gateTestApp(cfg, profiles)

	req := httptest.NewRequest("GET", "/compte", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/connexion", resp.Header.Get("Location"))
	assert.Equal(t, 0, profiles.lookups)
}

func TestAccessGateSlidingSession(t *testing.T) {
	cfg := gateTestConfig()

	member := &models.Profile{ID: "member-1", Email: "m@example.fr", Status: "active"}

	// Every authenticated pass-through re-issues the access cookie, on
	// public pages as well as protected ones
	paths := []string{"/compte", "/", "/postuler"}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			profiles := &fakeProfileSource{profiles: map[string]*models.Profile{member.ID: member}}
			app := gateTestApp(cfg, profiles)

			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg, member.ID))

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var found bool
			for _, cookie := range resp.Cookies() {
				if cookie.Name == "access_token" && cookie.Value != "" {
					found = true
				}
			}
			assert.True(t, found, "expected a fresh access_token cookie")
		})
	}
}

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/", routePublic},
		{"/postuler", routePublic},
		{"/auth/callback", routePublic},
		{"/connexion", routeAuthEntry},
		{"/connexion/lien-magique", routeAuthEntry},
		{"/inscription", routeAuthEntry},
		{"/mot-de-passe-oublie", routeAuthEntry},
		{"/compte", routeProtected},
		{"/compte/logo", routeProtected},
		{"/couronnes", routeProtected},
		{"/calendrier", routeProtected},
		{"/evenements", routeProtected},
		{"/hall", routeProtected},
		{"/admin", routeAdmin},
		{"/admin/membres/abc", routeAdmin},
		{"/administration", routePublic}, // prefix match must not over-reach
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyRoute(tt.path))
		})
	}
}
