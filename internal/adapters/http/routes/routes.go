package routes

import (
	"log"
	"time"

	"guilde-api/internal/adapters/http/handlers"
	"guilde-api/internal/adapters/http/middleware"
	"guilde-api/internal/adapters/persistence/repositories"
	"guilde-api/internal/config"
	"guilde-api/internal/core/services"
	"guilde-api/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	cotisationRepo := repositories.NewCotisationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	loginCodeRepo := repositories.NewLoginCodeRepository(db)
	eventRepo := repositories.NewEventRepository(db)

	// Object storage for member logos
	logoStore, err := storage.NewLogoStore(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		UseTLS:          cfg.Storage.UseTLS,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize logo storage: %v", err)
	}

	// Initialize services
	mailService := services.NewMailService()
	authService := services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, loginCodeRepo, mailService, cfg)
	applicationService := services.NewApplicationService(profileRepo, authService, mailService)
	profileService := services.NewProfileService(profileRepo, cotisationRepo, logoStore)
	memberService := services.NewMemberService(profileRepo, cotisationRepo, logoStore)
	userService := services.NewUserService(userRepo, profileRepo, refreshTokenRepo)
	eventService := services.NewEventService(eventRepo)
	dashboardService := services.NewDashboardService(profileRepo, cotisationRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	profileHandler := handlers.NewProfileHandler(profileService)
	memberHandler := handlers.NewMemberHandler(memberService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Page-level access rules: applies to every route, classifying by
	// path prefix. Public paths pass straight through.
	app.Use(middleware.AccessGate(cfg, authService))

	// Health check & root routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "La Guilde des Voyageurs API",
			"version": "1.0.0",
		})
	})
	app.Get("/health", healthHandler.Check)

	// Public routes
	setupAuthRoutes(app, authHandler, cfg)
	app.Post("/postuler", middleware.StrictRateLimiter(), applicationHandler.Apply)

	// Member routes (behind the gate)
	setupMemberRoutes(app, profileHandler, eventHandler)

	// Admin routes (behind the gate's admin rule)
	setupAdminRoutes(app, authService, dashboardHandler, memberHandler, userHandler, eventHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(app *fiber.App, handler *handlers.AuthHandler, cfg *config.Config) {
	// Sign-in endpoints, rate limited against brute force
	app.Post("/connexion", middleware.AuthRateLimiter(), handler.Login)
	app.Post("/connexion/lien-magique", middleware.AuthRateLimiter(), handler.MagicLink)

	// Magic-link landing: exchanges the code and redirects
	app.Get("/auth/callback", middleware.AuthRateLimiter(), handler.Callback)

	app.Post("/auth/refresh", handler.RefreshToken)
	app.Post("/auth/deconnexion", handler.Logout)

	// Protected
	app.Get("/auth/me", middleware.AuthMiddleware(cfg), handler.Me)
	app.Post("/auth/deconnexion-globale", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupMemberRoutes configures member pages. The access gate has already
// established identity for these paths.
func setupMemberRoutes(app *fiber.App, profileHandler *handlers.ProfileHandler, eventHandler *handlers.EventHandler) {
	// Account page
	compte := app.Group("/compte", middleware.NoCacheHeaders())
	compte.Get("/", profileHandler.GetProfile)
	compte.Put("/", profileHandler.UpdateProfile)
	compte.Post("/logo", middleware.StrictRateLimiter(), profileHandler.UploadLogo)

	// Dues history (couronnes)
	app.Get("/couronnes", middleware.NoCacheHeaders(), profileHandler.MyCotisations)

	// Calendar and events
	app.Get("/calendrier", middleware.PublicCache(5*time.Minute), eventHandler.Calendar)
	app.Get("/evenements", middleware.PublicCache(5*time.Minute), eventHandler.Calendar)
	app.Post("/evenements", eventHandler.CreateEvent)
	app.Put("/evenements/:id", eventHandler.UpdateEvent)

	// Member directory
	app.Get("/hall", middleware.PublicCache(5*time.Minute), profileHandler.Hall)
}

// setupAdminRoutes configures admin pages. The gate redirects anonymous
// visitors away; AdminOnly re-checks the flag so a direct API call with a
// member token still gets a 403.
func setupAdminRoutes(
	app *fiber.App,
	authService *services.AuthService,
	dashboardHandler *handlers.DashboardHandler,
	memberHandler *handlers.MemberHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
) {
	admin := app.Group("/admin", middleware.AdminOnly(authService), middleware.NoCacheHeaders())

	// Dashboard
	admin.Get("/", dashboardHandler.GetStats)

	// Member management
	admin.Get("/membres", memberHandler.ListMembers)
	admin.Get("/membres/:id", memberHandler.GetMember)
	admin.Put("/membres/:id", memberHandler.UpdateMember)
	admin.Post("/membres/:id/logo", memberHandler.UploadLogo)

	// Account management
	admin.Get("/utilisateurs", userHandler.ListUsers)
	admin.Put("/utilisateurs/:id", userHandler.SetActive)
	admin.Put("/utilisateurs/:id/mot-de-passe", userHandler.SetPassword)

	// Event management
	admin.Get("/evenements", eventHandler.ListAll)
	admin.Post("/evenements", eventHandler.CreateEvent)
	admin.Put("/evenements/:id", eventHandler.UpdateEvent)
	admin.Delete("/evenements/:id", eventHandler.DeleteEvent)
}
