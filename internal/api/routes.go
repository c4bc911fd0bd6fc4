package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portfolioPro/internal/api/middleware"
	"portfolioPro/internal/auth"
	"portfolioPro/internal/config"
	"portfolioPro/internal/notify"
	"portfolioPro/internal/portfolio"
	"portfolioPro/internal/resource"
	"portfolioPro/internal/storage"
)

// RegisterRoutes wires every handler under /v1. The /me group requires a
// bearer token and serves the caller's own data; /public serves read-only
// cross-user views.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	notifier := notify.NewService(db, redisClient, logger)

	authHandler := NewAuthHandler(
		db, authService, redisClient, logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		time.Duration(cfg.Auth.LoginLockMinutes)*time.Minute,
		cfg.API.CookieDomain,
	)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedWSOrigins)
	authMiddleware := middleware.AuthMiddleware(authService)

	educationHandler := NewEducationHandler(resource.NewEducationService(db))
	certificationHandler := NewCertificationHandler(resource.NewCertificationService(db))
	skillHandler := NewSkillHandler(resource.NewSkillService(db))
	socialLinkHandler := NewSocialLinkHandler(resource.NewSocialLinkService(db))
	contentBlockHandler := NewContentBlockHandler(resource.NewContentBlockService(db))
	customSectionHandler := NewCustomSectionHandler(resource.NewCustomSectionService(db))
	mediaHandler := NewMediaHandler(
		resource.NewMediaItemService(db), storageClient, logger,
		cfg.Media.ClamdAddr, cfg.Media.MaxUploadBytes,
	)

	profileHandler := NewProfileHandler(db, logger)
	settingsHandler := NewSettingsHandler(db, logger)
	portfolioHandler := NewPortfolioHandler(portfolio.NewPortfolioService(db))
	projectHandler := NewProjectHandler(portfolio.NewProjectService(db, notifier, logger))
	testimonialHandler := NewTestimonialHandler(db, notifier, logger)
	notificationHandler := NewNotificationHandler(notifier)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		owned := v1.Group("/me")
		owned.Use(authMiddleware)

		public := v1.Group("/public")

		educationHandler.Register(owned, public, "education")
		certificationHandler.Register(owned, public, "certifications")
		skillHandler.Register(owned, public, "skills")
		socialLinkHandler.Register(owned, public, "social-links")
		contentBlockHandler.Register(owned, public, "content-blocks")
		customSectionHandler.Register(owned, public, "custom-sections")
		mediaHandler.Register(owned, public)

		profileHandler.Register(owned, public)
		settingsHandler.Register(owned)
		portfolioHandler.Register(owned, public)
		projectHandler.Register(owned, public)
		testimonialHandler.Register(owned, public)
		notificationHandler.Register(owned)
	}
}
