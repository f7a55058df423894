package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"smartintern/internal/ai"
	"smartintern/internal/api/middleware"
	"smartintern/internal/auth"
	"smartintern/internal/automation"
)

// RegisterRoutes 注册 API 路由。Paths are unprefixed (no version segment).
// db and engine may be nil when the service booted without a database
// connection string; the affected handlers then answer 503.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	authService *auth.AuthService,
	aiService *ai.Service,
	engine *automation.Engine,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	loginRateLimitPerHour int,
	loginLockThreshold int,
	loginLockTTL time.Duration,
) {
	authHandler := NewAuthHandler(db, authService, redisClient, logger, loginRateLimitPerHour, loginLockThreshold, loginLockTTL)
	applicationHandler := NewApplicationHandler(db)
	aiHandler := NewAIHandler(db, aiService, logger)
	automationHandler := NewAutomationHandler(engine)
	authMiddleware := middleware.AuthMiddleware(authService)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	applicationGroup := router.Group("/applications")
	applicationGroup.Use(authMiddleware)
	{
		applicationGroup.GET("", applicationHandler.List)
		applicationGroup.POST("", applicationHandler.Create)
		applicationGroup.PATCH("/:id", applicationHandler.UpdateStatus)
		applicationGroup.DELETE("/:id", applicationHandler.Delete)
	}

	aiGroup := router.Group("/ai")
	aiGroup.Use(authMiddleware)
	{
		aiGroup.POST("/analyze", aiHandler.Analyze)
		aiGroup.POST("/cold-email", aiHandler.ColdEmail)
		aiGroup.POST("/chat", aiHandler.Chat)
	}

	automationGroup := router.Group("/automation")
	automationGroup.Use(authMiddleware)
	{
		automationGroup.GET("/run", automationHandler.Run)
	}
}
