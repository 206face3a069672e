// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agritrace/agritrace-backend/internal/config"
	"github.com/agritrace/agritrace-backend/internal/handlers"
	"github.com/agritrace/agritrace-backend/internal/middleware"
	"github.com/agritrace/agritrace-backend/internal/models"
	"github.com/agritrace/agritrace-backend/internal/services"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	identityService := services.NewIdentityService(db, cfg)
	produceService := services.NewProduceService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	participantHandler := handlers.NewParticipantHandler(identityService)
	produceHandler := handlers.NewProduceHandler(produceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit.GeneralBurst))
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit.AuthBurst))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Participant routes
		participants := v1.Group("/participants")
		participants.Use(middleware.AuthRequired())
		{
			participants.GET("", participantHandler.ListParticipants)
			participants.GET("/:id", participantHandler.GetParticipant)
		}

		// Produce ledger routes
		produce := v1.Group("/produce")
		{
			produce.GET("", middleware.OptionalAuth(), produceHandler.ListProduce)
			produce.GET("/:id", middleware.OptionalAuth(), produceHandler.GetProduce)
			produce.GET("/:id/history", middleware.OptionalAuth(), produceHandler.GetProduceHistory)

			// Authenticated routes
			protected := produce.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.RoleRequired(models.RoleFarmer), produceHandler.RegisterProduce)
				protected.GET("/mine", produceHandler.GetMyProduce)
				protected.POST("/:id/transfer", produceHandler.TransferProduce)
			}
		}
	}

	return r
}
