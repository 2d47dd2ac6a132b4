// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/handlers"
	"github.com/benepisyo/benefits-backend/internal/middleware"
	"github.com/benepisyo/benefits-backend/internal/retry"
	"github.com/benepisyo/benefits-backend/internal/services"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// One retry policy shared by every transactional operation.
	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, time.Duration(cfg.Retry.DelayMillis)*time.Millisecond)

	// Initialize services
	emailService := services.NewEmailService(cfg.Email, cfg.Frontend)
	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.WithError(err).Warn("S3 storage unavailable, document uploads will fail")
	}

	submissionService := services.NewSubmissionService(db, policy)
	documentService := services.NewDocumentService(db, policy)
	statusService := services.NewStatusService(db, policy, emailService)
	notificationService := services.NewNotificationService(db, policy)
	authService := services.NewAuthService(db, cfg.JWT, statusService)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(submissionService, statusService, documentService, notificationService)
	documentHandler := handlers.NewDocumentHandler(documentService, storageService)
	authHandler := handlers.NewAuthHandler(authService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService, statusService, documentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL, cfg.Environment == "development"))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
			auth.POST("/change-password", middleware.AuthRequired(), authHandler.ChangePassword)
		}

		// Application routes
		applications := v1.Group("/applications")
		{
			applications.POST("", middleware.SubmissionRateLimit(), applicationHandler.Submit)

			protected := applications.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/:code", applicationHandler.GetProfile)
				protected.GET("/:code/status", applicationHandler.GetStatus)
				protected.GET("/:code/documents", applicationHandler.GetDocuments)
				protected.POST("/:code/renewal", applicationHandler.RequestRenewal)
				protected.POST("/:code/documents/:kind", middleware.UploadRateLimit(), documentHandler.Upload)
				protected.DELETE("/:code/documents/:kind", documentHandler.Delete)
			}
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:type/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/applicants", adminHandler.ListApplicants)
			admin.GET("/audit-logs", adminHandler.AuditLogs)

			admin.POST("/applicants/:code/approve", adminHandler.Approve)
			admin.POST("/applicants/:code/decline", adminHandler.Decline)
			admin.POST("/applicants/:code/mark-renewal", adminHandler.MarkRenewal)
			admin.POST("/applicants/:code/approve-renewal", adminHandler.ApproveRenewal)
			admin.POST("/applicants/:code/decline-renewal", adminHandler.DeclineRenewal)
			admin.POST("/applicants/:code/remark", adminHandler.Remark)
			admin.POST("/applicants/:code/resolve-remarks", middleware.SuperAdminRequired(), adminHandler.ResolveRemarks)
			admin.POST("/applicants/:code/terminate", middleware.SuperAdminRequired(), adminHandler.Terminate)
			admin.POST("/applicants/:code/reactivate", middleware.SuperAdminRequired(), adminHandler.Reactivate)
			admin.POST("/applicants/:code/documents/:kind/reject", adminHandler.RejectDocument)
		}
	}

	return r
}
