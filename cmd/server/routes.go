package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jviitor13/rodocheck/internal/middleware"
	"github.com/jviitor13/rodocheck/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// AI routes are rate limited; every call costs provider tokens.
	aiLimiter := middleware.NewRateLimiter(2, 5)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "rodocheck"})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/google", svc.authHandler.GoogleLogin)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.GET("/auth/profile", svc.authHandler.GetProfile)
			protected.PUT("/auth/profile", svc.authHandler.UpdateProfile)

			// Vehicles
			protected.GET("/vehicles", svc.vehicleHandler.List)
			protected.POST("/vehicles", svc.vehicleHandler.Create)
			protected.GET("/vehicles/:id", svc.vehicleHandler.GetByID)
			protected.PUT("/vehicles/:id", svc.vehicleHandler.Update)
			protected.DELETE("/vehicles/:id", svc.vehicleHandler.Delete)

			// Tires
			protected.GET("/tires", svc.tireHandler.List)
			protected.POST("/tires", svc.tireHandler.Create)
			protected.GET("/tires/stats", svc.tireHandler.Stats)
			protected.GET("/tires/:id", svc.tireHandler.GetByID)
			protected.PUT("/tires/:id", svc.tireHandler.Update)
			protected.DELETE("/tires/:id", svc.tireHandler.Delete)

			// Checklist templates
			protected.GET("/checklists/templates", svc.checklistHandler.ListTemplates)
			protected.POST("/checklists/templates", svc.checklistHandler.CreateTemplate)
			protected.GET("/checklists/templates/:id", svc.checklistHandler.GetTemplate)
			protected.PUT("/checklists/templates/:id", svc.checklistHandler.UpdateTemplate)
			protected.DELETE("/checklists/templates/:id", svc.checklistHandler.DeleteTemplate)

			// Completed checklists
			protected.GET("/checklists", svc.checklistHandler.List)
			protected.POST("/checklists", svc.checklistHandler.Create)
			protected.GET("/checklists/:id", svc.checklistHandler.GetByID)
			protected.PUT("/checklists/:id", svc.checklistHandler.Update)
			protected.DELETE("/checklists/:id", svc.checklistHandler.Delete)
			protected.GET("/checklists/:id/download", svc.checklistHandler.Download)
			protected.GET("/checklists/:id/download-info", svc.checklistHandler.DownloadInfo)

			// AI assistant and assessments
			ai := protected.Group("/ai", aiLimiter.Middleware())
			{
				ai.POST("/chat", svc.aiHandler.Chat)
				ai.GET("/sessions", svc.aiHandler.ListSessions)
				ai.POST("/sessions", svc.aiHandler.CreateSession)
				ai.GET("/sessions/:session_id/messages", svc.aiHandler.ListMessages)
				ai.DELETE("/sessions/:session_id", svc.aiHandler.CloseSession)
				ai.POST("/assess-damage", svc.aiHandler.AssessDamage)
				ai.GET("/damage-assessments", svc.aiHandler.ListDamageAssessments)
				ai.POST("/tire-analysis", svc.aiHandler.AnalyzeTire)
				ai.GET("/tire-analysis", svc.aiHandler.ListTireAnalyses)
				ai.GET("/usage-logs", svc.aiHandler.ListUsageLogs)
				ai.GET("/usage-stats", svc.aiHandler.UsageStats)
				ai.GET("/status", svc.aiHandler.Status)
				ai.GET("/configurations", middleware.AdminRequired(), svc.aiHandler.ListConfigurations)
			}
		}
	}
}
