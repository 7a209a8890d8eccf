package app

import (
	"english_placement_backend/docs"
	"english_placement_backend/internal/config"
	"english_placement_backend/internal/middleware"
	"english_placement_backend/internal/model"
	"english_placement_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Student-facing routes. Students authenticate with nothing but their
	// session code.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)

		placement := public.Group("/placement/sessions")
		{
			placement.POST("", c.placement.StartSession)
			placement.GET("/:code", c.placement.ResumeSession)
			placement.POST("/:code/answers", c.placement.SubmitAnswer)
			placement.POST("/:code/complete", c.placement.CompleteSession)
			placement.POST("/:code/speaking-audio", c.placement.UploadSpeakingAudio)
		}
	}

	// Reviewer routes: grading queue and session listing.
	review := router.Group("/api/review")
	review.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Reviewer))
	{
		review.GET("/sessions", c.review.ListSessions)
		review.GET("/sessions/:code", c.review.GetReviewQueue)
		review.POST("/sessions/:code", c.review.ApplyReview)
	}

	// Admin routes: bank management and staff accounts.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.auth.Register)

		admin.POST("/questions", c.question.CreateQuestion)
		admin.GET("/questions", c.question.ListQuestions)
		admin.GET("/questions/:id", c.question.GetQuestion)
		admin.PUT("/questions/:id", c.question.UpdateQuestion)
		admin.DELETE("/questions/:id", c.question.RetireQuestion)
		admin.POST("/questions/audio", c.question.UploadListeningClip)
	}

	// Shared staff routes.
	staff := router.Group("/api")
	staff.Use(middleware.AuthMiddleware(cfg))
	{
		staff.GET("/profile", c.auth.GetProfile)
	}
}
