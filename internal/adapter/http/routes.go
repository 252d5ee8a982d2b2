package http

import (
	"github.com/gin-gonic/gin"

	"tripmatch/internal/adapter/http/handlers"
	"tripmatch/internal/adapter/http/middleware"
	"tripmatch/pkg/telemetry"
)

func RegisterRoutes(
	r *gin.Engine,
	healthHandler *handlers.HealthHandler,
	taskHandler *handlers.TaskHandler,
	workflowHandler *handlers.WorkflowHandler,
	applicationHandler *handlers.ApplicationHandler,
	ratingHandler *handlers.RatingHandler,
) {
	r.GET("/metrics", gin.WrapH(telemetry.Handler()))

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware(), middleware.ActorMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		api.POST("/tasks", taskHandler.CreateTask)
		api.POST("/tasks/:id/publish", taskHandler.PublishTask)
		api.POST("/tasks/:id/cancel", taskHandler.CancelTask)
		api.POST("/tasks/:id/complete", taskHandler.CompleteTask)

		api.POST("/tasks/:id/transitions", workflowHandler.RequestTransition)
		api.GET("/tasks/:id/progress", workflowHandler.GetProgress)
		api.GET("/tasks/:id/deadline", workflowHandler.CheckDeadline)
		api.GET("/dashboard", workflowHandler.GetDashboard)

		api.POST("/tasks/:id/applications", applicationHandler.SubmitApplication)
		api.POST("/applications/:id/review", applicationHandler.ReviewApplication)
		api.POST("/tasks/:id/work", applicationHandler.SubmitWork)
		api.POST("/tasks/:id/work/review", applicationHandler.ReviewWork)

		api.POST("/tasks/:id/ratings", ratingHandler.SubmitRating)
	}
}
