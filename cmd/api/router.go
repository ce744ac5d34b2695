package api

import (
	"net/http"

	authDelivery "mutualtasks-backend/internal/auth/delivery"
	authUsecase "mutualtasks-backend/internal/auth/usecase"
	projectDelivery "mutualtasks-backend/internal/project/delivery"
	projectUsecase "mutualtasks-backend/internal/project/usecase"
	taskDelivery "mutualtasks-backend/internal/task/delivery"
	taskUsecase "mutualtasks-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every HTTP endpoint onto the gin engine
func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, projectUc projectUsecase.ProjectUsecase, taskUc taskUsecase.TaskUsecase) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	projectHandler := projectDelivery.NewProjectHandler(projectUc)
	taskHandler := taskDelivery.NewTaskHandler(taskUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authDelivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(authDelivery.AuthMiddleware(authUc))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/participants", projectHandler.AddParticipant)
			projects.DELETE("/:id/participants/:userId", projectHandler.RemoveParticipant)
			projects.GET("/:id/tasks", taskHandler.GetProjectTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(authDelivery.AuthMiddleware(authUc))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats", taskHandler.GetStats)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.DELETE("/series/:seriesId", taskHandler.DeleteSeries)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/recover", taskHandler.RecoverTask)
			tasks.POST("/:id/archive", taskHandler.ArchiveTask)
		}
	}
}
