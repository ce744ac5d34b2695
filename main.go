package main

import (
	"log"
	"time"

	api "mutualtasks-backend/cmd/api"
	authdomain "mutualtasks-backend/internal/auth/domain"
	authRepo "mutualtasks-backend/internal/auth/repository"
	authUsecase "mutualtasks-backend/internal/auth/usecase"
	"mutualtasks-backend/internal/notification"
	projectdomain "mutualtasks-backend/internal/project/domain"
	projectRepo "mutualtasks-backend/internal/project/repository"
	projectUsecase "mutualtasks-backend/internal/project/usecase"
	taskdomain "mutualtasks-backend/internal/task/domain"
	taskRepo "mutualtasks-backend/internal/task/repository"
	"mutualtasks-backend/internal/task/scheduler"
	taskUsecase "mutualtasks-backend/internal/task/usecase"
	"mutualtasks-backend/pkg/config"
	"mutualtasks-backend/pkg/database"
	"mutualtasks-backend/pkg/fcm"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.FCMToken{},
		&projectdomain.Project{},
		&projectdomain.ProjectParticipant{},
		&taskdomain.Task{},
		&taskdomain.ParticipantStatus{},
		&taskdomain.CompletionRecord{},
		&taskdomain.TaskEvent{},
		&taskdomain.UserStats{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(db)
	projectRepository := projectRepo.NewGormProjectRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	statusRepository := taskRepo.NewGormStatusRepository(db)
	completionRepository := taskRepo.NewGormCompletionRepository(db)
	eventRepository := taskRepo.NewGormEventRepository(db)
	statsRepository := taskRepo.NewGormStatsRepository(db)

	// Initialize use cases
	authUc := authUsecase.NewAuthUsecase(userRepository, fcmTokenRepository, cfg)
	projectUc := projectUsecase.NewProjectUsecase(projectRepository, userRepository)
	taskUc := taskUsecase.NewTaskUsecase(
		taskRepository, statusRepository, completionRepository,
		eventRepository, statsRepository, projectRepository,
	)

	// Initialize FCM client (optional, fan-out works without it)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		}
	} else {
		log.Printf("[WARN] No Firebase credentials configured, FCM disabled")
	}

	// Start the outbox dispatcher
	dispatcher, err := notification.NewDispatcher(
		eventRepository, statusRepository, fcmTokenRepository, fcmClient,
		cfg.GoogleProjectID, cfg.PubSubTopic, cfg.GoogleCredentials,
		cfg.OutboxInterval,
	)
	if err != nil {
		log.Printf("[ERROR] Failed to initialize outbox dispatcher: %v", err)
	} else {
		dispatcher.Start()
	}

	// Start the overdue archive sweep
	sweeper := scheduler.NewOverdueSweeper(taskUc, cfg.ArchiveGraceDays, time.Local)
	if err := sweeper.Start(cfg.ArchiveSweepTime); err != nil {
		log.Printf("[ERROR] Failed to start overdue sweep: %v", err)
	}

	// Start server
	r := gin.Default()
	api.SetupRoutes(r, authUc, projectUc, taskUc)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
