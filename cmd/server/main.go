package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"promethia/training-api/internal/api"
	"promethia/training-api/internal/config"
	"promethia/training-api/internal/mailer"
	"promethia/training-api/internal/repository/mongo"
	"promethia/training-api/internal/service"
	"promethia/training-api/internal/storage"
)

func main() {
	log.Println("Starting Promethia training API...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureUserIndexes(ctx, appDB.Collection("users")); err != nil {
			log.Printf("WARN: user index creation failed: %v", err)
		}
		if err := mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("coach_assignments")); err != nil {
			log.Printf("WARN: assignment index creation failed: %v", err)
		}
		if err := mongo.EnsureProfileIndexes(ctx, appDB); err != nil {
			log.Printf("WARN: profile index creation failed: %v", err)
		}
		if err := mongo.EnsureProfileItemIndexes(ctx, appDB); err != nil {
			log.Printf("WARN: achievement index creation failed: %v", err)
		}
		if err := mongo.EnsureTrainingIndexes(ctx, appDB.Collection("trainings")); err != nil {
			log.Printf("WARN: training index creation failed: %v", err)
		}
		if err := mongo.EnsureRaceIndexes(ctx, appDB.Collection("races")); err != nil {
			log.Printf("WARN: race index creation failed: %v", err)
		}
		if err := mongo.EnsureCustomEventIndexes(ctx, appDB.Collection("custom_events")); err != nil {
			log.Printf("WARN: custom event index creation failed: %v", err)
		}
		if err := mongo.EnsureSavedTrainingIndexes(ctx, appDB.Collection("saved_trainings")); err != nil {
			log.Printf("WARN: saved training index creation failed: %v", err)
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Mailer ---
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	achievementRepo := mongo.NewMongoAchievementRepository(appDB)
	coachAchievementRepo := mongo.NewMongoCoachAchievementRepository(appDB)
	certificationRepo := mongo.NewMongoCertificationRepository(appDB)
	trainingRepo := mongo.NewMongoTrainingRepository(appDB)
	raceRepo := mongo.NewMongoRaceRepository(appDB)
	customEventRepo := mongo.NewMongoCustomEventRepository(appDB)
	savedTrainingRepo := mongo.NewMongoSavedTrainingRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, profileRepo, mail, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, assignmentRepo, mail)
	eventService := service.NewEventService(userRepo, assignmentRepo, trainingRepo, raceRepo, customEventRepo)
	trainingService := service.NewTrainingService(trainingRepo, assignmentRepo)
	raceService := service.NewRaceService(raceRepo, assignmentRepo)
	savedTrainingService := service.NewSavedTrainingService(savedTrainingRepo)
	profileService := service.NewProfileService(userRepo, profileRepo, achievementRepo, coachAchievementRepo, certificationRepo, fileStorage)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, coachService, eventService,
		trainingService, raceService, savedTrainingService, profileService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
