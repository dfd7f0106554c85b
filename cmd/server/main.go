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

	"pulsefit/training-core/internal/api"
	"pulsefit/training-core/internal/config"
	"pulsefit/training-core/internal/repository/mongo"
	"pulsefit/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Training Core Server...")

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
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureOverrideIndexes(ctx, appDB.Collection("overrides"))
		mongo.EnsureTrainingPlanIndexes(ctx, appDB.Collection("training_plans"))
		mongo.EnsurePlanDayIndexes(ctx, appDB.Collection("plan_days"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"), appDB.Collection("routine_exercises"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	overrideRepo := mongo.NewMongoOverrideRepository(appDB)
	trainingPlanRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	planDayRepo := mongo.NewMongoPlanDayRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	resolver := service.NewPlanResolver(overrideRepo, trainingPlanRepo, planDayRepo, routineRepo)
	plannerService := service.NewPlannerService(resolver, overrideRepo, routineRepo)
	routineService := service.NewRoutineService(routineRepo)
	weekPlanService := service.NewWeekPlanService(trainingPlanRepo, planDayRepo, routineRepo)
	exerciseService := service.NewExerciseService(exerciseRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, plannerService, routineService, weekPlanService, exerciseService)

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
