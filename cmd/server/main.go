package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"prompt-contest-backend/internal/classifier"
	"prompt-contest-backend/internal/config"
	"prompt-contest-backend/internal/database"
	"prompt-contest-backend/internal/handlers"
	"prompt-contest-backend/internal/middleware"
	"prompt-contest-backend/internal/models"
	"prompt-contest-backend/internal/repository"
	"prompt-contest-backend/internal/services"
	"prompt-contest-backend/internal/ws"

	_ "prompt-contest-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Prompt Contest API
// @version         1.0
// @description     Image recreation prompt contest: registration, scoring, leaderboard and operator tools
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	repo := openRepository(cfg)

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Classifier and evaluator get separate streams so neither shifts the other.
	seeds := rand.New(rand.NewSource(seed))

	taxonomy, err := classifier.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		log.Fatalf("failed to load taxonomy: %v", err)
	}
	cls := classifier.New(taxonomy, rand.New(rand.NewSource(seeds.Int63())))

	var evaluator services.Evaluator = services.NewRandomEvaluator(rand.New(rand.NewSource(seeds.Int63())))
	if cfg.QwenAPIKey != "" {
		evaluator = services.NewChatEvaluator(cfg.QwenAPIKey, cfg.QwenAPIURL, cfg.QwenModel, evaluator)
		log.Printf("scoring with model %s", cfg.QwenModel)
	} else {
		log.Println("QWEN_API_KEY not set, using simulated scoring")
	}

	contest := services.NewContestService(
		repo,
		services.NewRegistrationService(repo, cfg.MaxParticipants),
		cls,
		services.NewScoringService(evaluator),
		services.ContestOptions{
			MinPromptWords:  cfg.MinPromptWords,
			ProcessingDelay: cfg.SubmitDelay(),
		},
	)
	if err := contest.EnsureTarget(context.Background(), models.Target{
		ImageRef:    cfg.DefaultTargetImage,
		Description: cfg.DefaultTargetDescription,
	}); err != nil {
		log.Fatalf("failed to set default target: %v", err)
	}

	authService, err := services.NewAuthService(cfg.OperatorSecret, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	hub := ws.NewHub()

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.RegisterRoutes(r, contest, authService, hub)

	log.Printf("server starting on :%s (max %d participants)", cfg.ServerPort, cfg.MaxParticipants)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func openRepository(cfg *config.Config) repository.Repository {
	if cfg.DBDriver == "memory" {
		log.Println("using in-memory store, state is lost on restart")
		return repository.NewMemoryRepository()
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}
	return repository.NewGormRepository(db)
}
