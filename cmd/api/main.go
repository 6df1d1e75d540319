package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulaforge/aulaforge-api/internal/config"
	"github.com/aulaforge/aulaforge-api/internal/database"
	"github.com/aulaforge/aulaforge-api/internal/handler"
	"github.com/aulaforge/aulaforge-api/internal/middleware"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/repository"
	"github.com/aulaforge/aulaforge-api/internal/router"
	"github.com/aulaforge/aulaforge-api/internal/service"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := context.Background()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Task{},
		&models.RubricItem{},
		&models.Submission{},
		&models.RubricScore{},
		&models.SubmissionGradeHistory{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	var primary ai.ModelCaller
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiCaller(ctx, ai.GeminiConfig{APIKey: cfg.GeminiAPIKey})
		if err != nil {
			log.Fatalf("failed to create gemini client: %v", err)
		}
		defer gemini.Close()
		primary = gemini
	}

	var secondary ai.ModelCaller
	if cfg.OpenAIAPIKey != "" {
		openAI, err := ai.NewOpenAICaller(ai.OpenAIConfig{APIKey: cfg.OpenAIAPIKey})
		if err != nil {
			log.Fatalf("failed to create openai client: %v", err)
		}
		secondary = openAI
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	orchestrator := ai.NewOrchestrator(primary, secondary, cfg.FallbackModels, logger)
	defaults := service.GenerationDefaults{
		Provider: cfg.AIProvider,
		Model:    cfg.GenerationModel,
		Tone:     cfg.GenerationTone,
	}

	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	events := service.NewNATSEventPublisher(natsConn, cfg.EventSubject, logger)
	summaryService := service.NewSummaryService(taskRepo, submissionRepo, redisClient, cfg.SummaryCacheTTL, logger)

	generationService, err := service.NewGenerationService(orchestrator, defaults, validate, logger)
	if err != nil {
		log.Fatalf("failed to create generation service: %v", err)
	}

	suggestionService, err := service.NewGradeSuggestionService(submissionRepo, orchestrator, defaults, validate, cfg.SuggestionTimeout, logger)
	if err != nil {
		log.Fatalf("failed to create grade suggestion service: %v", err)
	}

	gradingService := service.NewGradingService(submissionRepo, validate, events, summaryService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, validate, events, summaryService, logger)

	generationHandler := handler.NewGenerationHandler(generationService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, suggestionService, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GenerationHandler: generationHandler,
		SubmissionHandler: submissionHandler,
		GradingHandler:    gradingHandler,
		SummaryHandler:    summaryHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
