package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"jobportal/resume-screener/internal/config"
	"jobportal/resume-screener/internal/handlers"
	"jobportal/resume-screener/internal/logger"
	"jobportal/resume-screener/internal/models"
	"jobportal/resume-screener/internal/repositories"
	"jobportal/resume-screener/internal/services"
)

// Multipart framing on top of the file itself.
const bodyLimitSlack = 1024 * 1024

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.LogJSON, cfg.Server.Env == "development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.EnvFileMissing() {
		log.Info("no .env file found, using process environment")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)
	screeningRepo := repositories.NewScreeningRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	pdfParser := services.NewPDFParserService(cfg.Resume.MaxFileSize, cfg.Resume.MinTextLength)

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant, log)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	pipeline := services.NewResumePipeline(pdfParser, geminiService, log)
	indexer := services.NewResumeIndexer(resumeRepo, geminiService, qdrantService, services.NewTextChunker(), log)
	searcher := services.NewResumeSearcher(geminiService, qdrantService)

	worker := services.NewWorker(resumeRepo, indexer, cfg.Worker, log)
	worker.Start(ctx)

	uploadHandler := handlers.NewUploadHandler(pipeline, resumeRepo, storageService, worker, cfg.Resume.MaxFileSize, log)
	screenHandler := handlers.NewScreenHandler(pipeline, resumeRepo, screeningRepo, log)
	resultHandler := handlers.NewResultHandler(resumeRepo, screeningRepo, log)
	searchHandler := handlers.NewSearchHandler(searcher, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Resume.MaxFileSize) + bodyLimitSlack,
		ErrorHandler: newErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resume/upload", uploadHandler.HandleUpload)
	api.Post("/resume/screen", screenHandler.HandleScreen)
	api.Get("/resumes/:id", resultHandler.HandleGetResume)
	api.Get("/screenings/:id", resultHandler.HandleGetScreening)
	api.Post("/resumes/search", searchHandler.HandleSearch)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resume/upload",
				"POST /api/v1/resume/screen",
				"GET /api/v1/resumes/:id",
				"GET /api/v1/screenings/:id",
				"POST /api/v1/resumes/search",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := awaitShutdown(quit, worker, func() error {
		return app.ShutdownWithTimeout(30 * time.Second)
	}, cancel, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	<-done
	log.Info("server stopped")
}

func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Success: false,
			Message: message,
		})
	}
}
