package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/config"
	"github.com/courseclip/syllabus-backend/internal/database"
	"github.com/courseclip/syllabus-backend/internal/extract"
	"github.com/courseclip/syllabus-backend/internal/handler"
	"github.com/courseclip/syllabus-backend/internal/llm"
	"github.com/courseclip/syllabus-backend/internal/logger"
	"github.com/courseclip/syllabus-backend/internal/repository"
	"github.com/courseclip/syllabus-backend/internal/router"
	"github.com/courseclip/syllabus-backend/internal/schema"
	"github.com/courseclip/syllabus-backend/internal/service"
	"github.com/courseclip/syllabus-backend/internal/validator"
	"github.com/courseclip/syllabus-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Syllabus Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	lectureRepo := repository.NewLectureRepository(pool)
	gradingRepo := repository.NewGradingPolicyRepository(pool)
	policyRepo := repository.NewCoursePolicyRepository(pool)

	syllabusStore := repository.NewSyllabusStore(
		pool, courseRepo, gradingRepo, eventRepo, lectureRepo, policyRepo, log)

	// ─── Initialize Pipeline Components ────────────────────────────────
	pdf := extract.NewPdftotextExtractor(cfg.PdftotextBin, log)
	normalizer := extract.NewNormalizer(cfg.MaxUploadBytes, pdf, log)

	extractor := llm.NewClient(llm.Config{
		BaseURL: cfg.ExtractBaseURL,
		APIKey:  cfg.ExtractAPIKey,
		Model:   cfg.ExtractModel,
		Timeout: cfg.ExtractTimeout,
	}, log)

	schemaValidator, err := schema.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compile syllabus schema")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	ingestService := service.NewIngestService(
		normalizer, extractor, schemaValidator, syllabusStore, rdb, log)
	courseService := service.NewCourseService(
		courseRepo, eventRepo, lectureRepo, gradingRepo, policyRepo,
		rdb, cfg.DeadlineCacheTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Syllabus: handler.NewSyllabusHandler(ingestService, cfg.MaxUploadBytes, log),
		Course:   handler.NewCourseHandler(courseService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	deadlineWorker := worker.NewDeadlineWorker(courseService, cfg.DeadlineRefreshEvery, log)
	go deadlineWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
