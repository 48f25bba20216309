package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/atp-planner-api/api/swagger"
	"github.com/noah-isme/atp-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/atp-planner-api/internal/middleware"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/internal/repository"
	"github.com/noah-isme/atp-planner-api/internal/service"
	"github.com/noah-isme/atp-planner-api/pkg/cache"
	"github.com/noah-isme/atp-planner-api/pkg/config"
	"github.com/noah-isme/atp-planner-api/pkg/database"
	"github.com/noah-isme/atp-planner-api/pkg/genai"
	"github.com/noah-isme/atp-planner-api/pkg/jobs"
	"github.com/noah-isme/atp-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/atp-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/atp-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/atp-planner-api/pkg/middleware/session"
	"github.com/noah-isme/atp-planner-api/pkg/storage"
)

// @title ATP Planner API
// @version 1.0.0
// @description School calendar exclusion and JP hour distribution engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	year, err := planner.ParseAcademicYear(cfg.Planner.YearStart, cfg.Planner.YearEnd, cfg.Planner.SemesterBreakCategory, cfg.Planner.SemesterBreakFallback)
	if err != nil {
		logr.Sugar().Fatalw("invalid academic year", "error", err)
	}

	loader, closeLoader, err := referenceLoader(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init reference source", "source", cfg.Reference.Source, "error", err)
	}
	defer closeLoader()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	referenceSvc := service.NewReferenceService(loader, logr)
	if err := referenceSvc.Reload(ctx); err != nil {
		logr.Sugar().Fatalw("failed to load reference data", "source", cfg.Reference.Source, "error", err)
	}

	plannerSvc := service.NewPlannerService(referenceSvc, validate, metricsSvc, logr, service.PlannerConfig{
		Year:           year,
		FallbackTarget: cfg.Planner.FallbackTargetHours,
		MaxHoursPerDay: cfg.Planner.MaxHoursPerDay,
	})

	historyStore, closeStore := sessionStore(ctx, cfg, logr)
	defer closeStore()
	historySvc := service.NewHistoryService(historyStore, metricsSvc, logr)

	contentCfg := service.ContentConfig{Enabled: cfg.Content.Enabled, MaxConcurrency: cfg.Content.MaxConcurrency}
	var contentSvc *service.ContentService
	if cfg.Content.Enabled {
		client := genai.NewClient(genai.Config{
			APIKey:          cfg.Content.APIKey,
			BaseURL:         cfg.Content.BaseURL,
			Model:           cfg.Content.Model,
			Timeout:         cfg.Content.Timeout,
			MaxOutputTokens: cfg.Content.MaxOutputTokens,
		}, logr)
		contentSvc = service.NewContentService(client, plannerSvc, referenceSvc, historySvc, validate, metricsSvc, logr, contentCfg)
		logr.Sugar().Infow("content generation enabled", "model", client.Model())
	} else {
		contentSvc = service.NewContentService(nil, plannerSvc, referenceSvc, historySvc, validate, metricsSvc, logr, contentCfg)
	}

	handlers := handler.Handlers{
		Reference:  handler.NewReferenceHandler(referenceSvc, plannerSvc),
		Calendar:   handler.NewCalendarHandler(plannerSvc),
		Planner:    handler.NewPlannerHandler(plannerSvc),
		Curriculum: handler.NewCurriculumHandler(contentSvc),
		History:    handler.NewHistoryHandler(historySvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc, referenceSvc),
	}

	if cfg.Exports.Enabled {
		exportJobSvc, queue, err := exportPipeline(ctx, cfg, historySvc, referenceSvc, metricsSvc, validate, logr)
		if err != nil {
			logr.Sugar().Fatalw("failed to init exports", "error", err)
		}
		defer queue.Stop()
		handlers.Export = handler.NewExportHandler(exportJobSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(session.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", handlers.Metrics.Ready)
	r.GET("/metrics", handlers.Metrics.Prometheus)

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "reference", cfg.Reference.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}

type loader interface {
	Load(ctx context.Context) (*models.ReferenceData, error)
}

func referenceLoader(cfg *config.Config) (loader, func(), error) {
	noop := func() {}
	switch cfg.Reference.Source {
	case "", config.ReferenceStatic:
		return repository.NewStaticReferenceRepository(), noop, nil
	case config.ReferenceFile:
		return repository.NewReferenceFileRepository(cfg.Reference.File), noop, nil
	case config.ReferenceDatabase:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewReferenceRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown reference source %q", cfg.Reference.Source)
	}
}

type historyBackend interface {
	Append(ctx context.Context, sessionID string, entry models.ActivityLog) error
	List(ctx context.Context, sessionID string) ([]models.ActivityLog, error)
	Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error)
}

// sessionStore prefers Redis when enabled and reachable, otherwise keeps
// history in memory with a periodic sweep of idle sessions.
func sessionStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (historyBackend, func()) {
	storeCfg := repository.SessionStoreConfig{TTL: cfg.Sessions.TTL, MaxEntries: cfg.Sessions.MaxEntries}
	if cfg.Sessions.RedisEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err == nil {
			repo := repository.NewSessionRepository(client, storeCfg, logr)
			return repo, func() { _ = repo.Close() }
		}
		logr.Sugar().Warnw("redis unavailable, using in-memory sessions", "error", err)
	}

	repo := repository.NewMemorySessionRepository(storeCfg)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := repo.Sweep(); removed > 0 {
					logr.Sugar().Debugw("idle sessions swept", "count", removed)
				}
			}
		}
	}()
	return repo, func() {}
}

func exportPipeline(ctx context.Context, cfg *config.Config, history *service.HistoryService, reference *service.ReferenceService, metrics *service.MetricsService, validate *validator.Validate, logr *zap.Logger) (*service.ExportJobService, *jobs.Queue, error) {
	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(history, reference, files, signer, service.ExportConfig{
		APIPrefix:        cfg.APIPrefix,
		ResultTTL:        cfg.Exports.SignedURLTTL,
		DefaultPaperSize: cfg.Exports.DefaultPaperSize,
	}, logr, service.ExportRenderers{})

	jobRepo := repository.NewExportJobRepository()
	worker := service.NewExportWorker(jobRepo, exporter, metrics, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	svc := service.NewExportJobService(jobRepo, history, queue, exporter, validate, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})
	svc.StartCleanup(ctx)
	return svc, queue, nil
}
