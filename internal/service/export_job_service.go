package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/jobs"
	"github.com/noah-isme/atp-planner-api/pkg/storage"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	UpdateStatus(ctx context.Context, id string, status models.ExportStatus, progress int, resultURL, errMsg *string, finishedAt *time.Time) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ExportJob, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) int
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error)
}

const exportJobType = "atp_export"

// ExportJobConfig governs retries and cleanup.
type ExportJobConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// ExportJobService orchestrates the export job lifecycle.
type ExportJobService struct {
	repo      exportJobStore
	history   historyReader
	queue     jobDispatcher
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportJobConfig
}

// NewExportJobService constructs the export job service.
func NewExportJobService(repo exportJobStore, history historyReader, queue jobDispatcher, exporter *ExportService, validate *validator.Validate, logger *zap.Logger, cfg ExportJobConfig) *ExportJobService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ExportJobService{
		repo:      repo,
		history:   history,
		queue:     queue,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateJob validates the request against the session history, persists the
// job and enqueues rendering.
func (s *ExportJobService) CreateJob(ctx context.Context, sessionID string, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if req.PaperSize != "" {
		size, ok := models.PaperSizeByName(req.PaperSize)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported paper size")
		}
		req.PaperSize = size.Name
	}

	entry, err := s.history.Get(ctx, sessionID, req.HistoryID)
	if err != nil {
		return nil, err
	}
	if req.ClassName != "" && !containsString(entry.Snapshot.Classes(), req.ClassName) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class not present in history entry").
			WithDetails(map[string]interface{}{"classes": entry.Snapshot.Classes()})
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		HistoryID: req.HistoryID,
		ClassName: req.ClassName,
		Format:    req.Format,
		PaperSize: req.PaperSize,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType}); err != nil {
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		_ = s.repo.UpdateStatus(ctx, job.ID, models.ExportStatusFailed, 100, nil, &msg, &now)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.logger.Info("export job queued",
		zap.String("job_id", job.ID),
		zap.String("session_id", sessionID),
		zap.String("format", string(job.Format)))
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus reports a job owned by sessionID.
func (s *ExportJobService) GetStatus(ctx context.Context, sessionID, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.SessionID != sessionID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return toExportStatus(*job), nil
}

// List returns the export jobs of a session, newest first.
func (s *ExportJobService) List(ctx context.Context, sessionID string) ([]dto.ExportStatusResponse, error) {
	list, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	out := make([]dto.ExportStatusResponse, 0, len(list))
	for _, job := range list {
		out = append(out, *toExportStatus(job))
	}
	return out, nil
}

func toExportStatus(job models.ExportJob) *dto.ExportStatusResponse {
	resp := &dto.ExportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Format:   job.Format,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp
}

// ResolveDownload validates token and opens the stored export file.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if errors.Is(err, storage.ErrTokenExpired) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download token expired")
	}
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download token")
	}
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ExportJobService) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	removed := s.repo.DeleteFinishedBefore(ctx, cutoff)
	files, err := s.exporter.Cleanup(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
	if removed > 0 || len(files) > 0 {
		s.logger.Sugar().Infow("expired exports purged", "jobs", removed, "files", len(files))
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// ExportWorker bridges queue jobs to ExportService.
type ExportWorker struct {
	repo       exportJobStore
	exporter   exportGenerator
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
}

// NewExportWorker constructs a worker.
func NewExportWorker(repo exportJobStore, exporter exportGenerator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ExportWorker{
		repo:       repo,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.FindByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if err := w.repo.UpdateStatus(ctx, job.ID, models.ExportStatusProcessing, 10, nil, nil, nil); err != nil {
		return err
	}
	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		if job.Attempt >= w.maxRetries {
			now := time.Now().UTC()
			if updateErr := w.repo.UpdateStatus(ctx, job.ID, models.ExportStatusFailed, 100, nil, &msg, &now); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", updateErr)
			}
			w.metrics.ObserveExport(record.Format, models.ExportStatusFailed)
		} else {
			if updateErr := w.repo.UpdateStatus(ctx, job.ID, models.ExportStatusQueued, 0, nil, &msg, nil); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", updateErr)
			}
		}
		return err
	}
	now := time.Now().UTC()
	url := result.URL
	clear := ""
	if err := w.repo.UpdateStatus(ctx, job.ID, models.ExportStatusFinished, 100, &url, &clear, &now); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		return err
	}
	w.metrics.ObserveExport(record.Format, models.ExportStatusFinished)
	return nil
}
