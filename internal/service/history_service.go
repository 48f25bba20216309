package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

type historyStore interface {
	Append(ctx context.Context, sessionID string, entry models.ActivityLog) error
	List(ctx context.Context, sessionID string) ([]models.ActivityLog, error)
	Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error)
}

// HistoryService records the activity of a session.
type HistoryService struct {
	store   historyStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(store historyStore, metrics *MetricsService, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{store: store, metrics: metrics, logger: logger, now: time.Now}
}

// Record appends an entry holding a copy of snapshot and returns its id.
func (s *HistoryService) Record(ctx context.Context, sessionID string, kind models.ActivityType, subject, details string, snapshot models.CurriculumData, paperSize string) (string, error) {
	if sessionID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}
	if paperSize == "" {
		paperSize = models.PaperA4.Name
	}
	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Type:      kind,
		Subject:   subject,
		Details:   details,
		Snapshot:  snapshot.Clone(),
		PaperSize: paperSize,
	}
	start := time.Now()
	err := s.store.Append(ctx, sessionID, entry)
	s.metrics.ObserveSessionStore("append", time.Since(start))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record history")
	}
	return entry.ID, nil
}

// List returns the session history, newest first.
func (s *HistoryService) List(ctx context.Context, sessionID string) ([]dto.HistoryItem, error) {
	start := time.Now()
	entries, err := s.store.List(ctx, sessionID)
	s.metrics.ObserveSessionStore("list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	items := make([]dto.HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.HistoryItem{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Type:      e.Type,
			Subject:   e.Subject,
			Details:   e.Details,
			PaperSize: e.PaperSize,
		})
	}
	return items, nil
}

// Get returns one entry with its snapshot.
func (s *HistoryService) Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error) {
	start := time.Now()
	entry, err := s.store.Get(ctx, sessionID, id)
	s.metrics.ObserveSessionStore("get", time.Since(start))
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history entry")
	}
	return entry, nil
}
