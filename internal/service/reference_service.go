package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

type referenceLoader interface {
	Load(ctx context.Context) (*models.ReferenceData, error)
}

// ReferenceSnapshot is one validated load of the reference data. It is never
// mutated after publication.
type ReferenceSnapshot struct {
	Data     *models.ReferenceData
	Registry *planner.Registry
	LoadedAt time.Time
}

// ReferenceService owns the current reference snapshot.
type ReferenceService struct {
	loader referenceLoader
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot *ReferenceSnapshot
}

// NewReferenceService constructs the service. Call Reload before use.
func NewReferenceService(loader referenceLoader, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{loader: loader, logger: logger}
}

// Reload reads the source, validates it and swaps the snapshot. The previous
// snapshot stays in place when validation fails.
func (s *ReferenceService) Reload(ctx context.Context) error {
	data, err := s.loader.Load(ctx)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrUnavailable, "failed to load reference data")
	}
	registry, err := planner.NewRegistry(data.Exceptions, data.Categories)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrReferenceData, "reference calendar is invalid")
	}
	snap := &ReferenceSnapshot{Data: data, Registry: registry, LoadedAt: time.Now().UTC()}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("reference data loaded",
		zap.String("version", data.Version),
		zap.Int("exceptions", len(data.Exceptions)),
		zap.Int("categories", len(data.Categories)),
		zap.Int("subjects", len(data.Standards)))
	return nil
}

// Snapshot returns the current snapshot.
func (s *ReferenceService) Snapshot() (*ReferenceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "reference data not loaded")
	}
	return s.snapshot, nil
}

// Ready reports whether a snapshot is available.
func (s *ReferenceService) Ready() bool {
	_, err := s.Snapshot()
	return err == nil
}

// Subjects lists the selectable subjects.
func (s *ReferenceService) Subjects() ([]string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return append([]string{}, snap.Data.Subjects...), nil
}

// Phases lists the phases with their classes.
func (s *ReferenceService) Phases() ([]models.Phase, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return append([]models.Phase{}, snap.Data.Phases...), nil
}

// Standards returns the JP standards table.
func (s *ReferenceService) Standards() (models.TargetHourTable, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return append(models.TargetHourTable{}, snap.Data.Standards...), nil
}
