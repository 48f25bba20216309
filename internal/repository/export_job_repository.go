package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

// ExportJobRepository keeps export job state in memory for the lifetime of
// the process.
type ExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportJobRepository constructs the repository.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{jobs: make(map[string]models.ExportJob)}
}

// Create stores a new job.
func (r *ExportJobRepository) Create(_ context.Context, job *models.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "export job already exists")
	}
	r.jobs[job.ID] = *job
	return nil
}

// FindByID returns a copy of the job.
func (r *ExportJobRepository) FindByID(_ context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &job, nil
}

// UpdateStatus records progress; resultURL and errMsg are kept when nil.
func (r *ExportJobRepository) UpdateStatus(_ context.Context, id string, status models.ExportStatus, progress int, resultURL, errMsg *string, finishedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	job.Status = status
	job.Progress = progress
	if resultURL != nil {
		job.ResultURL = resultURL
	}
	if errMsg != nil {
		job.ErrorMessage = errMsg
	}
	if finishedAt != nil {
		job.FinishedAt = finishedAt
	}
	r.jobs[id] = job
	return nil
}

// ListBySession returns a session's jobs, newest first.
func (r *ExportJobRepository) ListBySession(_ context.Context, sessionID string) ([]models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ExportJob, 0)
	for _, job := range r.jobs {
		if job.SessionID == sessionID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteFinishedBefore drops finished or failed jobs older than cutoff.
func (r *ExportJobRepository) DeleteFinishedBefore(_ context.Context, cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, job := range r.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed
}
