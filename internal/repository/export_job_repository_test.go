package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

func TestExportJobRepositoryLifecycle(t *testing.T) {
	repo := NewExportJobRepository()
	ctx := context.Background()
	created := time.Now().UTC()

	job := &models.ExportJob{ID: "job-1", SessionID: "s1", Format: models.ExportFormatCSV, Status: models.ExportStatusQueued, CreatedAt: created}
	require.NoError(t, repo.Create(ctx, job))
	err := repo.Create(ctx, job)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	url := "/api/v1/export/token"
	finished := created.Add(time.Second)
	require.NoError(t, repo.UpdateStatus(ctx, "job-1", models.ExportStatusFinished, 100, &url, nil, &finished))

	stored, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Equal(t, url, *stored.ResultURL)

	stored.Status = models.ExportStatusFailed
	again, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, again.Status)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Error(t, repo.UpdateStatus(ctx, "missing", models.ExportStatusFailed, 100, nil, nil, nil))
}

func TestExportJobRepositoryListAndPurge(t *testing.T) {
	repo := NewExportJobRepository()
	ctx := context.Background()
	base := time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		session := "s1"
		if id == "c" {
			session = "s2"
		}
		require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: id, SessionID: session, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	list, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	done := base.Add(time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, "a", models.ExportStatusFinished, 100, nil, nil, &done))

	assert.Equal(t, 0, repo.DeleteFinishedBefore(ctx, base))
	assert.Equal(t, 1, repo.DeleteFinishedBefore(ctx, base.Add(time.Hour)))

	list, err = repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}
