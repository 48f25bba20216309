package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/repository"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
	"github.com/noah-isme/atp-planner-api/pkg/jobs"
	"github.com/noah-isme/atp-planner-api/pkg/storage"
)

type queueStub struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(context.Context, *models.ExportJob) (*ExportResult, error) {
	return nil, g.err
}

func pathwayCurriculum() models.CurriculumData {
	data := sampleCurriculum()
	date := dateutil.New(2025, time.July, 14)
	data.Elements[0].Allocations[0].Pathway = []models.ObjectiveGroup{
		{Objective: "Membaca bilangan", Items: []models.PathwayItem{
			{Activity: "Membilang benda konkret", HoursLabel: "2 JP", PlanDate: &date, WeekNumber: 1},
			{Activity: "Menulis lambang bilangan", HoursLabel: "2 JP"},
		}},
		{Objective: "Membandingkan bilangan"},
	}
	return data
}

type exportFixture struct {
	exporter *ExportService
	jobsSvc  *ExportJobService
	worker   *ExportWorker
	repo     *repository.ExportJobRepository
	queue    *queueStub
	history  *HistoryService
	metrics  *MetricsService
	dir      string
}

func newExportFixture(t *testing.T) exportFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	history := newTestHistory()
	metrics := NewMetricsService()
	exporter := NewExportService(history, newTestReference(t), store, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop(), ExportRenderers{})
	repo := repository.NewExportJobRepository()
	queue := &queueStub{}
	return exportFixture{
		exporter: exporter,
		jobsSvc:  NewExportJobService(repo, history, queue, exporter, nil, zap.NewNop(), ExportJobConfig{ResultTTL: time.Hour}),
		worker:   NewExportWorker(repo, exporter, metrics, 2, zap.NewNop()),
		repo:     repo,
		queue:    queue,
		history:  history,
		metrics:  metrics,
		dir:      dir,
	}
}

func (f exportFixture) record(t *testing.T, paper string) string {
	t.Helper()
	id, err := f.history.Record(context.Background(), "session-1", models.ActivityPathway, "Matematika", "pathway", pathwayCurriculum(), paper)
	require.NoError(t, err)
	return id
}

func TestExportServiceBuildDataset(t *testing.T) {
	f := newExportFixture(t)
	data := f.exporter.BuildDataset(pathwayCurriculum(), "")

	assert.Equal(t, "Matematika - Fase B", data.Subtitle)
	require.Len(t, data.Rows, 8)

	first := data.Rows[0]
	assert.Equal(t, "1", first[colNo])
	assert.Equal(t, "Bilangan", first[colElement])
	assert.Equal(t, "Membaca bilangan", first[colObjective])
	assert.Equal(t, "Senin, 14 Juli 2025", first[colDate])

	second := data.Rows[1]
	assert.Empty(t, second[colNo])
	assert.Empty(t, second[colObjective])
	assert.Equal(t, "-", second[colDate])

	assert.Equal(t, notGeneratedText, data.Rows[2][colActivity])
	assert.Equal(t, "Membandingkan bilangan", data.Rows[2][colObjective])
	assert.Equal(t, "2", data.Rows[3][colNo])
	assert.Equal(t, "-", data.Rows[3][colHours])

	assert.True(t, data.Emphasis[4])
	assert.Equal(t, totalRowLabel, data.Rows[4][colActivity])
	assert.Equal(t, "4 JP (Target Min: 12 JP)", data.Rows[4][colHours])

	assert.Equal(t, "Kelas 4", data.Rows[5][colClass])
	assert.Equal(t, "0 JP (Target Min: 10 JP)", data.Rows[7][colHours])
}

func TestExportServiceBuildDatasetSingleClassUnknownTarget(t *testing.T) {
	f := newExportFixture(t)
	curriculum := pathwayCurriculum()
	curriculum.Subject = "Seni Tari"

	data := f.exporter.BuildDataset(curriculum, "Kelas 3")
	require.Len(t, data.Rows, 5)
	assert.Equal(t, "4 JP (Target Min: N/A JP)", data.Rows[4][colHours])

	empty := f.exporter.BuildDataset(curriculum, "Kelas 9")
	assert.Empty(t, empty.Rows)
}

func TestExportServiceGenerateCSV(t *testing.T) {
	f := newExportFixture(t)
	historyID := f.record(t, "F4")

	job := &models.ExportJob{ID: "job-12345678", SessionID: "session-1", HistoryID: historyID, ClassName: "Kelas 3", Format: models.ExportFormatCSV}
	result, err := f.exporter.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.True(t, strings.HasPrefix(result.RelativePath, "ATP_Matematika_Fase_B_Kelas_3_"))
	assert.True(t, strings.HasSuffix(result.RelativePath, "job-1234.csv"))

	raw, err := os.ReadFile(filepath.Join(f.dir, result.RelativePath))
	require.NoError(t, err)
	lines := strings.SplitN(string(raw), "\n", 4)
	records, err := csv.NewReader(strings.NewReader(lines[3])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{colClass, colNo, colElement, colOutcome, colObjective, colActivity, colHours, colDate}, records[0])
	assert.Len(t, records, 6)

	jobID, relPath, _, err := f.exporter.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobID)
	assert.Equal(t, result.RelativePath, relPath)
}

func TestExportServiceGenerateDocuments(t *testing.T) {
	f := newExportFixture(t)
	historyID := f.record(t, "")

	for _, format := range []models.ExportFormat{models.ExportFormatPDF, models.ExportFormatXLSX} {
		job := &models.ExportJob{ID: "job-" + string(format), SessionID: "session-1", HistoryID: historyID, Format: format, PaperSize: "F4"}
		result, err := f.exporter.Generate(context.Background(), job)
		require.NoError(t, err, format)
		assert.Equal(t, format, result.Format)
		info, err := os.Stat(filepath.Join(f.dir, result.RelativePath))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExportServiceGenerateMissingHistory(t *testing.T) {
	f := newExportFixture(t)
	_, err := f.exporter.Generate(context.Background(), &models.ExportJob{ID: "job-1", SessionID: "session-1", HistoryID: "missing", Format: models.ExportFormatCSV})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestExportServicePageSelection(t *testing.T) {
	f := newExportFixture(t)
	assert.Equal(t, "F4", f.exporter.page("f4", "A4").Name)
	assert.Equal(t, "Letter", f.exporter.page("", "letter").Name)
	assert.Equal(t, "A4", f.exporter.page("B5", "").Name)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "Bahasa_Indonesia", sanitizeFilename("Bahasa  Indonesia"))
	assert.Equal(t, "PJOK-Olahraga", sanitizeFilename("PJOK/Olahraga"))
}

func TestExportJobLifecycle(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	historyID := f.record(t, "A4")

	resp, err := f.jobsSvc.CreateJob(ctx, "session-1", dto.ExportRequest{HistoryID: historyID, Format: models.ExportFormatCSV, PaperSize: "f4"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)
	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, resp.ID, f.queue.jobs[0].ID)

	stored, err := f.repo.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "F4", stored.PaperSize)

	require.NoError(t, f.worker.Handle(ctx, f.queue.jobs[0]))

	status, err := f.jobsSvc.GetStatus(ctx, "session-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.ResultURL)
	assert.Nil(t, status.Error)

	token := extractDownloadToken(*status.ResultURL)
	download, err := f.jobsSvc.ResolveDownload(ctx, token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck
	content, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(content), totalRowLabel)
	assert.Equal(t, models.ExportFormatCSV, download.Format)

	list, err := f.jobsSvc.List(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, uint64(1), f.metrics.Snapshot().ExportsFinished)
}

func TestExportJobOwnershipAndTokens(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	historyID := f.record(t, "")

	resp, err := f.jobsSvc.CreateJob(ctx, "session-1", dto.ExportRequest{HistoryID: historyID, Format: models.ExportFormatCSV})
	require.NoError(t, err)

	_, err = f.jobsSvc.GetStatus(ctx, "session-2", resp.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = f.jobsSvc.ResolveDownload(ctx, "garbage")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	signer := storage.NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate(resp.ID, "ATP_x.csv")
	require.NoError(t, err)
	_, err = f.jobsSvc.ResolveDownload(ctx, token)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestExportJobCreateValidation(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	historyID := f.record(t, "")

	cases := []struct {
		name string
		req  dto.ExportRequest
		want *appErrors.Error
	}{
		{"missing history id", dto.ExportRequest{Format: models.ExportFormatCSV}, appErrors.ErrValidation},
		{"unsupported format", dto.ExportRequest{HistoryID: historyID, Format: "docx"}, appErrors.ErrValidation},
		{"unsupported paper", dto.ExportRequest{HistoryID: historyID, Format: models.ExportFormatPDF, PaperSize: "B5"}, appErrors.ErrValidation},
		{"unknown class", dto.ExportRequest{HistoryID: historyID, Format: models.ExportFormatPDF, ClassName: "Kelas 6"}, appErrors.ErrValidation},
		{"unknown entry", dto.ExportRequest{HistoryID: "missing", Format: models.ExportFormatPDF}, appErrors.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.jobsSvc.CreateJob(ctx, "session-1", tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
	assert.Empty(t, f.queue.jobs)
}

func TestExportJobEnqueueFailure(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	historyID := f.record(t, "")
	f.queue.err = errors.New("queue stopped")

	_, err := f.jobsSvc.CreateJob(ctx, "session-1", dto.ExportRequest{HistoryID: historyID, Format: models.ExportFormatCSV})
	require.Error(t, err)

	list, err := f.repo.ListBySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ExportStatusFailed, list[0].Status)
	require.NotNil(t, list[0].FinishedAt)
}

func TestExportWorkerRetriesThenFails(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	metrics := NewMetricsService()
	worker := NewExportWorker(f.repo, failingGenerator{err: errors.New("disk full")}, metrics, 2, nil)

	job := &models.ExportJob{ID: "job-1", SessionID: "session-1", HistoryID: "h", Format: models.ExportFormatPDF, Status: models.ExportStatusQueued}
	require.NoError(t, f.repo.Create(ctx, job))

	require.Error(t, worker.Handle(ctx, jobs.Job{ID: job.ID, Attempt: 0}))
	stored, err := f.repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, stored.Status)
	assert.Equal(t, 0, stored.Progress)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "disk full", *stored.ErrorMessage)

	require.Error(t, worker.Handle(ctx, jobs.Job{ID: job.ID, Attempt: 2}))
	stored, err = f.repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
	assert.Equal(t, uint64(1), metrics.Snapshot().ExportsFailed)
}

func TestExportJobCleanupExpired(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)

	job := &models.ExportJob{ID: "job-old", SessionID: "session-1", Format: models.ExportFormatCSV, Status: models.ExportStatusQueued}
	require.NoError(t, f.repo.Create(ctx, job))
	require.NoError(t, f.repo.UpdateStatus(ctx, job.ID, models.ExportStatusFinished, 100, nil, nil, &old))

	path := filepath.Join(f.dir, "ATP_old.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, old, old))

	f.jobsSvc.cleanupExpired(ctx)

	_, err := f.repo.FindByID(ctx, job.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func extractDownloadToken(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}
