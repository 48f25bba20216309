package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/service"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

var exportContentTypes = map[models.ExportFormat]string{
	models.ExportFormatCSV:  "text/csv",
	models.ExportFormatPDF:  "application/pdf",
	models.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type exportJobs interface {
	CreateJob(ctx context.Context, sessionID string, req dto.ExportRequest) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, sessionID, id string) (*dto.ExportStatusResponse, error)
	List(ctx context.Context, sessionID string) ([]dto.ExportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler exposes asynchronous document exports.
type ExportHandler struct {
	jobs exportJobs
}

// NewExportHandler constructs the handler.
func NewExportHandler(jobs exportJobs) *ExportHandler {
	return &ExportHandler{jobs: jobs}
}

// Create godoc
// @Summary Queue a document export of a history entry
// @Tags Exports
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	job, err := h.jobs.CreateJob(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusAccepted, job)
}

// List godoc
// @Summary Export jobs of the session
// @Tags Exports
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /exports [get]
func (h *ExportHandler) List(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	list, err := h.jobs.List(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "Job id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	status, err := h.jobs.GetStatus(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, status)
}

// Download godoc
// @Summary Download a finished export through its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	contentType, ok := exportContentTypes[download.Format]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
		"X-Expires-At":        strconv.FormatInt(download.ExpiresAt.UTC().Unix(), 10),
		"Last-Modified":       info.ModTime().UTC().Format(time.RFC1123),
	})
}
