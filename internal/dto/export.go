package dto

import "github.com/noah-isme/atp-planner-api/internal/models"

// ExportRequest asks for a document of a history entry.
type ExportRequest struct {
	HistoryID string              `json:"history_id" validate:"required"`
	ClassName string              `json:"class_name,omitempty"`
	Format    models.ExportFormat `json:"format" validate:"required"`
	PaperSize string              `json:"paper_size,omitempty"`
}

// ExportJobResponse is returned when a job is accepted.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse reports job progress and the download link.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	Format    models.ExportFormat `json:"format"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

// HistoryItem is the list view of an activity log entry.
type HistoryItem struct {
	ID        string              `json:"id"`
	Timestamp string              `json:"timestamp"`
	Type      models.ActivityType `json:"type"`
	Subject   string              `json:"subject"`
	Details   string              `json:"details"`
	PaperSize string              `json:"paper_size"`
}
