package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

type historyReader interface {
	List(ctx context.Context, sessionID string) ([]dto.HistoryItem, error)
	Get(ctx context.Context, sessionID, id string) (*models.ActivityLog, error)
}

// HistoryHandler exposes the activity history of a session.
type HistoryHandler struct {
	history historyReader
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(history historyReader) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List godoc
// @Summary Session activity history, newest first
// @Tags History
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	items, err := h.history.List(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	page := &models.Pagination{Page: 1, PageSize: len(items), TotalCount: len(items)}
	response.JSON(c, http.StatusOK, items, page)
}

// Get godoc
// @Summary Restore one history entry with its curriculum snapshot
// @Tags History
// @Produce json
// @Param X-Session-ID header string true "Session id"
// @Param id path string true "History entry id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /history/{id} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	entry, err := h.history.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, entry)
}
