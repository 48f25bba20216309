package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

type hourPlanner interface {
	EffectiveDates(ctx context.Context, req dto.EffectiveDatesRequest) (*dto.EffectiveDatesResponse, error)
	Allocation(ctx context.Context, req dto.AllocationRequest) (*dto.AllocationResponse, error)
	Analysis(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResponse, error)
}

// PlannerHandler exposes date enumeration, allocation and analytics.
type PlannerHandler struct {
	planner hourPlanner
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(planner hourPlanner) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// EffectiveDates godoc
// @Summary Effective teaching dates of a weekday selection
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.EffectiveDatesRequest true "Weekdays and configuration"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /planner/effective-dates [post]
func (h *PlannerHandler) EffectiveDates(c *gin.Context) {
	var req dto.EffectiveDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.planner.EffectiveDates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Allocation godoc
// @Summary Distribute the annual JP target over effective dates
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.AllocationRequest true "Allocation payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /planner/allocation [post]
func (h *PlannerHandler) Allocation(c *gin.Context) {
	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.planner.Allocation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Analysis godoc
// @Summary Calendar analytics for a subject and class
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.AnalysisRequest true "Analysis payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /planner/analysis [post]
func (h *PlannerHandler) Analysis(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.planner.Analysis(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
