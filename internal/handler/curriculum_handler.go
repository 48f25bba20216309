package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

type contentGenerator interface {
	GenerateObjectives(ctx context.Context, sessionID string, req dto.ObjectivesRequest) (*dto.ObjectivesResponse, error)
	GeneratePathway(ctx context.Context, sessionID string, req dto.PathwayRequest) (*dto.PathwayResponse, error)
	GeneratePhasePathway(ctx context.Context, sessionID string, req dto.PhasePathwayRequest) (*dto.PhasePathwayResponse, error)
}

// CurriculumHandler exposes the two content generation steps.
type CurriculumHandler struct {
	content contentGenerator
}

// NewCurriculumHandler constructs the handler.
func NewCurriculumHandler(content contentGenerator) *CurriculumHandler {
	return &CurriculumHandler{content: content}
}

// Objectives godoc
// @Summary Generate learning outcomes and objectives for a subject and phase
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param payload body dto.ObjectivesRequest true "Subject and phase"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /curriculum/objectives [post]
func (h *CurriculumHandler) Objectives(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.ObjectivesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.content.GenerateObjectives(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusCreated, result)
}

// Pathway godoc
// @Summary Generate the learning pathway of one class bound to its hour plan
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param payload body dto.PathwayRequest true "Curriculum, class and schedule"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /curriculum/pathway [post]
func (h *CurriculumHandler) Pathway(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.PathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.content.GeneratePathway(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusCreated, result)
}

// PhasePathway godoc
// @Summary Generate the pathway of every class of a phase
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param payload body dto.PhasePathwayRequest true "Curriculum and per-class schedules"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /curriculum/pathway/phase [post]
func (h *CurriculumHandler) PhasePathway(c *gin.Context) {
	sessionID, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.PhasePathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.content.GeneratePhasePathway(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusCreated, result)
}
