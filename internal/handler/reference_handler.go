package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/response"
)

type referenceReader interface {
	Subjects() ([]string, error)
	Phases() ([]models.Phase, error)
	Standards() (models.TargetHourTable, error)
	Reload(ctx context.Context) error
}

type targetResolver interface {
	ResolveTarget(ctx context.Context, req dto.ResolveTargetRequest) (*dto.ResolveTargetResponse, error)
}

// ReferenceHandler exposes the reference data.
type ReferenceHandler struct {
	reference referenceReader
	resolver  targetResolver
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(reference referenceReader, resolver targetResolver) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, resolver: resolver}
}

// Subjects godoc
// @Summary List subjects with JP standards
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/subjects [get]
func (h *ReferenceHandler) Subjects(c *gin.Context) {
	subjects, err := h.reference.Subjects()
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, subjects)
}

// Phases godoc
// @Summary List curriculum phases with their classes
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/phases [get]
func (h *ReferenceHandler) Phases(c *gin.Context) {
	phases, err := h.reference.Phases()
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, phases)
}

// Standards godoc
// @Summary Annual JP standards per subject and class
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/standards [get]
func (h *ReferenceHandler) Standards(c *gin.Context) {
	table, err := h.reference.Standards()
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, table)
}

// Resolve godoc
// @Summary Resolve the annual JP target of a subject and class
// @Tags Reference
// @Produce json
// @Param subject query string true "Subject name"
// @Param class query string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /reference/standards/resolve [get]
func (h *ReferenceHandler) Resolve(c *gin.Context) {
	var req dto.ResolveTargetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.resolver.ResolveTarget(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Reload godoc
// @Summary Reload reference data from its source
// @Tags Reference
// @Success 204
// @Router /reference/reload [post]
func (h *ReferenceHandler) Reload(c *gin.Context) {
	if err := h.reference.Reload(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
