package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the route handlers mounted under the API prefix.
type Handlers struct {
	Reference  *ReferenceHandler
	Calendar   *CalendarHandler
	Planner    *PlannerHandler
	Curriculum *CurriculumHandler
	History    *HistoryHandler
	Export     *ExportHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts every API route on group. Nil handlers are skipped so
// optional features can be switched off.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	if h.Reference != nil {
		ref := group.Group("/reference")
		ref.GET("/subjects", h.Reference.Subjects)
		ref.GET("/phases", h.Reference.Phases)
		ref.GET("/standards", h.Reference.Standards)
		ref.GET("/standards/resolve", h.Reference.Resolve)
		ref.POST("/reload", h.Reference.Reload)
	}
	if h.Calendar != nil {
		cal := group.Group("/calendar")
		cal.GET("/categories", h.Calendar.Categories)
		cal.GET("/exceptions", h.Calendar.Exceptions)
		cal.GET("/month", h.Calendar.Month)
	}
	if h.Planner != nil {
		plan := group.Group("/planner")
		plan.POST("/effective-dates", h.Planner.EffectiveDates)
		plan.POST("/allocation", h.Planner.Allocation)
		plan.POST("/analysis", h.Planner.Analysis)
	}
	if h.Curriculum != nil {
		cur := group.Group("/curriculum")
		cur.POST("/objectives", h.Curriculum.Objectives)
		cur.POST("/pathway", h.Curriculum.Pathway)
		cur.POST("/pathway/phase", h.Curriculum.PhasePathway)
	}
	if h.History != nil {
		group.GET("/history", h.History.List)
		group.GET("/history/:id", h.History.Get)
	}
	if h.Export != nil {
		group.POST("/exports", h.Export.Create)
		group.GET("/exports", h.Export.List)
		group.GET("/exports/:id", h.Export.Status)
		group.GET("/export/:token", h.Export.Download)
	}
	if h.Metrics != nil {
		group.GET("/metrics/summary", h.Metrics.Summary)
	}
}
