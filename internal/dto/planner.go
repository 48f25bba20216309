package dto

import (
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// ScheduleInput is the weekday selection and category configuration shared by
// planner requests. ApplyDefaults fills categories the caller left out.
type ScheduleInput struct {
	Days          []string          `json:"days" validate:"omitempty,max=6,dive,required"`
	Config        map[string]string `json:"config"`
	ApplyDefaults bool              `json:"apply_defaults"`
}

// EffectiveDatesRequest asks for the effective dates of a selection.
type EffectiveDatesRequest struct {
	ScheduleInput
}

// EffectiveDatesResponse lists effective dates in ascending order.
type EffectiveDatesResponse struct {
	Days       []string          `json:"days"`
	Config     map[string]string `json:"config"`
	Count      int               `json:"count"`
	Dates      []dateutil.Date   `json:"dates"`
	Conditions models.Conditions `json:"conditions"`
}

// AllocationRequest asks for the hour plan of one subject and class.
type AllocationRequest struct {
	ScheduleInput
	Subject        string `json:"subject" validate:"required"`
	ClassName      string `json:"class_name" validate:"required"`
	TargetOverride *int   `json:"target_override,omitempty" validate:"omitempty,min=0"`
	AutoExpand     bool   `json:"auto_expand"`
}

// TargetInfo describes where the annual target came from.
type TargetInfo struct {
	Hours      int    `json:"hours"`
	SubjectKey string `json:"subject_key,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Assumed    bool   `json:"assumed"`
	Override   bool   `json:"override,omitempty"`
	Weekly     int    `json:"weekly"`
}

// AllocationResponse is the computed plan.
type AllocationResponse struct {
	Subject    string                    `json:"subject"`
	ClassName  string                    `json:"class_name"`
	Days       []string                  `json:"days"`
	Config     map[string]string         `json:"config"`
	Target     TargetInfo                `json:"target"`
	Plan       models.HourAllocationPlan `json:"plan"`
	Conditions models.Conditions         `json:"conditions"`
}

// AnalysisRequest asks for calendar analytics of one subject and class.
type AnalysisRequest struct {
	ScheduleInput
	Subject        string `json:"subject" validate:"required"`
	ClassName      string `json:"class_name" validate:"required"`
	TargetOverride *int   `json:"target_override,omitempty" validate:"omitempty,min=0"`
}

// AnalysisResponse wraps the analytics report.
type AnalysisResponse struct {
	Subject    string                 `json:"subject"`
	ClassName  string                 `json:"class_name"`
	Days       []string               `json:"days"`
	Config     map[string]string      `json:"config"`
	Target     TargetInfo             `json:"target"`
	Report     models.AnalyticsReport `json:"report"`
	Conditions models.Conditions      `json:"conditions"`
}

// MonthCalendarRequest asks for the day grid of one month.
type MonthCalendarRequest struct {
	ScheduleInput
	Year  int `json:"year" validate:"required,min=1900,max=2200"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// ResolveTargetRequest looks up one standards entry.
type ResolveTargetRequest struct {
	Subject   string `form:"subject" json:"subject" validate:"required"`
	ClassName string `form:"class" json:"class_name" validate:"required"`
}

// CategoryView is a selectable category with its options.
type CategoryView struct {
	ID             string        `json:"id"`
	Label          string        `json:"label"`
	DefaultVariant string        `json:"default_variant"`
	Options        []VariantView `json:"options"`
}

// VariantView is one option with the span its exceptions cover.
type VariantView struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Start *dateutil.Date `json:"start,omitempty"`
	End   *dateutil.Date `json:"end,omitempty"`
}

// ResolveTargetResponse reports the resolved target and any lookup miss.
type ResolveTargetResponse struct {
	Subject    string            `json:"subject"`
	ClassName  string            `json:"class_name"`
	Target     TargetInfo        `json:"target"`
	Conditions models.Conditions `json:"conditions"`
}

// ActiveExceptionsResponse lists the exceptions selected by a configuration.
type ActiveExceptionsResponse struct {
	Config     map[string]string          `json:"config"`
	Exceptions []models.CalendarException `json:"exceptions"`
}
