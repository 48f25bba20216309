package dto

import "github.com/noah-isme/atp-planner-api/internal/models"

// ObjectivesRequest starts a plan: learning outcomes and objectives for a
// subject in one phase.
type ObjectivesRequest struct {
	Subject   string `json:"subject" validate:"required"`
	PhaseID   string `json:"phase_id" validate:"required"`
	PaperSize string `json:"paper_size,omitempty"`
}

// ObjectivesResponse carries the generated curriculum.
type ObjectivesResponse struct {
	Curriculum models.CurriculumData `json:"curriculum"`
	HistoryID  string                `json:"history_id"`
}

// PathwayRequest lays generated activities for one class onto its hour plan.
type PathwayRequest struct {
	ScheduleInput
	Curriculum     models.CurriculumData `json:"curriculum"`
	ClassName      string                `json:"class_name" validate:"required"`
	TargetOverride *int                  `json:"target_override,omitempty" validate:"omitempty,min=0"`
	AutoExpand     *bool                 `json:"auto_expand,omitempty"`
	PaperSize      string                `json:"paper_size,omitempty"`
}

// PathwayResponse is the curriculum with the class pathway bound to dates.
type PathwayResponse struct {
	Curriculum models.CurriculumData `json:"curriculum"`
	Allocation AllocationResponse    `json:"allocation"`
	Filled     int                   `json:"filled"`
	TotalHours int                   `json:"total_hours"`
	Conditions models.Conditions     `json:"conditions"`
	HistoryID  string                `json:"history_id"`
}

// ClassSchedule is the weekday selection of one class.
type ClassSchedule struct {
	ClassName string   `json:"class_name" validate:"required"`
	Days      []string `json:"days" validate:"omitempty,max=6,dive,required"`
}

// PhasePathwayRequest runs pathway generation for several classes at once.
type PhasePathwayRequest struct {
	Curriculum    models.CurriculumData `json:"curriculum"`
	Classes       []ClassSchedule       `json:"classes" validate:"required,min=1,max=6,dive"`
	Config        map[string]string     `json:"config"`
	ApplyDefaults bool                  `json:"apply_defaults"`
	AutoExpand    *bool                 `json:"auto_expand,omitempty"`
	PaperSize     string                `json:"paper_size,omitempty"`
}

// PhasePathwayResponse holds the merged curriculum and each class result.
type PhasePathwayResponse struct {
	Curriculum models.CurriculumData `json:"curriculum"`
	Classes    []PathwayResponse     `json:"classes"`
	HistoryID  string                `json:"history_id"`
}
