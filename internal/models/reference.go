package models

// ReferenceData is the immutable input set of the planner: the calendar
// exceptions of one academic year, their selectable categories and the
// curriculum standards table.
type ReferenceData struct {
	Version    string              `json:"version" yaml:"version"`
	Exceptions []CalendarException `json:"exceptions" yaml:"exceptions"`
	Categories []ExceptionCategory `json:"categories" yaml:"categories"`
	Standards  TargetHourTable     `json:"standards" yaml:"standards"`
	Subjects   []string            `json:"subjects" yaml:"subjects"`
	Phases     []Phase             `json:"phases" yaml:"phases"`
}

// Phase returns the phase with the given id.
func (r *ReferenceData) Phase(id string) (Phase, bool) {
	for _, p := range r.Phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}

// PhaseOfClass returns the phase containing className.
func (r *ReferenceData) PhaseOfClass(className string) (Phase, bool) {
	for _, p := range r.Phases {
		if p.HasClass(className) {
			return p, true
		}
	}
	return Phase{}, false
}
