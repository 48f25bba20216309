package models

import (
	"fmt"
	"strings"

	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// ExceptionKind classifies a non-teaching date range.
type ExceptionKind string

const (
	ExceptionKindHoliday  ExceptionKind = "HOLIDAY"
	ExceptionKindExam     ExceptionKind = "EXAM"
	ExceptionKindActivity ExceptionKind = "ACTIVITY"
)

// Valid reports whether k is a known kind.
func (k ExceptionKind) Valid() bool {
	switch k {
	case ExceptionKindHoliday, ExceptionKindExam, ExceptionKindActivity:
		return true
	default:
		return false
	}
}

// ParseExceptionKind accepts kinds case-insensitively ("holiday", "EXAM").
func ParseExceptionKind(raw string) (ExceptionKind, error) {
	kind := ExceptionKind(strings.ToUpper(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown exception kind %q", raw)
	}
	return kind, nil
}

// CalendarException is a closed date range on which no teaching happens.
// Conditional exceptions carry a category and variant and only apply when the
// schedule configuration selects that variant.
type CalendarException struct {
	Start       dateutil.Date `json:"start" db:"start_date" yaml:"start"`
	End         dateutil.Date `json:"end" db:"end_date" yaml:"end"`
	Description string        `json:"description" db:"description" yaml:"description"`
	Kind        ExceptionKind `json:"kind" db:"kind" yaml:"kind"`
	Category    string        `json:"category,omitempty" db:"category" yaml:"category,omitempty"`
	Variant     string        `json:"variant,omitempty" db:"variant" yaml:"variant,omitempty"`
}

// NewCalendarException validates and builds an exception.
func NewCalendarException(start, end dateutil.Date, description string, kind ExceptionKind, category, variant string) (CalendarException, error) {
	exc := CalendarException{
		Start:       start,
		End:         end,
		Description: strings.TrimSpace(description),
		Kind:        kind,
		Category:    strings.TrimSpace(category),
		Variant:     strings.TrimSpace(variant),
	}
	if err := exc.Validate(); err != nil {
		return CalendarException{}, err
	}
	return exc, nil
}

// Validate checks the record invariants.
func (e CalendarException) Validate() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("exception %q: start and end are required", e.Description)
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("exception %q: end %s before start %s", e.Description, e.End, e.Start)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("exception %q: unknown kind %q", e.Description, e.Kind)
	}
	if (e.Category == "") != (e.Variant == "") {
		return fmt.Errorf("exception %q: category and variant must be set together", e.Description)
	}
	return nil
}

// Conditional reports whether the exception depends on a variant selection.
func (e CalendarException) Conditional() bool {
	return e.Category != ""
}

// Contains reports whether date falls in [Start, End].
func (e CalendarException) Contains(date dateutil.Date) bool {
	return date.Between(e.Start, e.End)
}

// ActiveUnder reports whether cfg selects this exception.
func (e CalendarException) ActiveUnder(cfg ScheduleConfiguration) bool {
	if !e.Conditional() {
		return true
	}
	return cfg[e.Category] == e.Variant
}

// VariantOption is one selectable alternative of a category.
type VariantOption struct {
	ID    string `json:"id" db:"variant" yaml:"id"`
	Label string `json:"label" db:"label" yaml:"label"`
}

// ExceptionCategory groups mutually exclusive variants, e.g. two candidate
// windows for the first semester break.
type ExceptionCategory struct {
	ID      string          `json:"id" db:"id" yaml:"id"`
	Label   string          `json:"label" db:"label" yaml:"label"`
	Default string          `json:"default" db:"default_variant" yaml:"default"`
	Options []VariantOption `json:"options" yaml:"options"`
}

// HasOption reports whether variant is offered by the category.
func (c ExceptionCategory) HasOption(variant string) bool {
	for _, opt := range c.Options {
		if opt.ID == variant {
			return true
		}
	}
	return false
}

// ScheduleConfiguration selects one variant per category.
type ScheduleConfiguration map[string]string

// Clone returns an independent copy.
func (c ScheduleConfiguration) Clone() ScheduleConfiguration {
	out := make(ScheduleConfiguration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
