package models

import "github.com/noah-isme/atp-planner-api/pkg/dateutil"

// SemesterSummary counts scheduled days in one semester.
type SemesterSummary struct {
	Semester         int `json:"semester"`
	EffectiveDays    int `json:"effective_days"`
	NonEffectiveDays int `json:"non_effective_days"`
	EffectiveWeeks   int `json:"effective_weeks"`
}

// NonEffectiveDetail records why a scheduled day is lost.
type NonEffectiveDetail struct {
	Date   dateutil.Date `json:"date"`
	Reason string        `json:"reason"`
}

// MonthBreakdown buckets a calendar month.
type MonthBreakdown struct {
	Key                 string               `json:"key"`
	Label               string               `json:"label"`
	Semester            int                  `json:"semester"`
	EffectiveDays       int                  `json:"effective_days"`
	NonEffectiveDetails []NonEffectiveDetail `json:"non_effective_details"`
}

// WeekdayLoad counts effective days for one selected weekday.
type WeekdayLoad struct {
	Day           Weekday `json:"day"`
	EffectiveDays int     `json:"effective_days"`
}

// AnalyticsReport summarises a weekday selection against the calendar.
type AnalyticsReport struct {
	TargetTotal           int              `json:"target_total"`
	WeeklyTarget          int              `json:"weekly_target"`
	SemesterBreak         dateutil.Date    `json:"semester_break"`
	TotalAvailableSlots   int              `json:"total_available_slots"`
	TotalEffectiveWeeks   int              `json:"total_effective_weeks"`
	TotalNonEffectiveDays int              `json:"total_non_effective_days"`
	Semester1             SemesterSummary  `json:"semester_1"`
	Semester2             SemesterSummary  `json:"semester_2"`
	Months                []MonthBreakdown `json:"months"`
	WeekdayLoads          []WeekdayLoad    `json:"weekday_loads"`
}

// DayStatus classifies one cell of a month calendar.
type DayStatus string

const (
	DayStatusEffective    DayStatus = "EFFECTIVE"
	DayStatusNonEffective DayStatus = "NON_EFFECTIVE"
	DayStatusNotScheduled DayStatus = "NOT_SCHEDULED"
	DayStatusOutsideYear  DayStatus = "OUTSIDE_YEAR"
)

// CalendarDay is one cell of a month calendar.
type CalendarDay struct {
	Date      dateutil.Date      `json:"date"`
	Weekday   string             `json:"weekday"`
	Status    DayStatus          `json:"status"`
	Exception *CalendarException `json:"exception,omitempty"`
}

// MonthCalendar is the per-day view of a month for a weekday selection.
type MonthCalendar struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Label string        `json:"label"`
	Days  []CalendarDay `json:"days"`
}
