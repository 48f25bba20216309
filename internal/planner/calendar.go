package planner

import (
	"fmt"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// DefaultSemesterBreakCategory is the category whose selected variant ends
// the first semester.
const DefaultSemesterBreakCategory = "libur_smt1"

// AcademicYear bounds the calendar the planner walks. Both ends are inclusive.
type AcademicYear struct {
	Start dateutil.Date
	End   dateutil.Date
	// SemesterBreakCategory names the first-semester break category.
	SemesterBreakCategory string
	// FallbackSemesterBreak is used when the registry has no such category.
	FallbackSemesterBreak dateutil.Date
}

// DefaultAcademicYear is the 2025/2026 year.
func DefaultAcademicYear() AcademicYear {
	return AcademicYear{
		Start:                 dateutil.New(2025, 7, 14),
		End:                   dateutil.New(2026, 6, 20),
		SemesterBreakCategory: DefaultSemesterBreakCategory,
		FallbackSemesterBreak: dateutil.New(2025, 12, 31),
	}
}

// ParseAcademicYear builds a year from YYYY-MM-DD strings. Empty values keep
// the defaults of DefaultAcademicYear.
func ParseAcademicYear(start, end, breakCategory, breakFallback string) (AcademicYear, error) {
	year := DefaultAcademicYear()
	for _, field := range []struct {
		raw string
		dst *dateutil.Date
	}{
		{start, &year.Start},
		{end, &year.End},
		{breakFallback, &year.FallbackSemesterBreak},
	} {
		if field.raw == "" {
			continue
		}
		d, err := dateutil.Parse(field.raw)
		if err != nil {
			return AcademicYear{}, fmt.Errorf("parse academic year date %q: %w", field.raw, err)
		}
		*field.dst = d
	}
	if breakCategory != "" {
		year.SemesterBreakCategory = breakCategory
	}
	return year, year.Validate()
}

// Validate checks the bounds.
func (y AcademicYear) Validate() error {
	if y.Start.IsZero() || y.End.IsZero() {
		return fmt.Errorf("academic year bounds are required")
	}
	if y.End.Before(y.Start) {
		return fmt.Errorf("academic year ends %s before it starts %s", y.End, y.Start)
	}
	return nil
}

// Contains reports whether date is inside the year.
func (y AcademicYear) Contains(date dateutil.Date) bool {
	return date.Between(y.Start, y.End)
}

// SemesterBreak returns the last day of the first semester: the end of the
// break variant selected by cfg. Dates on or before it belong to semester 1.
func (y AcademicYear) SemesterBreak(reg *Registry, cfg models.ScheduleConfiguration) dateutil.Date {
	if reg != nil && y.SemesterBreakCategory != "" {
		if variant := cfg[y.SemesterBreakCategory]; variant != "" {
			if _, end, ok := reg.VariantRange(y.SemesterBreakCategory, variant); ok {
				return end
			}
		}
	}
	if !y.FallbackSemesterBreak.IsZero() {
		return y.FallbackSemesterBreak
	}
	return dateutil.New(y.Start.Year(), 12, 31)
}

// Week returns the 1-based teaching week of date, counting Monday-started
// weeks from the week that contains the year start.
func (y AcademicYear) Week(date dateutil.Date) int {
	first := mondayOf(y.Start)
	return first.DaysUntil(mondayOf(date))/7 + 1
}

func mondayOf(d dateutil.Date) dateutil.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// Enumerate returns the effective dates of the year for a weekday selection:
// every date on a selected weekday that no active exception covers, ascending.
func Enumerate(year AcademicYear, reg *Registry, sel models.WeekdaySelection, cfg models.ScheduleConfiguration) []dateutil.Date {
	dates := make([]dateutil.Date, 0, 256)
	if sel.Empty() {
		return dates
	}
	dateutil.Range(year.Start, year.End, func(d dateutil.Date) bool {
		if !sel.ContainsTime(d.Weekday()) {
			return true
		}
		if _, blocked := reg.IsActiveException(d, cfg); blocked {
			return true
		}
		dates = append(dates, d)
		return true
	})
	return dates
}

// MonthCalendar classifies every day of one month for display.
func MonthCalendar(year AcademicYear, reg *Registry, sel models.WeekdaySelection, cfg models.ScheduleConfiguration, y int, m int) models.MonthCalendar {
	first := dateutil.New(y, timeMonth(m), 1)
	out := models.MonthCalendar{Year: y, Month: m, Label: MonthLabel(first)}
	dateutil.Range(first, first.LastOfMonth(), func(d dateutil.Date) bool {
		day := models.CalendarDay{Date: d, Weekday: DayName(d)}
		exc, blocked := reg.IsActiveException(d, cfg)
		if blocked {
			copied := exc
			day.Exception = &copied
		}
		switch {
		case !year.Contains(d):
			day.Status = models.DayStatusOutsideYear
		case !sel.ContainsTime(d.Weekday()):
			day.Status = models.DayStatusNotScheduled
		case blocked:
			day.Status = models.DayStatusNonEffective
		default:
			day.Status = models.DayStatusEffective
		}
		out.Days = append(out.Days, day)
		return true
	})
	return out
}
