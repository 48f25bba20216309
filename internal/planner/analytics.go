package planner

import (
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

type isoWeek struct {
	year int
	week int
}

type semesterTally struct {
	summary models.SemesterSummary
	weeks   map[isoWeek]struct{}
}

func newSemesterTally(n int) *semesterTally {
	return &semesterTally{
		summary: models.SemesterSummary{Semester: n},
		weeks:   map[isoWeek]struct{}{},
	}
}

// Analyze walks every date of the year. Dates on or before semesterBreak are
// semester 1, the rest semester 2. Scheduled effective days count toward their
// semester, ISO week, month and weekday. Scheduled days lost to an exception
// are counted and listed with the exception's description under their month.
// An ISO week counts once per semester however many effective days it holds.
func Analyze(year AcademicYear, reg *Registry, sel models.WeekdaySelection, cfg models.ScheduleConfiguration, target int, semesterBreak dateutil.Date) models.AnalyticsReport {
	semesters := [2]*semesterTally{newSemesterTally(1), newSemesterTally(2)}
	var months []models.MonthBreakdown
	monthIdx := map[string]int{}

	loads := map[models.Weekday]int{}
	for _, day := range sel.Sorted() {
		loads[day] = 0
	}

	report := models.AnalyticsReport{
		TargetTotal:   target,
		SemesterBreak: semesterBreak,
	}

	dateutil.Range(year.Start, year.End, func(d dateutil.Date) bool {
		semester := 1
		if d.After(semesterBreak) {
			semester = 2
		}
		tally := semesters[semester-1]

		key := MonthKey(d)
		idx, ok := monthIdx[key]
		if !ok {
			idx = len(months)
			monthIdx[key] = idx
			months = append(months, models.MonthBreakdown{
				Key:                 key,
				Label:               MonthLabel(d),
				Semester:            semester,
				NonEffectiveDetails: []models.NonEffectiveDetail{},
			})
		}

		day, school := models.WeekdayOf(d.Weekday())
		if !school || !sel.Contains(day) {
			return true
		}

		if exc, blocked := reg.IsActiveException(d, cfg); blocked {
			tally.summary.NonEffectiveDays++
			report.TotalNonEffectiveDays++
			months[idx].NonEffectiveDetails = append(months[idx].NonEffectiveDetails, models.NonEffectiveDetail{
				Date:   d,
				Reason: exc.Description,
			})
			return true
		}

		report.TotalAvailableSlots++
		tally.summary.EffectiveDays++
		y, w := d.ISOWeek()
		tally.weeks[isoWeek{year: y, week: w}] = struct{}{}
		months[idx].EffectiveDays++
		loads[day]++
		return true
	})

	for _, tally := range semesters {
		tally.summary.EffectiveWeeks = len(tally.weeks)
	}
	report.Semester1 = semesters[0].summary
	report.Semester2 = semesters[1].summary
	report.TotalEffectiveWeeks = report.Semester1.EffectiveWeeks + report.Semester2.EffectiveWeeks
	report.Months = months

	report.WeekdayLoads = make([]models.WeekdayLoad, 0, sel.Len())
	for _, day := range sel.Sorted() {
		report.WeekdayLoads = append(report.WeekdayLoads, models.WeekdayLoad{Day: day, EffectiveDays: loads[day]})
	}
	return report
}
