package planner

import (
	"math"
	"strings"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// DefaultMaxHoursPerDay is the heaviest single meeting the planner aims for.
const DefaultMaxHoursPerDay = 3

// ExpansionPriority is the order in which days are added to a selection that
// cannot carry its weekly load.
var ExpansionPriority = []models.Weekday{models.Senin, models.Rabu, models.Jumat, models.Selasa, models.Kamis, models.Sabtu}

// EstimatedEffectiveWeeks approximates the teaching weeks of a class. The
// final year ("Kelas 6") loses weeks to the end-of-level exams.
func EstimatedEffectiveWeeks(className string) int {
	if strings.Contains(className, "6") {
		return 32
	}
	return 36
}

// WeeklyTarget is the rounded weekly JP load implied by the annual target.
func WeeklyTarget(target int, className string) int {
	return int(math.Round(float64(target) / float64(EstimatedEffectiveWeeks(className))))
}

// MinimumDays is the number of weekly meetings needed to carry the target at
// no more than maxPerDay hours each.
func MinimumDays(target int, className string, maxPerDay int) int {
	if target <= 0 {
		return 0
	}
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxHoursPerDay
	}
	weeks := EstimatedEffectiveWeeks(className)
	weekly := (target + weeks - 1) / weeks
	days := (weekly + maxPerDay - 1) / maxPerDay
	if days > len(models.SchoolWeek) {
		days = len(models.SchoolWeek)
	}
	return days
}

// ExpandSelection adds days in priority order until the selection reaches
// MinimumDays. It reports whether anything was added.
func ExpandSelection(sel models.WeekdaySelection, target int, className string, maxPerDay int) (models.WeekdaySelection, bool) {
	needed := MinimumDays(target, className, maxPerDay) - sel.Len()
	if needed <= 0 {
		return sel, false
	}
	var added []models.Weekday
	for _, day := range ExpansionPriority {
		if needed == 0 {
			break
		}
		if sel.Contains(day) {
			continue
		}
		added = append(added, day)
		needed--
	}
	return sel.With(added...), len(added) > 0
}
