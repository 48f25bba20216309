package planner

import (
	"fmt"
	"strings"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// GeneratedObjective carries the activities proposed for one objective.
// Hour labels proposed by the generator are never carried over.
type GeneratedObjective struct {
	Objective  string
	Activities []string
}

// GeneratedElement groups generated objectives under an element name.
type GeneratedElement struct {
	Element    string
	Objectives []GeneratedObjective
}

// BindResult summarises how generated rows were laid onto the plan.
type BindResult struct {
	Data     models.CurriculumData
	Filled   int
	Dropped  int
	Unfilled int
}

// Conditions reports surplus and missing rows.
func (r BindResult) Conditions() models.Conditions {
	var out models.Conditions
	if r.Dropped > 0 {
		out = append(out, models.Condition{
			Code:    models.ConditionRowsTruncated,
			Message: fmt.Sprintf("%d generated activities exceeded the planned meetings and were dropped", r.Dropped),
			Amount:  r.Dropped,
		})
	}
	if r.Unfilled > 0 {
		out = append(out, models.Condition{
			Code:    models.ConditionUnfilledSlots,
			Message: fmt.Sprintf("%d planned meetings have no activity", r.Unfilled),
			Amount:  r.Unfilled,
		})
	}
	return out
}

// BindPathway walks elements, then the class's objectives, then each
// objective's generated activities, assigning plan entries in order. Each
// bound item takes its date and "<n> JP" label from the plan entry. Generated
// details are matched to objectives by text, falling back to position.
// Elements without generated output keep their previous pathway.
func BindPathway(data models.CurriculumData, className string, days []string, generated []GeneratedElement, plan models.HourAllocationPlan, year AcademicYear) BindResult {
	out := data.Clone()
	result := BindResult{}
	cursor := 0

	for ei := range out.Elements {
		el := &out.Elements[ei]
		update, ok := findGenerated(generated, el.Name)
		if !ok {
			continue
		}
		for ai := range el.Allocations {
			alloc := &el.Allocations[ai]
			if alloc.ClassName != className {
				continue
			}
			alloc.ScheduleDays = append([]string(nil), days...)
			groups := make([]models.ObjectiveGroup, len(alloc.Objectives))
			for oi, objective := range alloc.Objectives {
				groups[oi] = models.ObjectiveGroup{Objective: objective, Items: []models.PathwayItem{}}
				detail, found := findObjective(update.Objectives, objective, oi)
				if !found {
					continue
				}
				for _, activity := range detail.Activities {
					if cursor >= len(plan.Entries) {
						result.Dropped++
						continue
					}
					entry := plan.Entries[cursor]
					date := entry.Date
					groups[oi].Items = append(groups[oi].Items, models.PathwayItem{
						Activity:   activity,
						HoursLabel: entry.Label(),
						PlanDate:   &date,
						WeekNumber: year.Week(date),
					})
					cursor++
				}
			}
			alloc.Pathway = groups
		}
	}

	result.Data = out
	result.Filled = cursor
	result.Unfilled = len(plan.Entries) - cursor
	return result
}

func findGenerated(generated []GeneratedElement, name string) (GeneratedElement, bool) {
	for _, g := range generated {
		if g.Element == name {
			return g, true
		}
	}
	trimmed := strings.TrimSpace(name)
	for _, g := range generated {
		if strings.EqualFold(strings.TrimSpace(g.Element), trimmed) {
			return g, true
		}
	}
	return GeneratedElement{}, false
}

func findObjective(details []GeneratedObjective, objective string, idx int) (GeneratedObjective, bool) {
	for _, d := range details {
		if d.Objective == objective {
			return d, true
		}
	}
	if idx < len(details) {
		return details[idx], true
	}
	return GeneratedObjective{}, false
}
