package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// CurriculumData is the document built by the two generation steps: learning
// outcomes (CP) and objectives (TP) first, then the per-meeting pathway (ATP).
type CurriculumData struct {
	Subject     string    `json:"subject"`
	Phase       string    `json:"phase"`
	PhaseID     string    `json:"phase_id,omitempty"`
	Description string    `json:"description"`
	Elements    []Element `json:"elements"`
}

// Element is a curriculum strand with its learning outcome.
type Element struct {
	Name            string            `json:"name"`
	LearningOutcome string            `json:"learning_outcome"`
	Allocations     []ClassAllocation `json:"allocations"`
}

// ClassAllocation holds the objectives of one class and, after the second
// step, the pathway grouped by objective.
type ClassAllocation struct {
	ClassName    string           `json:"class_name"`
	Objectives   []string         `json:"objectives"`
	Pathway      []ObjectiveGroup `json:"pathway,omitempty"`
	ScheduleDays []string         `json:"schedule_days,omitempty"`
}

// ObjectiveGroup lists the meetings planned for one objective.
type ObjectiveGroup struct {
	Objective string        `json:"objective"`
	Items     []PathwayItem `json:"items"`
}

// PathwayItem is one planned meeting.
type PathwayItem struct {
	Activity   string         `json:"activity"`
	HoursLabel string         `json:"hours_label"`
	PlanDate   *dateutil.Date `json:"plan_date,omitempty"`
	WeekNumber int            `json:"week_number,omitempty"`
}

var leadingNumber = regexp.MustCompile(`\d+`)

// Hours parses the first number in the label ("3 JP" -> 3).
func (i PathwayItem) Hours() int {
	match := leadingNumber.FindString(i.HoursLabel)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// Clone returns a deep copy.
func (c CurriculumData) Clone() CurriculumData {
	out := c
	out.Elements = make([]Element, len(c.Elements))
	for i, el := range c.Elements {
		el.Allocations = cloneAllocations(el.Allocations)
		out.Elements[i] = el
	}
	return out
}

func cloneAllocations(in []ClassAllocation) []ClassAllocation {
	out := make([]ClassAllocation, len(in))
	for i, alloc := range in {
		alloc.Objectives = append([]string(nil), alloc.Objectives...)
		alloc.ScheduleDays = append([]string(nil), alloc.ScheduleDays...)
		if alloc.Pathway != nil {
			groups := make([]ObjectiveGroup, len(alloc.Pathway))
			for j, g := range alloc.Pathway {
				g.Items = append([]PathwayItem(nil), g.Items...)
				groups[j] = g
			}
			alloc.Pathway = groups
		}
		out[i] = alloc
	}
	return out
}

// TotalHours sums the hour labels of every pathway item planned for classes
// whose name contains className.
func (c CurriculumData) TotalHours(className string) int {
	needle := strings.ToLower(className)
	total := 0
	for _, el := range c.Elements {
		for _, alloc := range el.Allocations {
			if !strings.Contains(strings.ToLower(alloc.ClassName), needle) {
				continue
			}
			for _, group := range alloc.Pathway {
				for _, item := range group.Items {
					total += item.Hours()
				}
			}
		}
	}
	return total
}

// ObjectivesFor returns the objectives of className per element, in element order.
func (c CurriculumData) ObjectivesFor(className string) [][]string {
	out := make([][]string, len(c.Elements))
	for i, el := range c.Elements {
		for _, alloc := range el.Allocations {
			if alloc.ClassName == className {
				out[i] = alloc.Objectives
				break
			}
		}
	}
	return out
}

// Classes lists the distinct class names in first-seen order.
func (c CurriculumData) Classes() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, el := range c.Elements {
		for _, alloc := range el.Allocations {
			if _, ok := seen[alloc.ClassName]; ok {
				continue
			}
			seen[alloc.ClassName] = struct{}{}
			out = append(out, alloc.ClassName)
		}
	}
	return out
}

// ActivityType distinguishes the two generation steps in the history.
type ActivityType string

const (
	ActivityObjectives ActivityType = "CP_TP"
	ActivityPathway    ActivityType = "ATP_JP"
)

// ActivityLog is one entry of a session's history.
type ActivityLog struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      ActivityType   `json:"type"`
	Subject   string         `json:"subject"`
	Details   string         `json:"details"`
	Snapshot  CurriculumData `json:"snapshot"`
	PaperSize string         `json:"paper_size"`
}
