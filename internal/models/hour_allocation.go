package models

import (
	"fmt"

	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// HourAllocation assigns instructional hours (JP) to one effective date.
type HourAllocation struct {
	Date  dateutil.Date `json:"date"`
	Hours int           `json:"hours"`
}

// Label renders the hour label used on plan rows, e.g. "3 JP".
func (a HourAllocation) Label() string {
	return fmt.Sprintf("%d JP", a.Hours)
}

// HourAllocationPlan is the ordered slot assignment for a target total.
type HourAllocationPlan struct {
	TargetTotal int              `json:"target_total"`
	Base        int              `json:"base"`
	Remainder   int              `json:"remainder"`
	SlotCount   int              `json:"slot_count"`
	Entries     []HourAllocation `json:"entries"`
}

// Sum returns the allocated hours.
func (p HourAllocationPlan) Sum() int {
	total := 0
	for _, e := range p.Entries {
		total += e.Hours
	}
	return total
}

// Deficit returns how far the plan falls short of the target.
func (p HourAllocationPlan) Deficit() int {
	if d := p.TargetTotal - p.Sum(); d > 0 {
		return d
	}
	return 0
}

// UnusedSlots returns the number of effective dates left unallocated after
// the target was reached.
func (p HourAllocationPlan) UnusedSlots() int {
	return p.SlotCount - len(p.Entries)
}

// Empty reports whether the plan has no entries.
func (p HourAllocationPlan) Empty() bool {
	return len(p.Entries) == 0
}
