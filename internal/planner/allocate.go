package planner

import (
	"fmt"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

// Allocate distributes target hours over slots. Every slot gets
// target/len(slots) hours and the first target%len(slots) slots get one more,
// so the entries sum to target exactly. Emission stops once the running sum
// reaches target and zero-hour slots are skipped, which leaves trailing slots
// free. No slots means an empty plan whatever the target.
func Allocate(target int, slots []dateutil.Date) models.HourAllocationPlan {
	if target < 0 {
		target = 0
	}
	plan := models.HourAllocationPlan{
		TargetTotal: target,
		SlotCount:   len(slots),
		Entries:     []models.HourAllocation{},
	}
	if len(slots) == 0 || target == 0 {
		return plan
	}

	n := len(slots)
	plan.Base = target / n
	plan.Remainder = target % n

	accumulated := 0
	for i, slot := range slots {
		if accumulated >= target {
			break
		}
		hours := plan.Base
		if i < plan.Remainder {
			hours++
		}
		if hours == 0 {
			continue
		}
		plan.Entries = append(plan.Entries, models.HourAllocation{Date: slot, Hours: hours})
		accumulated += hours
	}
	return plan
}

// PeakHours is the largest allocation of any single slot.
func PeakHours(plan models.HourAllocationPlan) int {
	peak := 0
	for _, e := range plan.Entries {
		if e.Hours > peak {
			peak = e.Hours
		}
	}
	return peak
}

// AssessPlan derives the non-fatal conditions of an allocation.
func AssessPlan(plan models.HourAllocationPlan, sel models.WeekdaySelection, maxPerDay int) models.Conditions {
	var out models.Conditions
	if !sel.Empty() && plan.SlotCount == 0 {
		out = append(out, models.Condition{
			Code:    models.ConditionZeroCapacity,
			Message: fmt.Sprintf("no effective dates left for %s; widen the weekday selection", sel),
		})
	}
	if deficit := plan.Deficit(); deficit > 0 {
		out = append(out, models.Condition{
			Code:    models.ConditionAllocationDeficit,
			Message: fmt.Sprintf("plan reaches %d of %d JP", plan.Sum(), plan.TargetTotal),
			Amount:  deficit,
		})
	}
	if peak := PeakHours(plan); maxPerDay > 0 && peak > maxPerDay {
		out = append(out, models.Condition{
			Code:    models.ConditionHeavyDailyLoad,
			Message: fmt.Sprintf("some meetings carry %d JP, above the %d JP daily limit", peak, maxPerDay),
			Amount:  peak,
		})
	}
	return out
}
