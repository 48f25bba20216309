package models

// ConditionCode names a non-fatal planner condition.
type ConditionCode string

const (
	ConditionZeroCapacity      ConditionCode = "ZERO_CAPACITY"
	ConditionAllocationDeficit ConditionCode = "ALLOCATION_DEFICIT"
	ConditionLookupMiss        ConditionCode = "LOOKUP_MISS"
	ConditionHeavyDailyLoad    ConditionCode = "HEAVY_DAILY_LOAD"
	ConditionWeekdaysExpanded  ConditionCode = "WEEKDAYS_EXPANDED"
	ConditionUnfilledSlots     ConditionCode = "UNFILLED_SLOTS"
	ConditionRowsTruncated     ConditionCode = "ROWS_TRUNCATED"
)

// Condition is reported alongside a successful result so the caller can
// react, e.g. by widening the weekday selection.
type Condition struct {
	Code    ConditionCode `json:"code"`
	Message string        `json:"message"`
	Amount  int           `json:"amount,omitempty"`
}

// Conditions is an ordered list of conditions.
type Conditions []Condition

// Has reports whether code was raised.
func (c Conditions) Has(code ConditionCode) bool {
	for _, cond := range c {
		if cond.Code == code {
			return true
		}
	}
	return false
}

// Get returns the first condition with code.
func (c Conditions) Get(code ConditionCode) (Condition, bool) {
	for _, cond := range c {
		if cond.Code == code {
			return cond, true
		}
	}
	return Condition{}, false
}
