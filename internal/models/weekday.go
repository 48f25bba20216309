package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weekday is a school day name. Sunday is never a school day.
type Weekday string

const (
	Senin  Weekday = "Senin"
	Selasa Weekday = "Selasa"
	Rabu   Weekday = "Rabu"
	Kamis  Weekday = "Kamis"
	Jumat  Weekday = "Jumat"
	Sabtu  Weekday = "Sabtu"
)

// SchoolWeek lists the school days in canonical order.
var SchoolWeek = []Weekday{Senin, Selasa, Rabu, Kamis, Jumat, Sabtu}

var weekdayIndex = map[Weekday]int{Senin: 0, Selasa: 1, Rabu: 2, Kamis: 3, Jumat: 4, Sabtu: 5}

var fromTimeWeekday = map[time.Weekday]Weekday{
	time.Monday:    Senin,
	time.Tuesday:   Selasa,
	time.Wednesday: Rabu,
	time.Thursday:  Kamis,
	time.Friday:    Jumat,
	time.Saturday:  Sabtu,
}

// ParseWeekday accepts a day name in any letter case.
func ParseWeekday(raw string) (Weekday, error) {
	trimmed := strings.TrimSpace(raw)
	for _, day := range SchoolWeek {
		if strings.EqualFold(string(day), trimmed) {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown school day %q", raw)
}

// WeekdayOf maps a calendar weekday to a school day; ok is false on Sunday.
func WeekdayOf(w time.Weekday) (Weekday, bool) {
	day, ok := fromTimeWeekday[w]
	return day, ok
}

// Index returns the canonical position of the day, or -1.
func (w Weekday) Index() int {
	if idx, ok := weekdayIndex[w]; ok {
		return idx
	}
	return -1
}

// WeekdaySelection is an order-insensitive set of school days.
type WeekdaySelection struct {
	days map[Weekday]struct{}
}

// NewWeekdaySelection builds a selection from day names, rejecting unknown ones.
func NewWeekdaySelection(names ...string) (WeekdaySelection, error) {
	sel := WeekdaySelection{days: make(map[Weekday]struct{}, len(names))}
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			return WeekdaySelection{}, err
		}
		sel.days[day] = struct{}{}
	}
	return sel, nil
}

// SelectionOf builds a selection from typed days.
func SelectionOf(days ...Weekday) WeekdaySelection {
	sel := WeekdaySelection{days: make(map[Weekday]struct{}, len(days))}
	for _, day := range days {
		if day.Index() >= 0 {
			sel.days[day] = struct{}{}
		}
	}
	return sel
}

// Contains reports membership.
func (s WeekdaySelection) Contains(day Weekday) bool {
	_, ok := s.days[day]
	return ok
}

// ContainsTime reports whether the calendar weekday is selected.
func (s WeekdaySelection) ContainsTime(w time.Weekday) bool {
	day, ok := WeekdayOf(w)
	return ok && s.Contains(day)
}

// Len returns the number of selected days.
func (s WeekdaySelection) Len() int { return len(s.days) }

// Empty reports whether nothing is selected.
func (s WeekdaySelection) Empty() bool { return len(s.days) == 0 }

// Sorted returns the selected days in canonical order.
func (s WeekdaySelection) Sorted() []Weekday {
	out := make([]Weekday, 0, len(s.days))
	for day := range s.days {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// With returns a new selection that also contains days.
func (s WeekdaySelection) With(days ...Weekday) WeekdaySelection {
	return SelectionOf(append(s.Sorted(), days...)...)
}

// Names returns the sorted day names as strings.
func (s WeekdaySelection) Names() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, day := range sorted {
		out[i] = string(day)
	}
	return out
}

// String joins the sorted names with commas.
func (s WeekdaySelection) String() string {
	return strings.Join(s.Names(), ",")
}

// MarshalJSON encodes the selection as a sorted array of names.
func (s WeekdaySelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an array of names.
func (s *WeekdaySelection) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("days must be an array of names: %w", err)
	}
	sel, err := NewWeekdaySelection(names...)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}
