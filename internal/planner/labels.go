package planner

import (
	"fmt"
	"time"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthLabel renders "Juli 2025".
func MonthLabel(d dateutil.Date) string {
	return fmt.Sprintf("%s %d", monthNames[d.Month()-1], d.Year())
}

// MonthKey renders "2025-07".
func MonthKey(d dateutil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// DayName returns the Indonesian weekday name, including Minggu.
func DayName(d dateutil.Date) string {
	if day, ok := models.WeekdayOf(d.Weekday()); ok {
		return string(day)
	}
	return "Minggu"
}

// LongDate renders "Senin, 14 Juli 2025".
func LongDate(d dateutil.Date) string {
	return fmt.Sprintf("%s, %d %s %d", DayName(d), d.Day(), monthNames[d.Month()-1], d.Year())
}

func timeMonth(m int) time.Month {
	return time.Month(m)
}
