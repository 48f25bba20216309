package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

const examCategory = "pts"

// July 14 to August 1, 2025: three Monday-started weeks.
func fixtureYear() AcademicYear {
	return AcademicYear{
		Start:                 dateutil.New(2025, 7, 14),
		End:                   dateutil.New(2025, 8, 1),
		SemesterBreakCategory: examCategory,
		FallbackSemesterBreak: dateutil.New(2025, 7, 20),
	}
}

func mustException(t *testing.T, start, end, desc string, kind models.ExceptionKind, category, variant string) models.CalendarException {
	t.Helper()
	exc, err := models.NewCalendarException(dateutil.MustParse(start), dateutil.MustParse(end), desc, kind, category, variant)
	require.NoError(t, err)
	return exc
}

func fixtureRegistry(t *testing.T) *Registry {
	t.Helper()
	exceptions := []models.CalendarException{
		mustException(t, "2025-07-21", "2025-07-25", "Penilaian Tengah Semester", models.ExceptionKindExam, examCategory, "v1"),
		mustException(t, "2025-07-28", "2025-08-01", "Penilaian Tengah Semester", models.ExceptionKindExam, examCategory, "v2"),
		mustException(t, "2025-07-23", "2025-07-23", "Hari Anak Nasional", models.ExceptionKindHoliday, "", ""),
	}
	categories := []models.ExceptionCategory{{
		ID:      examCategory,
		Label:   "Penilaian Tengah Semester",
		Default: "v1",
		Options: []models.VariantOption{{ID: "v1", Label: "Minggu ke-2"}, {ID: "v2", Label: "Minggu ke-3"}},
	}}
	reg, err := NewRegistry(exceptions, categories)
	require.NoError(t, err)
	return reg
}

func variant(v string) models.ScheduleConfiguration {
	return models.ScheduleConfiguration{examCategory: v}
}

func dates(raw ...string) []dateutil.Date {
	out := make([]dateutil.Date, len(raw))
	for i, r := range raw {
		out[i] = dateutil.MustParse(r)
	}
	return out
}

func consecutiveDates(n int) []dateutil.Date {
	out := make([]dateutil.Date, n)
	start := dateutil.New(2025, 7, 14)
	for i := range out {
		out[i] = start.AddDays(i)
	}
	return out
}

var senRabJum = models.SelectionOf(models.Senin, models.Rabu, models.Jumat)
