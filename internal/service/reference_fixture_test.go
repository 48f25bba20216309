package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

type referenceLoaderStub struct {
	data  *models.ReferenceData
	err   error
	calls int
}

func (s *referenceLoaderStub) Load(ctx context.Context) (*models.ReferenceData, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

// Three Monday-started weeks, with the mid-term exam in week two (v1) or
// week three (v2) and a holiday on Wednesday July 23.
func testReferenceData() *models.ReferenceData {
	d := dateutil.MustParse
	return &models.ReferenceData{
		Version: "test",
		Exceptions: []models.CalendarException{
			{Start: d("2025-07-21"), End: d("2025-07-25"), Description: "Penilaian Tengah Semester", Kind: models.ExceptionKindExam, Category: "pts", Variant: "v1"},
			{Start: d("2025-07-28"), End: d("2025-08-01"), Description: "Penilaian Tengah Semester", Kind: models.ExceptionKindExam, Category: "pts", Variant: "v2"},
			{Start: d("2025-07-23"), End: d("2025-07-23"), Description: "Hari Anak Nasional", Kind: models.ExceptionKindHoliday},
		},
		Categories: []models.ExceptionCategory{{
			ID:      "pts",
			Label:   "Penilaian Tengah Semester",
			Default: "v1",
			Options: []models.VariantOption{{ID: "v1", Label: "Minggu ke-2"}, {ID: "v2", Label: "Minggu ke-3"}},
		}},
		Standards: models.TargetHourTable{
			{Subject: "Matematika", Classes: map[string]int{"Kelas 3": 12, "Kelas 4": 10}},
			{Subject: "Bahasa Indonesia", Classes: map[string]int{"Kelas 3": 0}},
		},
		Subjects: []string{"Matematika", "Bahasa Indonesia"},
		Phases:   []models.Phase{{ID: "B", Name: "Fase B", Classes: []string{"Kelas 3", "Kelas 4"}}},
	}
}

func testYear() planner.AcademicYear {
	return planner.AcademicYear{
		Start:                 dateutil.New(2025, 7, 14),
		End:                   dateutil.New(2025, 8, 1),
		SemesterBreakCategory: "pts",
		FallbackSemesterBreak: dateutil.New(2025, 7, 20),
	}
}

func newTestReference(t *testing.T) *ReferenceService {
	t.Helper()
	svc := NewReferenceService(&referenceLoaderStub{data: testReferenceData()}, zap.NewNop())
	require.NoError(t, svc.Reload(context.Background()))
	return svc
}

func newTestPlanner(t *testing.T) *PlannerService {
	t.Helper()
	return NewPlannerService(newTestReference(t), nil, NewMetricsService(), zap.NewNop(), PlannerConfig{Year: testYear()})
}

var senRabJum = []string{"Senin", "Rabu", "Jumat"}

func pts(v string) map[string]string {
	return map[string]string{"pts": v}
}
