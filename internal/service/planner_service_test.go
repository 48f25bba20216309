package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/dto"
	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestPlannerServiceEffectiveDates(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()

	res, err := svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")}})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Count)
	assert.Equal(t, []string{"Senin", "Rabu", "Jumat"}, res.Days)
	assert.Equal(t, dateutil.MustParse("2025-07-28"), res.Dates[3])
	assert.Empty(t, res.Conditions)
	assert.NotNil(t, res.Conditions)

	res, err = svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v2")}})
	require.NoError(t, err)
	assert.Equal(t, []dateutil.Date{
		dateutil.MustParse("2025-07-14"),
		dateutil.MustParse("2025-07-16"),
		dateutil.MustParse("2025-07-18"),
		dateutil.MustParse("2025-07-21"),
		dateutil.MustParse("2025-07-25"),
	}, res.Dates)
}

func TestPlannerServiceConfigurationErrors(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()

	_, err := svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConfigurationGap.Code, appErr.Code)
	assert.Equal(t, 422, appErr.Status)
	assert.Equal(t, []string{"pts"}, appErr.Details["missing"])

	res, err := svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum, ApplyDefaults: true}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"pts": "v1"}, res.Config)
	assert.Equal(t, 6, res.Count)

	_, err = svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v9")}})
	require.Error(t, err)
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnknownVariant.Code, appErr.Code)
	assert.Equal(t, "v9", appErr.Details["variant"])

	_, err = svc.EffectiveDates(ctx, dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: []string{"Minggu"}, Config: pts("v1")}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceAllocation(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()
	base := dto.ScheduleInput{Days: senRabJum, Config: pts("v1")}

	res, err := svc.Allocation(ctx, dto.AllocationRequest{ScheduleInput: base, Subject: "Matematika", ClassName: "Kelas 3"})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Target.Hours)
	assert.Equal(t, "EXACT", res.Target.Rule)
	assert.False(t, res.Target.Assumed)
	require.Len(t, res.Plan.Entries, 6)
	for _, e := range res.Plan.Entries {
		assert.Equal(t, 2, e.Hours)
	}
	assert.Equal(t, 12, res.Plan.Sum())
	assert.Empty(t, res.Conditions)

	snapshot := svc.metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.PlansComputed)
}

func TestPlannerServiceAllocationLookupMiss(t *testing.T) {
	svc := newTestPlanner(t)

	res, err := svc.Allocation(context.Background(), dto.AllocationRequest{
		ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
		Subject:       "Seni Musik",
		ClassName:     "Kelas 3",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbackTarget, res.Target.Hours)
	assert.True(t, res.Target.Assumed)
	assert.Equal(t, 216, res.Plan.Sum())

	require.Len(t, res.Conditions, 2)
	assert.Equal(t, models.ConditionLookupMiss, res.Conditions[0].Code)
	assert.Equal(t, 216, res.Conditions[0].Amount)
	assert.Equal(t, models.ConditionHeavyDailyLoad, res.Conditions[1].Code)
	assert.Equal(t, 36, res.Conditions[1].Amount)
}

func TestPlannerServiceAllocationEdges(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()

	t.Run("zero table value is an empty plan", func(t *testing.T) {
		res, err := svc.Allocation(ctx, dto.AllocationRequest{
			ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
			Subject:       "Bahasa Indonesia",
			ClassName:     "Kelas 3",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Target.Hours)
		assert.False(t, res.Target.Assumed)
		assert.Empty(t, res.Plan.Entries)
		assert.Empty(t, res.Conditions)
	})

	t.Run("override below slot count leaves slots free", func(t *testing.T) {
		res, err := svc.Allocation(ctx, dto.AllocationRequest{
			ScheduleInput:  dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
			Subject:        "Matematika",
			ClassName:      "Kelas 3",
			TargetOverride: intPtr(5),
		})
		require.NoError(t, err)
		assert.True(t, res.Target.Override)
		assert.Len(t, res.Plan.Entries, 5)
		assert.Equal(t, 1, res.Plan.UnusedSlots())
	})

	t.Run("empty selection reports the deficit", func(t *testing.T) {
		res, err := svc.Allocation(ctx, dto.AllocationRequest{
			ScheduleInput: dto.ScheduleInput{Config: pts("v1")},
			Subject:       "Matematika",
			ClassName:     "Kelas 3",
		})
		require.NoError(t, err)
		assert.Empty(t, res.Plan.Entries)
		cond, ok := res.Conditions.Get(models.ConditionAllocationDeficit)
		require.True(t, ok)
		assert.Equal(t, 12, cond.Amount)
		assert.False(t, res.Conditions.Has(models.ConditionZeroCapacity))
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		_, err := svc.Allocation(ctx, dto.AllocationRequest{
			ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
			ClassName:     "Kelas 3",
		})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})
}

func TestPlannerServiceAllocationAutoExpand(t *testing.T) {
	svc := newTestPlanner(t)

	res, err := svc.Allocation(context.Background(), dto.AllocationRequest{
		ScheduleInput:  dto.ScheduleInput{Days: []string{"Kamis"}, Config: pts("v1")},
		Subject:        "Matematika",
		ClassName:      "Kelas 3",
		TargetOverride: intPtr(252),
		AutoExpand:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Senin", "Rabu", "Kamis"}, res.Days)
	require.NotEmpty(t, res.Conditions)
	assert.Equal(t, models.ConditionWeekdaysExpanded, res.Conditions[0].Code)
	assert.Equal(t, 2, res.Conditions[0].Amount)
	assert.Equal(t, 252, res.Plan.Sum())
}

func TestPlannerServiceAnalysis(t *testing.T) {
	svc := newTestPlanner(t)

	res, err := svc.Analysis(context.Background(), dto.AnalysisRequest{
		ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
		Subject:       "Matematika",
		ClassName:     "Kelas 3",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Report.TotalAvailableSlots)
	assert.Equal(t, 12, res.Report.TargetTotal)
	assert.Equal(t, dateutil.MustParse("2025-07-25"), res.Report.SemesterBreak)
	assert.Equal(t, res.Target.Weekly, res.Report.WeeklyTarget)
	assert.Empty(t, res.Conditions)
}

func TestPlannerServiceMonthCalendar(t *testing.T) {
	svc := newTestPlanner(t)

	cal, err := svc.MonthCalendar(context.Background(), dto.MonthCalendarRequest{
		ScheduleInput: dto.ScheduleInput{Days: senRabJum, Config: pts("v1")},
		Year:          2025,
		Month:         7,
	})
	require.NoError(t, err)
	require.Len(t, cal.Days, 31)

	assert.Equal(t, models.DayStatusOutsideYear, cal.Days[0].Status)
	assert.Equal(t, models.DayStatusEffective, cal.Days[13].Status)
	assert.Equal(t, models.DayStatusNotScheduled, cal.Days[14].Status)

	wed := cal.Days[22]
	assert.Equal(t, models.DayStatusNonEffective, wed.Status)
	require.NotNil(t, wed.Exception)
	assert.Equal(t, "Penilaian Tengah Semester", wed.Exception.Description)
}

func TestPlannerServiceCategoriesAndExceptions(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "v1", cats[0].DefaultVariant)
	require.Len(t, cats[0].Options, 2)
	require.NotNil(t, cats[0].Options[1].Start)
	assert.Equal(t, dateutil.MustParse("2025-07-28"), *cats[0].Options[1].Start)
	assert.Equal(t, dateutil.MustParse("2025-08-01"), *cats[0].Options[1].End)

	active, err := svc.ActiveExceptions(ctx, dto.ScheduleInput{Config: pts("v2")})
	require.NoError(t, err)
	require.Len(t, active.Exceptions, 2)
	assert.Equal(t, "Hari Anak Nasional", active.Exceptions[0].Description)
	assert.Equal(t, "v2", active.Exceptions[1].Variant)
}

func TestPlannerServiceResolveTarget(t *testing.T) {
	svc := newTestPlanner(t)
	ctx := context.Background()

	res, err := svc.ResolveTarget(ctx, dto.ResolveTargetRequest{Subject: "matematika", ClassName: "Kelas 4"})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Target.Hours)
	assert.Equal(t, "Matematika", res.Target.SubjectKey)
	assert.Equal(t, "CASE_INSENSITIVE", res.Target.Rule)

	res, err = svc.ResolveTarget(ctx, dto.ResolveTargetRequest{Subject: "Matematika", ClassName: "Kelas 6"})
	require.NoError(t, err)
	assert.True(t, res.Target.Assumed)
	assert.True(t, res.Conditions.Has(models.ConditionLookupMiss))
}

func TestPlannerServiceReferenceUnavailable(t *testing.T) {
	svc := NewPlannerService(NewReferenceService(&referenceLoaderStub{}, nil), nil, nil, nil, PlannerConfig{Year: testYear()})

	_, err := svc.EffectiveDates(context.Background(), dto.EffectiveDatesRequest{ScheduleInput: dto.ScheduleInput{Days: senRabJum}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}
