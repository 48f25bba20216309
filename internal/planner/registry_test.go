package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

func TestNewRegistryRejectsInvalidRecords(t *testing.T) {
	good := models.ExceptionCategory{ID: "c", Default: "v1", Options: []models.VariantOption{{ID: "v1"}}}
	inverted := models.CalendarException{
		Start: dateutil.New(2025, 8, 2), End: dateutil.New(2025, 8, 1),
		Description: "x", Kind: models.ExceptionKindHoliday,
	}

	tests := []struct {
		name       string
		exceptions []models.CalendarException
		categories []models.ExceptionCategory
	}{
		{name: "duplicate category", categories: []models.ExceptionCategory{good, good}},
		{name: "category without options", categories: []models.ExceptionCategory{{ID: "c", Default: "v1"}}},
		{name: "default not offered", categories: []models.ExceptionCategory{{ID: "c", Default: "v9", Options: []models.VariantOption{{ID: "v1"}}}}},
		{name: "end before start", exceptions: []models.CalendarException{inverted}},
		{
			name:       "undefined category",
			exceptions: []models.CalendarException{mustException(t, "2025-08-01", "2025-08-01", "x", models.ExceptionKindExam, "missing", "v1")},
		},
		{
			name:       "variant not offered",
			exceptions: []models.CalendarException{mustException(t, "2025-08-01", "2025-08-01", "x", models.ExceptionKindExam, "c", "v2")},
			categories: []models.ExceptionCategory{good},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.exceptions, tt.categories)
			assert.Error(t, err)
		})
	}
}

func TestIsActiveExceptionHonoursVariantAndOrder(t *testing.T) {
	reg := fixtureRegistry(t)

	exc, ok := reg.IsActiveException(dateutil.New(2025, 7, 23), variant("v1"))
	require.True(t, ok)
	assert.Equal(t, "Penilaian Tengah Semester", exc.Description, "first registered exception wins")

	exc, ok = reg.IsActiveException(dateutil.New(2025, 7, 23), variant("v2"))
	require.True(t, ok)
	assert.Equal(t, "Hari Anak Nasional", exc.Description)

	_, ok = reg.IsActiveException(dateutil.New(2025, 7, 28), variant("v1"))
	assert.False(t, ok)

	_, ok = reg.IsActiveException(dateutil.New(2025, 7, 28), variant("v2"))
	assert.True(t, ok)

	_, ok = reg.IsActiveException(dateutil.New(2025, 7, 21), models.ScheduleConfiguration{})
	assert.False(t, ok, "conditional exceptions need a selection")
}

func TestActiveExceptionsSortedByStart(t *testing.T) {
	reg := fixtureRegistry(t)

	active := reg.ActiveExceptions(variant("v2"))
	require.Len(t, active, 2)
	assert.Equal(t, "Hari Anak Nasional", active[0].Description)
	assert.Equal(t, dateutil.New(2025, 7, 28), active[1].Start)
}

func TestValidateConfiguration(t *testing.T) {
	reg := fixtureRegistry(t)

	err := reg.ValidateConfiguration(models.ScheduleConfiguration{})
	var gap *ConfigurationGapError
	require.True(t, errors.As(err, &gap))
	assert.Equal(t, []string{examCategory}, gap.Missing)

	err = reg.ValidateConfiguration(variant("v3"))
	var unknown *UnknownVariantError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "v3", unknown.Variant)

	err = reg.ValidateConfiguration(models.ScheduleConfiguration{examCategory: "v1", "other": "v1"})
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "other", unknown.Category)
	assert.Empty(t, unknown.Variant)

	assert.NoError(t, reg.ValidateConfiguration(reg.DefaultConfiguration()))
}

func TestWithDefaultsKeepsSelections(t *testing.T) {
	reg := fixtureRegistry(t)

	assert.Equal(t, "v1", reg.WithDefaults(nil)[examCategory])
	assert.Equal(t, "v2", reg.WithDefaults(variant("v2"))[examCategory])
	assert.Equal(t, "v1", reg.WithDefaults(variant(""))[examCategory])
}

func TestVariantRange(t *testing.T) {
	reg := fixtureRegistry(t)

	start, end, ok := reg.VariantRange(examCategory, "v2")
	require.True(t, ok)
	assert.Equal(t, dateutil.New(2025, 7, 28), start)
	assert.Equal(t, dateutil.New(2025, 8, 1), end)

	_, _, ok = reg.VariantRange(examCategory, "v9")
	assert.False(t, ok)
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := fixtureRegistry(t)

	list := reg.Exceptions()
	list[0].Description = "changed"
	assert.Equal(t, "Penilaian Tengah Semester", reg.Exceptions()[0].Description)
}
