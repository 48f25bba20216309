package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/models"
	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/pkg/dateutil"
)

func TestBuiltinReferenceDataIsValid(t *testing.T) {
	data, err := NewStaticReferenceRepository().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StaticReferenceVersion, data.Version)

	registry, err := planner.NewRegistry(data.Exceptions, data.Categories)
	require.NoError(t, err)
	require.NoError(t, registry.ValidateConfiguration(registry.DefaultConfiguration()))

	res, ok := planner.ResolveTarget(data.Standards, "Matematika", "Kelas 3")
	require.True(t, ok)
	assert.Equal(t, 180, res.Target)

	for _, subject := range data.Subjects {
		_, _, ok := planner.ResolveSubject(data.Standards, subject)
		assert.True(t, ok, subject)
	}
	for _, phase := range data.Phases {
		assert.Len(t, phase.Classes, 2, phase.ID)
	}
}

func TestBuiltinReferenceDataIsolated(t *testing.T) {
	first := BuiltinReferenceData()
	first.Exceptions[0].Description = "changed"
	second := BuiltinReferenceData()
	assert.NotEqual(t, "changed", second.Exceptions[0].Description)
}

func TestReferenceYAMLRoundTrip(t *testing.T) {
	data := BuiltinReferenceData()
	raw, err := EncodeReferenceYAML(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "version: "+StaticReferenceVersion)

	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	loaded, err := NewReferenceFileRepository(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data.Version, loaded.Version)
	assert.Equal(t, data.Exceptions, loaded.Exceptions)
	assert.Equal(t, data.Categories, loaded.Categories)
	assert.Equal(t, data.Standards, loaded.Standards)
	assert.Equal(t, data.Phases, loaded.Phases)
}

func TestDecodeReferenceYAML(t *testing.T) {
	raw := []byte(`
version: school-1
exceptions:
  - start: "2025-08-17"
    end: "2025-08-17"
    description: HUT RI
    kind: holiday
  - start: "2025-09-22"
    end: "2025-09-27"
    description: PTS
    kind: Exam
    category: pts
    variant: v2
categories:
  - id: pts
    label: PTS
    default: v1
    options:
      - id: v1
        label: Minggu 11
      - id: v2
        label: Minggu 12
`)
	data, err := DecodeReferenceYAML(raw)
	require.NoError(t, err)
	require.Len(t, data.Exceptions, 2)
	assert.Equal(t, models.ExceptionKindHoliday, data.Exceptions[0].Kind)
	assert.Equal(t, models.ExceptionKindExam, data.Exceptions[1].Kind)
	assert.Equal(t, dateutil.MustParse("2025-09-27"), data.Exceptions[1].End)
	assert.Equal(t, "v1", data.Categories[0].Default)

	_, err = DecodeReferenceYAML([]byte("exceptions:\n  - start: \"2025-08-17\"\n    end: \"2025-08-17\"\n    kind: party\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exception #1")
}

func TestReferenceFileRepositoryMissingFile(t *testing.T) {
	_, err := NewReferenceFileRepository(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read reference file")
}
