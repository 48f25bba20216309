package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/atp-planner-api/internal/models"
	appErrors "github.com/noah-isme/atp-planner-api/pkg/errors"
)

func TestReferenceServiceNotLoaded(t *testing.T) {
	svc := NewReferenceService(&referenceLoaderStub{data: testReferenceData()}, nil)

	assert.False(t, svc.Ready())
	_, err := svc.Snapshot()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestReferenceServiceReload(t *testing.T) {
	svc := newTestReference(t)
	assert.True(t, svc.Ready())

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "test", snap.Data.Version)
	assert.Len(t, snap.Registry.Exceptions(), 3)

	subjects, err := svc.Subjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"Matematika", "Bahasa Indonesia"}, subjects)

	subjects[0] = "changed"
	again, _ := svc.Subjects()
	assert.Equal(t, "Matematika", again[0])

	phases, err := svc.Phases()
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, []string{"Kelas 3", "Kelas 4"}, phases[0].Classes)

	standards, err := svc.Standards()
	require.NoError(t, err)
	assert.Equal(t, []string{"Matematika", "Bahasa Indonesia"}, standards.Subjects())
}

func TestReferenceServiceLoadFailure(t *testing.T) {
	svc := NewReferenceService(&referenceLoaderStub{err: errors.New("connection refused")}, nil)

	err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
	assert.False(t, svc.Ready())
}

func TestReferenceServiceKeepsSnapshotOnInvalidData(t *testing.T) {
	loader := &referenceLoaderStub{data: testReferenceData()}
	svc := NewReferenceService(loader, nil)
	require.NoError(t, svc.Reload(context.Background()))

	broken := testReferenceData()
	broken.Version = "broken"
	broken.Exceptions = append(broken.Exceptions, models.CalendarException{
		Start:       broken.Exceptions[0].End,
		End:         broken.Exceptions[0].Start,
		Description: "reversed",
		Kind:        models.ExceptionKindHoliday,
	})
	loader.data = broken

	err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferenceData.Code, appErrors.FromError(err).Code)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "test", snap.Data.Version)
	assert.Equal(t, 2, loader.calls)
}
