package health

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/orgsync/internal/client/storage/memory"
	"github.com/iudanet/orgsync/internal/models"
)

func newTestRecorder(t *testing.T) (*Recorder, *memory.Storage) {
	t.Helper()
	st := memory.New()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	r := NewRecorder(st, logger)
	r.SetClock(func() time.Time {
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	return r, st
}

func TestRecord_CountersAndAverage(t *testing.T) {
	r, _ := newTestRecorder(t)
	ctx := context.Background()

	r.Record(ctx, models.HealthEventSave, models.HealthStatusSuccess, 100, "")
	r.Record(ctx, models.HealthEventSave, models.HealthStatusSuccess, 300, "")
	r.Record(ctx, models.HealthEventSave, models.HealthStatusFailure, 50, "network error")
	r.Record(ctx, models.HealthEventLoad, models.HealthStatusSuccess, 200, "")

	state := r.State()
	assert.Equal(t, int64(3), state.TotalSaves)
	assert.Equal(t, int64(2), state.SuccessfulSaves)
	assert.Equal(t, int64(1), state.FailedSaves)
	assert.Equal(t, int64(1), state.SuccessfulLoads)

	// Среднее только по успешным: (100+300+200)/3
	assert.InDelta(t, 200.0, state.AvgLatencyMs, 0.001)
}

func TestRecord_RingBufferMostRecentFirst(t *testing.T) {
	r, _ := newTestRecorder(t)
	ctx := context.Background()

	for i := 0; i < models.HealthEventLimit+5; i++ {
		r.Record(ctx, models.HealthEventSave, models.HealthStatusSuccess, int64(i), "")
	}

	state := r.State()
	require.Len(t, state.Events, models.HealthEventLimit)
	// Последнее событие первым
	assert.Equal(t, int64(models.HealthEventLimit+4), state.Events[0].LatencyMs)
}

func TestRecord_PersistedAfterEveryEvent(t *testing.T) {
	r, st := newTestRecorder(t)
	ctx := context.Background()

	r.Record(ctx, models.HealthEventLoad, models.HealthStatusFailure, 10, "checksum mismatch")

	saved, err := st.GetHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.FailedLoads)
	require.Len(t, saved.Events, 1)
	assert.Equal(t, "checksum mismatch", saved.Events[0].Details)
}

func TestLoad_RestoresHistory(t *testing.T) {
	r, st := newTestRecorder(t)
	ctx := context.Background()
	r.Record(ctx, models.HealthEventSave, models.HealthStatusSuccess, 42, "")

	fresh := NewRecorder(st, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	require.NoError(t, fresh.Load(ctx))

	assert.Equal(t, int64(1), fresh.State().TotalSaves)
}
