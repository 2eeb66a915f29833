package store

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

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Service, *memory.Storage) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	st := memory.New()
	svc := NewService(st, logger)
	svc.SetClock(func() time.Time { return testNow })
	require.NoError(t, svc.Load(context.Background()))
	return svc, st
}

func TestAddRecord_AssignsIDAndTimestamps(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := svc.AddRecord(ctx, "tasks", models.Record{"title": "Buy milk"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID())
	assert.Equal(t, testNow.Format(time.RFC3339), rec[models.FieldCreatedAt])
	assert.Equal(t, testNow.Format(time.RFC3339), rec[models.FieldUpdatedAt])

	records := svc.ListRecords("tasks")
	require.Len(t, records, 1)
	assert.Equal(t, "Buy milk", records[0]["title"])
}

func TestAddRecord_DuplicateID(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, "tasks", models.Record{models.FieldID: "t1", "title": "First"})
	require.NoError(t, err)

	_, err = svc.AddRecord(ctx, "tasks", models.Record{models.FieldID: "t1", "title": "Second"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestUpdateRecord(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := svc.AddRecord(ctx, "tasks", models.Record{"title": "Old title", "area": "home"})
	require.NoError(t, err)

	updated, err := svc.UpdateRecord(ctx, "tasks", models.Record{
		models.FieldID: rec.ID(),
		"title":        "New title",
	})
	require.NoError(t, err)

	// Незатронутые поля сохраняются
	assert.Equal(t, "New title", updated["title"])
	assert.Equal(t, "home", updated["area"])

	_, err = svc.UpdateRecord(ctx, "tasks", models.Record{models.FieldID: "missing"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecord_WritesTombstone(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := svc.AddRecord(ctx, "tasks", models.Record{"title": "Doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecord(ctx, "tasks", rec.ID()))

	assert.Empty(t, svc.ListRecords("tasks"))

	snapshot := svc.Snapshot()
	require.Contains(t, snapshot.Tombstones, "tasks")
	_, ok := snapshot.Tombstones["tasks"][rec.ID()]
	assert.True(t, ok, "tombstone should exist for deleted record")

	err = svc.DeleteRecord(ctx, "tasks", rec.ID())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSetTracking(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, svc.SetTracking(ctx, "2024-03-01", "weight", 71.5))
	require.NoError(t, svc.SetTracking(ctx, "2024-03-01", "sleep_hours", 8))

	snapshot := svc.Snapshot()
	day := snapshot.Tracking["2024-03-01"]
	require.NotNil(t, day)
	assert.Equal(t, 71.5, day["weight"])
	assert.Equal(t, 8, day["sleep_hours"])
}

func TestLoad_RestoresPersistedState(t *testing.T) {
	svc, st := newTestStore(t)
	ctx := context.Background()

	rec, err := svc.AddRecord(ctx, "notes", models.Record{"text": "remember this"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRecord(ctx, "notes", rec.ID()))

	// Второй экземпляр поверх того же хранилища видит то же состояние
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	second := NewService(st, logger)
	second.SetClock(func() time.Time { return testNow })
	require.NoError(t, second.Load(ctx))

	snapshot := second.Snapshot()
	_, ok := snapshot.Tombstones["notes"][rec.ID()]
	assert.True(t, ok, "tombstone should survive reload")
}

func TestApplyMerged_ReplacesStateAtomically(t *testing.T) {
	svc, st := newTestStore(t)
	ctx := context.Background()

	_, err := svc.AddRecord(ctx, "tasks", models.Record{models.FieldID: "t1", "title": "Local"})
	require.NoError(t, err)

	merged := models.NewSnapshot()
	merged.Sequence = 9
	merged.Collections["tasks"] = models.Collection{
		{models.FieldID: "t2", "title": "Merged"},
	}

	require.NoError(t, svc.ApplyMerged(ctx, merged))

	records := svc.ListRecords("tasks")
	require.Len(t, records, 1)
	assert.Equal(t, "t2", records[0].ID())

	// Персист произошел
	persisted, err := st.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), persisted.Sequence)
}

func TestMarkDirty_CalledOnMutations(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	var dirtyCount int
	svc.SetOnDirty(func() { dirtyCount++ })

	rec, err := svc.AddRecord(ctx, "tasks", models.Record{"title": "x"})
	require.NoError(t, err)
	_, err = svc.UpdateRecord(ctx, "tasks", models.Record{models.FieldID: rec.ID(), "title": "y"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRecord(ctx, "tasks", rec.ID()))
	require.NoError(t, svc.SetTracking(ctx, "2024-03-01", "mood", "good"))

	assert.Equal(t, 4, dirtyCount)

	// ApplyMerged не трогает dirty: этим управляет scheduler
	require.NoError(t, svc.ApplyMerged(ctx, models.NewSnapshot()))
	assert.Equal(t, 4, dirtyCount)
}

func TestConflictLog_RoundTrip(t *testing.T) {
	svc, _ := newTestStore(t)
	ctx := context.Background()

	svc.ConflictLog().Append(models.Conflict{
		EntityKind: "record",
		ItemID:     "t1",
		Mode:       models.ConflictLocalWins,
		Reason:     "local edit newer",
		CreatedAt:  testNow,
	})
	require.NoError(t, svc.SaveConflicts(ctx))

	conflicts := svc.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "t1", conflicts[0].ItemID)

	require.NoError(t, svc.ClearConflicts(ctx))
	assert.Empty(t, svc.Conflicts())
}
