package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	snapshot := models.NewSnapshot()
	snapshot.Sequence = 4
	snapshot.Collections["tasks"] = models.Collection{
		{models.FieldID: "t1", "title": "Buy milk"},
	}
	snapshot.Tombstones["tasks"] = map[string]string{
		"t0": "2024-03-01T12:00:00Z",
	}
	require.NoError(t, s.SaveSnapshot(ctx, snapshot))

	got, err := s.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Sequence)
	require.Len(t, got.Collections["tasks"], 1)
	assert.Equal(t, "Buy milk", got.Collections["tasks"][0]["title"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got.Tombstones["tasks"]["t0"])
}

func TestSyncState_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	// Отсутствующий state возвращается нулевым, не ошибкой
	state, err := s.GetSyncState(ctx)
	require.NoError(t, err)
	assert.False(t, state.Dirty)

	state = &models.SyncState{
		Dirty:        true,
		Sequence:     9,
		RetryCount:   2,
		LastRevision: "rev-9",
	}
	require.NoError(t, s.SaveSyncState(ctx, state))

	got, err := s.GetSyncState(ctx)
	require.NoError(t, err)
	assert.True(t, got.Dirty)
	assert.Equal(t, int64(9), got.Sequence)
	assert.Equal(t, "rev-9", got.LastRevision)
}

func TestAuth_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	auth := &storage.AuthData{
		UserID:       "user-1",
		Username:     "someuser",
		AccessToken:  "jwt-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, s.SaveAuth(ctx, auth))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "someuser", got.Username)
	assert.Equal(t, "refresh-token", got.RefreshToken)

	require.NoError(t, s.DeleteAuth(ctx))
	_, err = s.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestQueue_FIFOAndErrors(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"q1", "q2", "q3"} {
		require.NoError(t, s.AppendQueueItem(ctx, &models.QueueItem{
			ID:        id,
			Type:      "reminder",
			Payload:   []byte(`{}`),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	items, err := s.ListQueueItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "q1", items[0].ID)
	assert.Equal(t, "q3", items[2].ID)

	require.NoError(t, s.UpdateQueueItemError(ctx, "q2", "boom"))
	items, err = s.ListQueueItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, "boom", items[1].LastError)

	require.NoError(t, s.RemoveQueueItem(ctx, "q1"))
	items, err = s.ListQueueItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "q2", items[0].ID)

	err = s.RemoveQueueItem(ctx, "q1")
	assert.ErrorIs(t, err, storage.ErrQueueItemNotFound)

	require.NoError(t, s.ClearQueue(ctx))
	items, err = s.ListQueueItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConflictsAndHealth_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	conflicts := []models.Conflict{{
		EntityKind: "tasks",
		ItemID:     "t1",
		Mode:       models.ConflictLocalWins,
		Reason:     "no timestamp fields",
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, s.SaveConflicts(ctx, conflicts))

	gotConflicts, err := s.GetConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, gotConflicts, 1)
	assert.Equal(t, models.ConflictLocalWins, gotConflicts[0].Mode)

	health := &models.Health{TotalSaves: 3, SuccessfulSaves: 2, FailedSaves: 1}
	require.NoError(t, s.SaveHealth(ctx, health))

	gotHealth, err := s.GetHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), gotHealth.TotalSaves)
}

func TestReopen_PersistsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)

	snapshot := models.NewSnapshot()
	snapshot.Sequence = 11
	require.NoError(t, s.SaveSnapshot(ctx, snapshot))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.Sequence)
}
