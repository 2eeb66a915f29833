package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/orgsync/internal/client/storage/memory"
	syncclient "github.com/iudanet/orgsync/internal/client/sync"
	"github.com/iudanet/orgsync/internal/models"
)

type fakeSyncClient struct {
	results []syncclient.PushResult
	onPush  func() // вызывается пока push "в полете"
	pushes  int
	pulls   int
}

func (f *fakeSyncClient) Push(ctx context.Context, accessToken string) syncclient.PushResult {
	i := f.pushes
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.pushes++
	if f.onPush != nil {
		f.onPush()
	}
	return f.results[i]
}

func (f *fakeSyncClient) Pull(ctx context.Context, accessToken string) (*syncclient.PullResult, error) {
	f.pulls++
	return &syncclient.PullResult{Merged: true}, nil
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) AccessToken(ctx context.Context) (string, error) {
	return f.token, f.err
}

type fakeStore struct {
	snapshot *models.Snapshot
	applied  []*models.Snapshot
}

func (f *fakeStore) Snapshot() *models.Snapshot {
	return f.snapshot.Clone()
}

func (f *fakeStore) ApplyMerged(ctx context.Context, merged *models.Snapshot) error {
	f.applied = append(f.applied, merged.Clone())
	return nil
}

type fakeDrainer struct {
	calls int
}

func (f *fakeDrainer) Drain(ctx context.Context) error {
	f.calls++
	return nil
}

type env struct {
	scheduler *Scheduler
	client    *fakeSyncClient
	store     *fakeStore
	storage   *memory.Storage
	drainer   *fakeDrainer
}

func newEnv(t *testing.T, cfg Config, results ...syncclient.PushResult) *env {
	t.Helper()

	client := &fakeSyncClient{results: results}
	st := memory.New()
	snapshot := models.NewSnapshot()
	snapshot.Collections["tasks"] = models.Collection{
		{"id": "pre-merge", "title": "marker", "updatedAt": "2024-03-01T00:00:00Z"},
	}
	store := &fakeStore{snapshot: snapshot}
	drainer := &fakeDrainer{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	s := New(cfg, client, &fakeTokens{token: "token"}, store, st, drainer, logger)
	s.SetClock(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	return &env{scheduler: s, client: client, store: store, storage: st, drainer: drainer}
}

func TestAttempt_SuccessResetsCycle(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushOK, Revision: "r2", Sequence: 3})
	e.scheduler.MarkDirty()

	_, again := e.scheduler.attempt(context.Background())
	assert.False(t, again)

	status := e.scheduler.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.False(t, status.Dirty)
	assert.Equal(t, "r2", status.LastRevision)
	assert.Zero(t, status.Attempts)

	// Очередь дренируется после успешного цикла
	assert.Equal(t, 1, e.drainer.calls)

	saved, err := e.storage.GetSyncState(context.Background())
	require.NoError(t, err)
	assert.False(t, saved.Dirty)
	assert.Equal(t, "r2", saved.LastRevision)
	assert.Equal(t, int64(3), saved.Sequence)
}

func TestAttempt_MutationDuringPush_KeepsDirty(t *testing.T) {
	cfg := DefaultConfig()
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushOK, Revision: "r2", Sequence: 3})
	// Мутация приходит, когда push уже в полете
	e.client.onPush = func() { e.scheduler.MarkDirty() }
	e.scheduler.MarkDirty()

	delay, again := e.scheduler.attempt(context.Background())
	require.True(t, again)
	assert.Equal(t, cfg.Debounce, delay)

	// Успех зафиксирован, но dirty-период начинается заново
	status := e.scheduler.Status()
	assert.Equal(t, StateDirty, status.State)
	assert.True(t, status.Dirty)
	assert.Equal(t, "r2", status.LastRevision)

	saved, err := e.storage.GetSyncState(context.Background())
	require.NoError(t, err)
	assert.True(t, saved.Dirty)

	// Следующий цикл уходит в Idle: мутация не дублируется
	e.client.onPush = nil
	_, again = e.scheduler.attempt(context.Background())
	assert.False(t, again)
	assert.Equal(t, StateIdle, e.scheduler.Status().State)
	assert.Equal(t, 2, e.client.pushes)
}

func TestAttempt_NotDirty_NoPush(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushOK})

	_, again := e.scheduler.attempt(context.Background())
	assert.False(t, again)
	assert.Zero(t, e.client.pushes)
	assert.Equal(t, StateIdle, e.scheduler.Status().State)
}

func TestAttempt_NetworkErrorSchedulesBackoff(t *testing.T) {
	cfg := DefaultConfig()
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushNetworkError, Err: errors.New("timeout")})
	e.scheduler.MarkDirty()

	delay, again := e.scheduler.attempt(context.Background())
	require.True(t, again)

	// base 1s, попытка 1, jitter ±50%
	assert.GreaterOrEqual(t, delay, cfg.BackoffBase/2)
	assert.LessOrEqual(t, delay, cfg.BackoffCap)

	status := e.scheduler.Status()
	assert.Equal(t, StateRetrying, status.State)
	assert.Equal(t, 1, status.Attempts)
	assert.True(t, status.Dirty)
}

func TestAttempt_BackoffCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 20
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushNetworkError, Err: errors.New("timeout")})
	e.scheduler.MarkDirty()

	// После многих удвоений пауза упирается в потолок
	var delay time.Duration
	for i := 0; i < 10; i++ {
		var again bool
		delay, again = e.scheduler.attempt(context.Background())
		require.True(t, again)
	}
	assert.LessOrEqual(t, delay, cfg.BackoffCap)
}

func TestAttempt_RetryBudgetExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 2
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushNetworkError, Err: errors.New("timeout")})
	e.scheduler.MarkDirty()

	_, again := e.scheduler.attempt(context.Background())
	require.True(t, again)

	_, again = e.scheduler.attempt(context.Background())
	assert.False(t, again)

	// Изменения остаются локально, цикл сброшен
	status := e.scheduler.Status()
	assert.Equal(t, StateDirty, status.State)
	assert.True(t, status.Dirty)
	assert.Zero(t, status.Attempts)
}

func TestAttempt_ConflictExtendsBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 2
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushConflict, Err: errors.New("revision changed")},
		syncclient.PushResult{Status: syncclient.PushNetworkError, Err: errors.New("timeout")})
	e.scheduler.MarkDirty()

	_, again := e.scheduler.attempt(context.Background())
	require.True(t, again)

	// Обычный лимит в 2 попытки уже исчерпан, но конфликт расширил его
	for i := 0; i < cfg.MaxAttemptsAfterConflict-2; i++ {
		_, again = e.scheduler.attempt(context.Background())
		require.True(t, again, "attempt %d", i+2)
	}

	_, again = e.scheduler.attempt(context.Background())
	assert.False(t, again)
	assert.Equal(t, StateDirty, e.scheduler.Status().State)
}

func TestAttempt_ConflictTwice_RollsBack(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushConflict, Err: errors.New("revision changed")})
	e.scheduler.MarkDirty()

	_, again := e.scheduler.attempt(context.Background())
	require.True(t, again)
	assert.Empty(t, e.store.applied)

	_, again = e.scheduler.attempt(context.Background())
	assert.False(t, again)

	// Откат к снимку, сделанному до первого merge
	require.Len(t, e.store.applied, 1)
	tasks := e.store.applied[0].Collections["tasks"]
	require.Len(t, tasks, 1)
	assert.Equal(t, "pre-merge", tasks[0].ID())

	status := e.scheduler.Status()
	assert.Equal(t, StateDirty, status.State)
	assert.True(t, status.Dirty)
}

func TestAttempt_RateLimited(t *testing.T) {
	cfg := DefaultConfig()
	e := newEnv(t, cfg,
		syncclient.PushResult{Status: syncclient.PushRateLimited, Err: errors.New("slow down")})
	e.scheduler.MarkDirty()

	delay, again := e.scheduler.attempt(context.Background())
	require.True(t, again)
	assert.Equal(t, cfg.RateLimitCooldown, delay)

	status := e.scheduler.Status()
	assert.Equal(t, StateRateLimitCooldown, status.State)
	assert.False(t, status.RateLimitedUntil.IsZero())

	saved, err := e.storage.GetSyncState(context.Background())
	require.NoError(t, err)
	assert.True(t, saved.RateLimited)
}

func TestAttempt_FatalGivesUp(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushFatal, Err: errors.New("checksum mismatch")})
	e.scheduler.MarkDirty()

	_, again := e.scheduler.attempt(context.Background())
	assert.False(t, again)

	status := e.scheduler.Status()
	assert.Equal(t, StateDirty, status.State)
	assert.True(t, status.Dirty)
}

func TestAttempt_TokenFailure_StopsImmediately(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	e.scheduler.tokens = &fakeTokens{err: errors.New("refresh failed")}
	e.scheduler.MarkDirty()

	// Без действующих credentials retry бессмысленен: одна попытка,
	// изменения остаются локально до нового login
	_, again := e.scheduler.attempt(context.Background())
	assert.False(t, again)
	assert.Zero(t, e.client.pushes)

	status := e.scheduler.Status()
	assert.Equal(t, StateDirty, status.State)
	assert.True(t, status.Dirty)
	assert.Zero(t, status.Attempts)
}

func TestRestore_ResumesDirtyPeriod(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	require.NoError(t, e.storage.SaveSyncState(context.Background(), &models.SyncState{
		Dirty:        false,
		InProgress:   true, // push был прерван на полпути
		LastRevision: "r5",
	}))

	require.NoError(t, e.scheduler.Restore(context.Background()))

	status := e.scheduler.Status()
	assert.True(t, status.Dirty)
	assert.Equal(t, StateDirty, status.State)
	assert.Equal(t, "r5", status.LastRevision)
}

func TestRestore_ActiveCooldown(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	until := time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC) // позже фиксированных часов
	require.NoError(t, e.storage.SaveSyncState(context.Background(), &models.SyncState{
		Dirty:            true,
		RateLimited:      true,
		RateLimitedUntil: until,
	}))

	require.NoError(t, e.scheduler.Restore(context.Background()))

	status := e.scheduler.Status()
	assert.Equal(t, StateRateLimitCooldown, status.State)
	assert.Equal(t, until, status.RateLimitedUntil)
}

func TestMarkDirty_Transitions(t *testing.T) {
	e := newEnv(t, DefaultConfig())

	e.scheduler.MarkDirty()
	assert.Equal(t, StateDirty, e.scheduler.Status().State)

	saved, err := e.storage.GetSyncState(context.Background())
	require.NoError(t, err)
	assert.True(t, saved.Dirty)

	// Сигнал дебаунса доставлен
	select {
	case <-e.scheduler.dirtyCh:
	default:
		t.Fatal("expected debounce signal")
	}
}

func TestFlush_PushesPendingChanges(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushOK, Revision: "r9"})
	e.scheduler.MarkDirty()

	e.scheduler.Flush()

	assert.Equal(t, 1, e.client.pushes)
	assert.False(t, e.scheduler.Status().Dirty)
}

func TestFlush_NothingToDo(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	e.scheduler.Flush()
	assert.Zero(t, e.client.pushes)
}

func TestPeriodicPull_SkippedDuringCooldown(t *testing.T) {
	e := newEnv(t, DefaultConfig(),
		syncclient.PushResult{Status: syncclient.PushRateLimited, Err: errors.New("slow down")})
	e.scheduler.MarkDirty()
	_, _ = e.scheduler.attempt(context.Background())
	require.Equal(t, StateRateLimitCooldown, e.scheduler.Status().State)

	e.scheduler.periodicPull(context.Background())
	assert.Zero(t, e.client.pulls)
}

func TestPeriodicPull_RunsWhenIdle(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	e.scheduler.periodicPull(context.Background())
	assert.Equal(t, 1, e.client.pulls)
}
