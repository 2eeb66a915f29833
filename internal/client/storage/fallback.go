package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iudanet/orgsync/internal/models"
)

// Fallback оборачивает персистентное хранилище и при исчерпании квоты диска
// деградирует в запасное (in-memory) вместо падения. Состояние на момент
// деградации переносится best-effort; degraded-флаг виден пользователю
// через status.
type Fallback struct {
	primary  ClientStorage
	fallback ClientStorage
	logger   *slog.Logger
	mu       sync.Mutex
	degraded bool
}

// NewFallback создает фасад над primary с запасным хранилищем
func NewFallback(primary, fallback ClientStorage, logger *slog.Logger) *Fallback {
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Degraded сообщает, работает ли хранилище в деградированном режиме
func (f *Fallback) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

// Close закрывает оба хранилища
func (f *Fallback) Close() error {
	errPrimary := f.primary.Close()
	errFallback := f.fallback.Close()
	if errPrimary != nil {
		return errPrimary
	}
	return errFallback
}

// active возвращает текущее хранилище
func (f *Fallback) active() ClientStorage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.degraded {
		return f.fallback
	}
	return f.primary
}

// degrade переключает в in-memory режим, перенеся доступное состояние.
// Вызывается при первой квота-ошибке записи.
func (f *Fallback) degrade(ctx context.Context, cause error) {
	f.mu.Lock()
	if f.degraded {
		f.mu.Unlock()
		return
	}
	f.degraded = true
	f.mu.Unlock()

	f.logger.Error("persistent storage quota exceeded, degrading to in-memory",
		"error", cause)

	// Best-effort перенос: чтение с primary еще работает при полном диске
	if snapshot, err := f.primary.GetSnapshot(ctx); err == nil {
		_ = f.fallback.SaveSnapshot(ctx, snapshot)
	}
	if state, err := f.primary.GetSyncState(ctx); err == nil {
		_ = f.fallback.SaveSyncState(ctx, state)
	}
	if conflicts, err := f.primary.GetConflicts(ctx); err == nil {
		_ = f.fallback.SaveConflicts(ctx, conflicts)
	}
	if health, err := f.primary.GetHealth(ctx); err == nil {
		_ = f.fallback.SaveHealth(ctx, health)
	}
	if auth, err := f.primary.GetAuth(ctx); err == nil {
		_ = f.fallback.SaveAuth(ctx, auth)
	}
	if items, err := f.primary.ListQueueItems(ctx); err == nil {
		for _, item := range items {
			_ = f.fallback.AppendQueueItem(ctx, item)
		}
	}
}

// write выполняет запись с деградацией при квота-ошибке
func (f *Fallback) write(ctx context.Context, op func(ClientStorage) error) error {
	err := op(f.active())
	if err == nil {
		return nil
	}
	if !IsQuotaExceeded(err) {
		return err
	}

	f.degrade(ctx, err)

	// Запись уходит в запасное хранилище; деградация видна через Degraded()
	return op(f.fallback)
}

func (f *Fallback) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	return f.write(ctx, func(s ClientStorage) error { return s.SaveSnapshot(ctx, snapshot) })
}

func (f *Fallback) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	return f.active().GetSnapshot(ctx)
}

func (f *Fallback) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	return f.write(ctx, func(s ClientStorage) error { return s.SaveSyncState(ctx, state) })
}

func (f *Fallback) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	return f.active().GetSyncState(ctx)
}

func (f *Fallback) SaveConflicts(ctx context.Context, conflicts []models.Conflict) error {
	return f.write(ctx, func(s ClientStorage) error { return s.SaveConflicts(ctx, conflicts) })
}

func (f *Fallback) GetConflicts(ctx context.Context) ([]models.Conflict, error) {
	return f.active().GetConflicts(ctx)
}

func (f *Fallback) SaveHealth(ctx context.Context, health *models.Health) error {
	return f.write(ctx, func(s ClientStorage) error { return s.SaveHealth(ctx, health) })
}

func (f *Fallback) GetHealth(ctx context.Context) (*models.Health, error) {
	return f.active().GetHealth(ctx)
}

func (f *Fallback) SaveAuth(ctx context.Context, auth *AuthData) error {
	return f.write(ctx, func(s ClientStorage) error { return s.SaveAuth(ctx, auth) })
}

func (f *Fallback) GetAuth(ctx context.Context) (*AuthData, error) {
	return f.active().GetAuth(ctx)
}

func (f *Fallback) DeleteAuth(ctx context.Context) error {
	return f.write(ctx, func(s ClientStorage) error { return s.DeleteAuth(ctx) })
}

func (f *Fallback) AppendQueueItem(ctx context.Context, item *models.QueueItem) error {
	return f.write(ctx, func(s ClientStorage) error { return s.AppendQueueItem(ctx, item) })
}

func (f *Fallback) ListQueueItems(ctx context.Context) ([]*models.QueueItem, error) {
	return f.active().ListQueueItems(ctx)
}

func (f *Fallback) RemoveQueueItem(ctx context.Context, id string) error {
	return f.write(ctx, func(s ClientStorage) error { return s.RemoveQueueItem(ctx, id) })
}

func (f *Fallback) UpdateQueueItemError(ctx context.Context, id, lastError string) error {
	return f.write(ctx, func(s ClientStorage) error { return s.UpdateQueueItemError(ctx, id, lastError) })
}

func (f *Fallback) ClearQueue(ctx context.Context) error {
	return f.write(ctx, func(s ClientStorage) error { return s.ClearQueue(ctx) })
}
