// Package memory реализует in-memory хранилище клиента. Используется как
// fallback при исчерпанной квоте диска (degraded persistence) и в тестах.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

// Storage represents in-memory client storage
type Storage struct {
	mu        sync.RWMutex
	snapshot  *models.Snapshot
	syncState *models.SyncState
	conflicts []models.Conflict
	health    *models.Health
	auth      *storage.AuthData
	queue     map[string]*models.QueueItem
	closed    bool
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		queue: make(map[string]*models.QueueItem),
	}
}

// Close marks storage as closed
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Storage) checkOpen() error {
	if s.closed {
		return storage.ErrStorageClosed
	}
	return nil
}

// SaveSnapshot атомарно заменяет snapshot
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.snapshot = snapshot.Clone()
	return nil
}

// GetSnapshot возвращает сохраненный snapshot
func (s *Storage) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.snapshot == nil {
		return nil, storage.ErrSnapshotNotFound
	}
	return s.snapshot.Clone(), nil
}

// SaveSyncState сохраняет состояние синхронизации
func (s *Storage) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	copied := *state
	s.syncState = &copied
	return nil
}

// GetSyncState возвращает состояние; при отсутствии — нулевое
func (s *Storage) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.syncState == nil {
		return &models.SyncState{}, nil
	}
	copied := *s.syncState
	return &copied, nil
}

// SaveConflicts сохраняет лог конфликтов
func (s *Storage) SaveConflicts(ctx context.Context, conflicts []models.Conflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.conflicts = make([]models.Conflict, len(conflicts))
	copy(s.conflicts, conflicts)
	return nil
}

// GetConflicts возвращает лог конфликтов
func (s *Storage) GetConflicts(ctx context.Context) ([]models.Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]models.Conflict, len(s.conflicts))
	copy(out, s.conflicts)
	return out, nil
}

// SaveHealth сохраняет состояние здоровья
func (s *Storage) SaveHealth(ctx context.Context, health *models.Health) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	copied := *health
	copied.Events = make([]models.HealthEvent, len(health.Events))
	copy(copied.Events, health.Events)
	s.health = &copied
	return nil
}

// GetHealth возвращает состояние здоровья; при отсутствии — пустое
func (s *Storage) GetHealth(ctx context.Context) (*models.Health, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.health == nil {
		return &models.Health{}, nil
	}
	copied := *s.health
	copied.Events = make([]models.HealthEvent, len(s.health.Events))
	copy(copied.Events, s.health.Events)
	return &copied, nil
}

// SaveAuth сохраняет аутентификационные данные
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	copied := *auth
	s.auth = &copied
	return nil
}

// GetAuth возвращает аутентификационные данные
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.auth == nil {
		return nil, storage.ErrAuthNotFound
	}
	copied := *s.auth
	return &copied, nil
}

// DeleteAuth удаляет аутентификационные данные
func (s *Storage) DeleteAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.auth = nil
	return nil
}

// AppendQueueItem добавляет элемент очереди
func (s *Storage) AppendQueueItem(ctx context.Context, item *models.QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	copied := *item
	s.queue[item.ID] = &copied
	return nil
}

// ListQueueItems возвращает элементы в FIFO-порядке
func (s *Storage) ListQueueItems(ctx context.Context) ([]*models.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	items := make([]*models.QueueItem, 0, len(s.queue))
	for _, item := range s.queue {
		copied := *item
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// RemoveQueueItem удаляет элемент очереди
func (s *Storage) RemoveQueueItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, ok := s.queue[id]; !ok {
		return storage.ErrQueueItemNotFound
	}
	delete(s.queue, id)
	return nil
}

// UpdateQueueItemError записывает последнюю ошибку replay
func (s *Storage) UpdateQueueItemError(ctx context.Context, id, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	item, ok := s.queue[id]
	if !ok {
		return storage.ErrQueueItemNotFound
	}
	item.LastError = lastError
	return nil
}

// ClearQueue удаляет все элементы очереди
func (s *Storage) ClearQueue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.queue = make(map[string]*models.QueueItem)
	return nil
}
