// Package storage определяет контракты локального персистентного хранилища
// клиента. Ядро обязано переживать отказ персистентности (исчерпанная
// квота диска) деградацией в память, а не падением — см. Fallback.
package storage

import (
	"context"

	"github.com/iudanet/orgsync/internal/models"
)

//go:generate moq -out storage_mock.go . ClientStorage

// AuthData представляет сохраненные аутентификационные данные клиента
type AuthData struct {
	UserID       string `json:"user_id"`       // UUID пользователя
	Username     string `json:"username"`      // username
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // refresh token
	ExpiresAt    int64  `json:"expires_at"`    // unix-время истечения access token
}

// SnapshotStorage хранит локальную копию snapshot-документа
type SnapshotStorage interface {
	// SaveSnapshot атомарно заменяет сохраненный snapshot
	SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error

	// GetSnapshot возвращает сохраненный snapshot
	// Возвращает ErrSnapshotNotFound при первом запуске
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// SyncStateStorage хранит персистентное состояние синхронизации.
// Dirty-флаг обязан переживать перезапуск: прерванный push возобновляется.
type SyncStateStorage interface {
	SaveSyncState(ctx context.Context, state *models.SyncState) error

	// GetSyncState возвращает состояние; при отсутствии — нулевое состояние
	GetSyncState(ctx context.Context) (*models.SyncState, error)
}

// ConflictStorage хранит диагностический лог конфликтов
type ConflictStorage interface {
	SaveConflicts(ctx context.Context, conflicts []models.Conflict) error
	GetConflicts(ctx context.Context) ([]models.Conflict, error)
}

// QueueStorage хранит очередь отложенных side-effect операций
type QueueStorage interface {
	// AppendQueueItem добавляет элемент; персистентно сразу же
	AppendQueueItem(ctx context.Context, item *models.QueueItem) error

	// ListQueueItems возвращает элементы в FIFO-порядке постановки
	ListQueueItems(ctx context.Context) ([]*models.QueueItem, error)

	// RemoveQueueItem удаляет элемент после успешного replay
	RemoveQueueItem(ctx context.Context, id string) error

	// UpdateQueueItemError записывает последнюю ошибку replay
	UpdateQueueItemError(ctx context.Context, id, lastError string) error

	// ClearQueue удаляет все элементы (явное действие пользователя)
	ClearQueue(ctx context.Context) error
}

// HealthStorage хранит лог здоровья синхронизации
type HealthStorage interface {
	SaveHealth(ctx context.Context, health *models.Health) error

	// GetHealth возвращает состояние; при отсутствии — пустое
	GetHealth(ctx context.Context) (*models.Health, error)
}

// AuthStorage хранит аутентификационные данные
type AuthStorage interface {
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth возвращает ErrAuthNotFound если пользователь не залогинен
	GetAuth(ctx context.Context) (*AuthData, error)

	DeleteAuth(ctx context.Context) error
}

// ClientStorage агрегирует все хранилища клиента.
// BoltDB-реализация и in-memory fallback реализуют его целиком.
type ClientStorage interface {
	SnapshotStorage
	SyncStateStorage
	ConflictStorage
	QueueStorage
	HealthStorage
	AuthStorage

	Close() error
}
