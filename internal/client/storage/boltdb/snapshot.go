package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

// SaveSnapshot атомарно заменяет сохраненный snapshot.
// Читатель никогда не видит полусмерженного состояния: запись идет одной
// bolt-транзакцией одним значением.
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshot).Put([]byte(keySnapshot), data)
	})
	if err != nil {
		return fmt.Errorf("snapshot transaction failed: %w", err)
	}

	return nil
}

// GetSnapshot возвращает сохраненный snapshot
func (s *Storage) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var snapshot *models.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshot).Get([]byte(keySnapshot))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}
		snapshot = &models.Snapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// SaveSyncState сохраняет состояние синхронизации
func (s *Storage) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSyncState).Put([]byte(keySyncState), data)
	})
	if err != nil {
		return fmt.Errorf("sync state transaction failed: %w", err)
	}

	return nil
}

// GetSyncState возвращает состояние синхронизации.
// При отсутствии возвращает нулевое состояние (первый запуск).
func (s *Storage) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	state := &models.SyncState{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSyncState).Get([]byte(keySyncState))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, state)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	return state, nil
}

// SaveConflicts сохраняет лог конфликтов целиком (он ограничен по размеру)
func (s *Storage) SaveConflicts(ctx context.Context, conflicts []models.Conflict) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(conflicts)
	if err != nil {
		return fmt.Errorf("failed to marshal conflicts: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).Put([]byte(keyConflicts), data)
	})
	if err != nil {
		return fmt.Errorf("conflicts transaction failed: %w", err)
	}

	return nil
}

// GetConflicts возвращает сохраненный лог конфликтов
func (s *Storage) GetConflicts(ctx context.Context) ([]models.Conflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflicts []models.Conflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get([]byte(keyConflicts))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &conflicts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get conflicts: %w", err)
	}

	return conflicts, nil
}

// SaveHealth сохраняет состояние здоровья синхронизации
func (s *Storage) SaveHealth(ctx context.Context, health *models.Health) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal health: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHealth).Put([]byte(keyHealth), data)
	})
	if err != nil {
		return fmt.Errorf("health transaction failed: %w", err)
	}

	return nil
}

// GetHealth возвращает состояние здоровья; при отсутствии — пустое
func (s *Storage) GetHealth(ctx context.Context) (*models.Health, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	health := &models.Health{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketHealth).Get([]byte(keyHealth))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, health)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get health: %w", err)
	}

	return health, nil
}
