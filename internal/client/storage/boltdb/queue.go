package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

// AppendQueueItem добавляет элемент очереди. Персистентно сразу же.
func (s *Storage) AppendQueueItem(ctx context.Context, item *models.QueueItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).Put([]byte(item.ID), data)
	})
	if err != nil {
		return fmt.Errorf("queue transaction failed: %w", err)
	}

	return nil
}

// ListQueueItems возвращает элементы в FIFO-порядке постановки
func (s *Storage) ListQueueItems(ctx context.Context) ([]*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var items []*models.QueueItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			var item models.QueueItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal queue item: %w", err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}

	// Ключ bucket'а — UUID, порядок обхода не хронологический
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

// RemoveQueueItem удаляет элемент после успешного replay
func (s *Storage) RemoveQueueItem(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket.Get([]byte(id)) == nil {
			return storage.ErrQueueItemNotFound
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return err
	}

	return nil
}

// UpdateQueueItemError записывает последнюю ошибку replay
func (s *Storage) UpdateQueueItemError(ctx context.Context, id, lastError string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrQueueItemNotFound
		}

		var item models.QueueItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("failed to unmarshal queue item: %w", err)
		}

		item.LastError = lastError

		updated, err := json.Marshal(&item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}
		return bucket.Put([]byte(id), updated)
	})
	if err != nil {
		return err
	}

	return nil
}

// ClearQueue удаляет все элементы очереди
func (s *Storage) ClearQueue(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueue); err != nil {
			return fmt.Errorf("failed to delete queue bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketQueue); err != nil {
			return fmt.Errorf("failed to recreate queue bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear queue transaction failed: %w", err)
	}

	return nil
}
