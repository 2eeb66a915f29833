// Package queue реализует персистентную очередь отложенных side-effect
// операций. Доставка at-least-once: обработчики обязаны быть
// идемпотентными. Дренаж запускается дискретными триггерами (успешный
// sync, логин, ручная команда), фонового поллинга нет.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

// ErrNoHandler для типа операции не зарегистрирован обработчик
var ErrNoHandler = errors.New("no handler registered for operation type")

// Handler выполняет одну отложенную операцию
type Handler func(ctx context.Context, payload []byte) error

// Service управляет очередью отложенных операций
type Service struct {
	storage  storage.QueueStorage
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
	handlers map[string]Handler
	draining bool
}

// NewService создает очередь поверх хранилища
func NewService(st storage.QueueStorage, logger *slog.Logger) *Service {
	return &Service{
		storage:  st,
		logger:   logger,
		now:      time.Now,
		handlers: make(map[string]Handler),
	}
}

// SetClock подменяет часы (тесты)
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Register регистрирует обработчик для типа операции.
// Повторная регистрация типа заменяет обработчик.
func (s *Service) Register(opType string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[opType] = h
}

// Enqueue ставит операцию в очередь; элемент персистентен сразу же
func (s *Service) Enqueue(ctx context.Context, opType string, payload []byte) (*models.QueueItem, error) {
	item := &models.QueueItem{
		ID:        uuid.New().String(),
		Type:      opType,
		Payload:   payload,
		CreatedAt: s.now(),
	}
	if err := s.storage.AppendQueueItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to enqueue %s operation: %w", opType, err)
	}

	s.logger.Debug("operation queued", "id", item.ID, "type", opType)
	return item, nil
}

// Items возвращает элементы очереди в FIFO-порядке
func (s *Service) Items(ctx context.Context) ([]*models.QueueItem, error) {
	return s.storage.ListQueueItems(ctx)
}

// Clear удаляет все элементы (явное действие пользователя)
func (s *Service) Clear(ctx context.Context) error {
	return s.storage.ClearQueue(ctx)
}

// Drain прогоняет очередь в FIFO-порядке. Успешный элемент удаляется.
// Сбой элемента блокирует только последующие операции того же типа:
// внутри типа порядок обязателен, независимые типы продолжают
// доставляться. Возвращается первая встреченная ошибка.
// Повторный вход во время дренажа — no-op.
func (s *Service) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true
	handlers := make(map[string]Handler, len(s.handlers))
	for opType, h := range s.handlers {
		handlers[opType] = h
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()

	items, err := s.storage.ListQueueItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	s.logger.Info("draining operation queue", "items", len(items))

	var firstErr error
	blocked := make(map[string]bool)
	for _, item := range items {
		if blocked[item.Type] {
			continue
		}

		handler, ok := handlers[item.Type]
		if !ok {
			err := fmt.Errorf("%w: %s", ErrNoHandler, item.Type)
			s.recordFailure(ctx, item, err)
			blocked[item.Type] = true
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := handler(ctx, item.Payload); err != nil {
			s.recordFailure(ctx, item, err)
			blocked[item.Type] = true
			if firstErr == nil {
				firstErr = fmt.Errorf("queue item %s (%s) failed: %w", item.ID, item.Type, err)
			}
			continue
		}

		if err := s.storage.RemoveQueueItem(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to remove drained item %s: %w", item.ID, err)
		}
		s.logger.Debug("queue item delivered", "id", item.ID, "type", item.Type)
	}

	return firstErr
}

// recordFailure фиксирует последнюю ошибку элемента; сам элемент остается
// в очереди до следующего дренажа
func (s *Service) recordFailure(ctx context.Context, item *models.QueueItem, cause error) {
	if err := s.storage.UpdateQueueItemError(ctx, item.ID, cause.Error()); err != nil {
		s.logger.Warn("failed to record queue item error",
			"id", item.ID, "error", err)
	}
}
