// Package store реализует локальное состояние органайзера: snapshot в памяти
// плюс персист в клиентское хранилище. Единственный общий мутируемый ресурс
// ядра; merge никогда не пишет сюда напрямую — готовый snapshot
// подменяется атомарно через ApplyMerged, и читатель не видит
// полусмерженного состояния.
package store

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
	"github.com/iudanet/orgsync/internal/tombstone"
)

// Ошибки локального состояния
var (
	// ErrRecordNotFound запись с таким id отсутствует в коллекции
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateID запись с таким id уже есть в коллекции
	ErrDuplicateID = errors.New("duplicate record id")
)

// Service управляет локальным состоянием и его персистом
type Service struct {
	storage   storage.ClientStorage
	logger    *slog.Logger
	now       func() time.Time
	onDirty   func()
	mu        sync.RWMutex
	snapshot  *models.Snapshot
	ledger    *tombstone.Ledger
	conflicts *models.ConflictLog
}

// NewService создает state store поверх клиентского хранилища
func NewService(st storage.ClientStorage, logger *slog.Logger) *Service {
	return &Service{
		storage:   st,
		logger:    logger,
		now:       time.Now,
		snapshot:  models.NewSnapshot(),
		ledger:    tombstone.NewLedger(),
		conflicts: models.NewConflictLog(models.DefaultConflictLogLimit),
	}
}

// SetClock подменяет часы (тесты)
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.ledger = tombstone.NewLedgerWithClock(now)
	s.ledger.Restore(s.snapshot.Tombstones)
}

// SetOnDirty регистрирует callback, вызываемый после каждой локальной
// мутации (подключается scheduler.MarkDirty)
func (s *Service) SetOnDirty(fn func()) {
	s.onDirty = fn
}

// Load читает сохраненное состояние из хранилища.
// Отсутствие snapshot — первый запуск, начинаем с пустого.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.storage.GetSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			snapshot = models.NewSnapshot()
		} else {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
	}
	s.snapshot = snapshot
	s.ledger = tombstone.NewLedgerWithClock(s.now)
	s.ledger.Restore(snapshot.Tombstones)

	conflicts, err := s.storage.GetConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load conflicts: %w", err)
	}
	s.conflicts.Restore(conflicts)

	return nil
}

// AddRecord добавляет запись в коллекцию. Пустой id заполняется UUID,
// createdAt/updatedAt проставляются текущим временем.
func (s *Service) AddRecord(ctx context.Context, collection string, rec models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec = rec.Clone()
	if rec.ID() == "" {
		rec[models.FieldID] = uuid.New().String()
	}

	coll := s.snapshot.Collections[collection]
	if _, exists := coll.Index()[rec.ID()]; exists {
		return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateID, rec.ID(), collection)
	}

	now := s.now().UTC().Format(time.RFC3339)
	if _, ok := rec[models.FieldCreatedAt]; !ok {
		rec[models.FieldCreatedAt] = now
	}
	rec[models.FieldUpdatedAt] = now

	s.snapshot.Collections[collection] = append(coll, rec)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.markDirty()

	return rec.Clone(), nil
}

// UpdateRecord заменяет поля существующей записи, обновляя updatedAt
func (s *Service) UpdateRecord(ctx context.Context, collection string, rec models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRecordNotFound)
	}

	coll := s.snapshot.Collections[collection]
	pos, exists := coll.Index()[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s in %s", ErrRecordNotFound, id, collection)
	}

	updated := coll[pos].Clone()
	for field, value := range rec {
		updated[field] = value
	}
	updated[models.FieldUpdatedAt] = s.now().UTC().Format(time.RFC3339)
	coll[pos] = updated

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.markDirty()

	return updated.Clone(), nil
}

// DeleteRecord удаляет запись и фиксирует tombstone, чтобы stale remote
// копия не воскресила ее при merge
func (s *Service) DeleteRecord(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.snapshot.Collections[collection]
	pos, exists := coll.Index()[id]
	if !exists {
		return fmt.Errorf("%w: %s in %s", ErrRecordNotFound, id, collection)
	}

	s.snapshot.Collections[collection] = append(coll[:pos:pos], coll[pos+1:]...)
	s.ledger.RecordDeletion(collection, id)
	s.snapshot.Tombstones = s.ledger.Sets()

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.markDirty()

	return nil
}

// ListRecords возвращает копию коллекции
func (s *Service) ListRecords(collection string) models.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Collections[collection].Clone()
}

// SetTracking проставляет листовое поле дневной записи трекинга
func (s *Service) SetTracking(ctx context.Context, date, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.snapshot.Tracking[date]
	if !ok {
		rec = models.Record{}
		s.snapshot.Tracking[date] = rec
	}
	rec[field] = value

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.markDirty()

	return nil
}

// Snapshot возвращает глубокую копию текущего состояния
func (s *Service) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// ApplyMerged атомарно подменяет состояние результатом merge и персистит.
// Dirty-флагом управляет вызывающий (scheduler), не store.
func (s *Service) ApplyMerged(ctx context.Context, merged *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = merged.Clone()
	s.ledger = tombstone.NewLedgerWithClock(s.now)
	s.ledger.Restore(s.snapshot.Tombstones)

	return s.persist(ctx)
}

// ConflictLog возвращает лог конфликтов для заполнения merge-движком
func (s *Service) ConflictLog() *models.ConflictLog {
	return s.conflicts
}

// Conflicts возвращает записи лога, most-recent-first
func (s *Service) Conflicts() []models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conflicts.Items()
}

// ClearConflicts очищает лог (действие пользователя)
func (s *Service) ClearConflicts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts.Clear()
	return s.storage.SaveConflicts(ctx, nil)
}

// SaveConflicts персистит текущий лог конфликтов
func (s *Service) SaveConflicts(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage.SaveConflicts(ctx, s.conflicts.Items())
}

// persist сохраняет snapshot; вызывается под mu
func (s *Service) persist(ctx context.Context) error {
	if err := s.storage.SaveSnapshot(ctx, s.snapshot); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

func (s *Service) markDirty() {
	if s.onDirty != nil {
		s.onDirty()
	}
}
