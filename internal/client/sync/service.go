// Package sync реализует sync-клиент поверх remote blob store:
// pull с обязательной верификацией checksum и push по схеме
// merge-then-write (никогда blind overwrite). Исходы возвращаются явными
// result-типами, которые scheduler сопоставляет исчерпывающе; исключений
// как control flow здесь нет.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	httpClient "github.com/iudanet/orgsync/internal/client/api"
	"github.com/iudanet/orgsync/internal/codec"
	"github.com/iudanet/orgsync/internal/merge"
	"github.com/iudanet/orgsync/internal/models"
)

// ErrStructuralValidation remote snapshot не прошел shape-валидацию.
// Фатально для данного pull: merge блокируется, локальное состояние
// не трогается.
var ErrStructuralValidation = errors.New("snapshot failed structural validation")

// PushStatus исход push-попытки
type PushStatus string

const (
	PushOK           PushStatus = "ok"
	PushConflict     PushStatus = "conflict"      // ревизия изменилась, нужен re-pull+merge
	PushAuthExpired  PushStatus = "auth_expired"  // нужен refresh credentials
	PushRateLimited  PushStatus = "rate_limited"  // нужен cooldown
	PushNetworkError PushStatus = "network_error" // транзиентная ошибка, retry с backoff
	PushFatal        PushStatus = "fatal"         // поврежденные remote-данные, не retry
)

// PushResult результат push-попытки
type PushResult struct {
	Status   PushStatus
	Revision string // новая ревизия при Status == PushOK
	Sequence int64  // sequence записанного snapshot при Status == PushOK
	Err      error  // детали для диагностики, nil при PushOK
}

// PullResult результат pull-попытки
type PullResult struct {
	Snapshot *models.Snapshot // nil если на сервере еще нет документа
	Revision string
	NotFound bool
	Merged   bool // remote-изменения слиты в локальное состояние
}

//go:generate moq -out store_mock.go . StateStore

// StateStore узкий интерфейс локального состояния, нужный sync-клиенту
type StateStore interface {
	// Snapshot возвращает глубокую копию текущего состояния
	Snapshot() *models.Snapshot

	// ApplyMerged атомарно подменяет состояние результатом merge
	ApplyMerged(ctx context.Context, merged *models.Snapshot) error

	// ConflictLog лог для диагностических записей merge
	ConflictLog() *models.ConflictLog

	// SaveConflicts персистит лог конфликтов
	SaveConflicts(ctx context.Context) error
}

// HealthSink приемник событий здоровья синхронизации
type HealthSink interface {
	Record(ctx context.Context, kind models.HealthEventKind, status models.HealthEventStatus, latencyMs int64, details string)
}

// Service выполняет pull и push snapshot-документа
type Service struct {
	apiClient httpClient.ClientAPI
	store     StateStore
	health    HealthSink
	logger    *slog.Logger
	policies  map[string]merge.CollectionPolicy
	now       func() time.Time
}

// NewService создает sync-клиент
func NewService(apiClient httpClient.ClientAPI, store StateStore, health HealthSink, logger *slog.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		store:     store,
		health:    health,
		logger:    logger,
		policies:  merge.DefaultPolicies,
		now:       time.Now,
	}
}

// SetClock подменяет часы (тесты)
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Pull выполняет pull-only цикл: читает remote snapshot, валидирует и
// мержит в локальное состояние. Фатальные ошибки декодирования оставляют
// локальное состояние нетронутым и логируются в health.
func (s *Service) Pull(ctx context.Context, accessToken string) (*PullResult, error) {
	started := s.now()

	download, err := s.apiClient.GetBlob(ctx, accessToken)
	if err != nil {
		if errors.Is(err, httpClient.ErrBlobNotFound) {
			return &PullResult{NotFound: true}, nil
		}
		s.recordLoad(ctx, started, models.HealthStatusFailure, err.Error())
		return nil, fmt.Errorf("pull failed: %w", err)
	}

	remote, err := s.decodeRemote(download.Payload)
	if err != nil {
		s.recordLoad(ctx, started, models.HealthStatusFailure, err.Error())
		return nil, err
	}

	local := s.store.Snapshot()
	merged := merge.Snapshots(local, remote, s.policies, s.store.ConflictLog(), s.now())
	if err := s.store.ApplyMerged(ctx, merged); err != nil {
		s.recordLoad(ctx, started, models.HealthStatusFailure, err.Error())
		return nil, fmt.Errorf("failed to apply merged snapshot: %w", err)
	}
	if err := s.store.SaveConflicts(ctx); err != nil {
		s.logger.Warn("failed to persist conflict log", "error", err)
	}

	s.recordLoad(ctx, started, models.HealthStatusSuccess, "")
	s.logger.Info("pull completed",
		"revision", download.Revision,
		"remote_sequence", remote.Sequence)

	return &PullResult{
		Snapshot: remote,
		Revision: download.Revision,
		Merged:   true,
	}, nil
}

// Push выполняет merge-then-write:
//  1. GET текущего remote состояния (ревизия + данные для merge);
//  2. merge remote в локальный snapshot, тентативное применение локально;
//  3. encode + conditional PUT по ревизии из шага 1;
//  4. на успех — фиксация; иначе типизированный исход для scheduler.
//
// Тентативное локальное применение до записи — осознанное исключение из
// правила "локальное состояние меняется только на подтвержденном успехе";
// rollback при двойном сбое делает scheduler по своему pre-merge снимку.
func (s *Service) Push(ctx context.Context, accessToken string) PushResult {
	started := s.now()

	var revision string
	toWrite := s.store.Snapshot()

	download, err := s.apiClient.GetBlob(ctx, accessToken)
	switch {
	case err == nil:
		remote, decodeErr := s.decodeRemote(download.Payload)
		if decodeErr != nil {
			return s.failPush(ctx, started, PushFatal, decodeErr)
		}
		revision = download.Revision

		merged := merge.Snapshots(toWrite, remote, s.policies, s.store.ConflictLog(), s.now())
		if applyErr := s.store.ApplyMerged(ctx, merged); applyErr != nil {
			return s.failPush(ctx, started, PushNetworkError,
				fmt.Errorf("failed to apply merged snapshot: %w", applyErr))
		}
		toWrite = merged
	case errors.Is(err, httpClient.ErrBlobNotFound):
		// Первый push: документа еще нет, If-Match не передается
		revision = ""
	case errors.Is(err, httpClient.ErrAuthExpired):
		return s.failPush(ctx, started, PushAuthExpired, err)
	case errors.Is(err, httpClient.ErrRateLimited):
		return s.failPush(ctx, started, PushRateLimited, err)
	default:
		return s.failPush(ctx, started, PushNetworkError, err)
	}

	toWrite.Touch(s.now())
	payload, checksum, err := codec.Encode(toWrite)
	if err != nil {
		return s.failPush(ctx, started, PushFatal, fmt.Errorf("encode failed: %w", err))
	}

	putResp, err := s.apiClient.PutBlob(ctx, accessToken, payload, revision)
	switch {
	case err == nil:
		// Обрабатывается ниже
	case errors.Is(err, httpClient.ErrConflict):
		return s.failPush(ctx, started, PushConflict, err)
	case errors.Is(err, httpClient.ErrAuthExpired):
		return s.failPush(ctx, started, PushAuthExpired, err)
	case errors.Is(err, httpClient.ErrRateLimited):
		return s.failPush(ctx, started, PushRateLimited, err)
	default:
		return s.failPush(ctx, started, PushNetworkError, err)
	}

	// Запись подтверждена. Пока PUT был в полете, store мог принять
	// новые мутации: подтвержденный snapshot мержится в текущее
	// состояние, а не заменяет его
	committed := merge.Snapshots(s.store.Snapshot(), toWrite, s.policies, s.store.ConflictLog(), s.now())
	if err := s.store.ApplyMerged(ctx, committed); err != nil {
		s.logger.Error("failed to persist confirmed snapshot", "error", err)
	}
	if err := s.store.SaveConflicts(ctx); err != nil {
		s.logger.Warn("failed to persist conflict log", "error", err)
	}

	s.recordSave(ctx, started, models.HealthStatusSuccess, "")
	s.logger.Info("push completed",
		"revision", putResp.Revision,
		"sequence", toWrite.Sequence,
		"checksum", checksum[:8])

	return PushResult{
		Status:   PushOK,
		Revision: putResp.Revision,
		Sequence: toWrite.Sequence,
	}
}

// decodeRemote декодирует и shape-валидирует remote payload
func (s *Service) decodeRemote(payload []byte) (*models.Snapshot, error) {
	remote, err := codec.Decode(payload)
	if err != nil {
		return nil, err
	}
	if problems := codec.ValidateShape(remote); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStructuralValidation, strings.Join(problems, "; "))
	}
	return remote, nil
}

func (s *Service) failPush(ctx context.Context, started time.Time, status PushStatus, err error) PushResult {
	s.recordSave(ctx, started, models.HealthStatusFailure, err.Error())
	s.logger.Warn("push failed", "status", string(status), "error", err)
	return PushResult{Status: status, Err: err}
}

func (s *Service) recordSave(ctx context.Context, started time.Time, status models.HealthEventStatus, details string) {
	s.health.Record(ctx, models.HealthEventSave, status, s.now().Sub(started).Milliseconds(), details)
}

func (s *Service) recordLoad(ctx context.Context, started time.Time, status models.HealthEventStatus, details string) {
	s.health.Record(ctx, models.HealthEventLoad, status, s.now().Sub(started).Milliseconds(), details)
}

// IsFatalDecodeError сообщает, относится ли ошибка pull к фатальной
// таксономии (ParseError / ChecksumMismatch / SchemaTooNew / структурная
// валидация). Такие ошибки не ретраятся.
func IsFatalDecodeError(err error) bool {
	return errors.Is(err, codec.ErrParse) ||
		errors.Is(err, codec.ErrChecksumMismatch) ||
		errors.Is(err, codec.ErrSchemaTooNew) ||
		errors.Is(err, ErrStructuralValidation)
}
