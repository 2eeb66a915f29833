// Package scheduler управляет жизненным циклом синхронизации: дебаунс
// локальных мутаций, retry с экспоненциальным backoff, cooldown при
// rate-limit, периодический pull и финальный flush при завершении.
// Сетевые вызовы делает sync-клиент; здесь только политика "когда".
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/orgsync/internal/client/storage"
	syncclient "github.com/iudanet/orgsync/internal/client/sync"
	"github.com/iudanet/orgsync/internal/models"
)

// State состояние планировщика
type State string

const (
	StateIdle              State = "idle"                // нет несинхронизированных изменений
	StateDirty             State = "dirty"               // есть изменения, идет дебаунс-окно
	StateSyncing           State = "syncing"             // push в полете
	StateRetrying          State = "retrying"            // ожидание backoff-паузы
	StateRateLimitCooldown State = "rate_limit_cooldown" // сервер попросил замедлиться
)

// Config параметры планировщика
type Config struct {
	// Debounce окно слияния серии локальных мутаций в один push
	Debounce time.Duration

	// BackoffBase база экспоненциального backoff (base * 2^attempt)
	BackoffBase time.Duration

	// BackoffCap потолок одной backoff-паузы
	BackoffCap time.Duration

	// MaxAttempts попыток в обычном retry-цикле
	MaxAttempts int

	// MaxAttemptsAfterConflict расширенный лимит после конфликта ревизии:
	// конфликт означает активность другого устройства, сдаваться рано нельзя
	MaxAttemptsAfterConflict int

	// RateLimitCooldown пауза после ответа rate-limit без Retry-After
	RateLimitCooldown time.Duration

	// PeriodicPull интервал фонового pull для подбора чужих изменений
	PeriodicPull time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Debounce:                 2 * time.Second,
		BackoffBase:              time.Second,
		BackoffCap:               30 * time.Second,
		MaxAttempts:              4,
		MaxAttemptsAfterConflict: 6,
		RateLimitCooldown:        60 * time.Second,
		PeriodicPull:             15 * time.Minute,
	}
}

// SyncClient выполняет сетевые циклы pull и push
type SyncClient interface {
	Push(ctx context.Context, accessToken string) syncclient.PushResult
	Pull(ctx context.Context, accessToken string) (*syncclient.PullResult, error)
}

// TokenSource выдает действующий access token, при необходимости
// выполняя refresh
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// RollbackStore дает планировщику снимок состояния для отката при
// двойном сбое конфликтного цикла
type RollbackStore interface {
	Snapshot() *models.Snapshot
	ApplyMerged(ctx context.Context, merged *models.Snapshot) error
}

// Drainer дренирует очередь отложенных операций
type Drainer interface {
	Drain(ctx context.Context) error
}

// Scheduler управляет синхронизацией в фоне.
// Все push-попытки сериализованы: в полете не больше одной.
type Scheduler struct {
	cfg          Config
	client       SyncClient
	tokens       TokenSource
	store        RollbackStore
	stateStorage storage.SyncStateStorage
	drainer      Drainer
	logger       *slog.Logger
	now          func() time.Time

	mu               sync.Mutex
	state            State
	dirty            bool
	pendingRetry     bool // мутация пришла пока push был в полете
	attempts         int
	attemptLimit     int
	conflictStreak   int
	rollback         *models.Snapshot
	backoff          retry.Backoff
	rateLimitedUntil time.Time
	lastRevision     string
	lastSequence     int64
	lastSyncAt       time.Time
	inFlight         bool

	dirtyCh chan struct{}
	syncCh  chan struct{}
}

// New создает планировщик. drainer может быть nil.
func New(cfg Config, client SyncClient, tokens TokenSource, store RollbackStore,
	stateStorage storage.SyncStateStorage, drainer Drainer, logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		client:       client,
		tokens:       tokens,
		store:        store,
		stateStorage: stateStorage,
		drainer:      drainer,
		logger:       logger,
		now:          time.Now,
		state:        StateIdle,
		attemptLimit: cfg.MaxAttempts,
		dirtyCh:      make(chan struct{}, 1),
		syncCh:       make(chan struct{}, 1),
	}
}

// SetClock подменяет часы (тесты)
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Status снимок состояния планировщика для CLI
type Status struct {
	State            State
	Dirty            bool
	Attempts         int
	RateLimitedUntil time.Time
	LastRevision     string
	LastSyncAt       time.Time
}

// Status возвращает снимок текущего состояния
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:            s.state,
		Dirty:            s.dirty,
		Attempts:         s.attempts,
		RateLimitedUntil: s.rateLimitedUntil,
		LastRevision:     s.lastRevision,
		LastSyncAt:       s.lastSyncAt,
	}
}

// MarkDirty фиксирует локальную мутацию и перезапускает дебаунс-окно.
// Подключается к store.SetOnDirty.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	if s.state == StateIdle {
		s.state = StateDirty
	}
	if s.inFlight {
		// Мутация во время push: после завершения нужен еще один цикл
		s.pendingRetry = true
	}
	s.persistLocked(context.Background())
	s.mu.Unlock()

	select {
	case s.dirtyCh <- struct{}{}:
	default:
	}
}

// RequestSync просит немедленный цикл синхронизации, минуя дебаунс
func (s *Scheduler) RequestSync() {
	select {
	case s.syncCh <- struct{}{}:
	default:
	}
}

// Restore восстанавливает персистентное состояние после перезапуска
func (s *Scheduler) Restore(ctx context.Context) error {
	saved, err := s.stateStorage.GetSyncState(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = saved.Dirty || saved.InProgress || saved.PendingRetryRequested
	s.lastRevision = saved.LastRevision
	s.lastSequence = saved.Sequence
	s.lastSyncAt = saved.LastSyncAt
	if saved.RateLimited && saved.RateLimitedUntil.After(s.now()) {
		s.state = StateRateLimitCooldown
		s.rateLimitedUntil = saved.RateLimitedUntil
	} else if s.dirty {
		// Прерванный push возобновляется как обычный dirty-период
		s.state = StateDirty
	}

	return nil
}

// Run запускает цикл планировщика. Блокируется до отмены ctx;
// перед возвратом выполняет финальный flush несохраненных изменений.
func (s *Scheduler) Run(ctx context.Context) error {
	pullTicker := time.NewTicker(s.cfg.PeriodicPull)
	defer pullTicker.Stop()

	var debounce <-chan time.Time
	var retryC <-chan time.Time

	s.mu.Lock()
	if s.state == StateRateLimitCooldown {
		retryC = time.After(time.Until(s.rateLimitedUntil))
	} else if s.dirty {
		debounce = time.After(s.cfg.Debounce)
	}
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return nil

		case <-s.dirtyCh:
			// Каждая мутация перезапускает дебаунс-окно
			debounce = time.After(s.cfg.Debounce)

		case <-s.syncCh:
			debounce = nil
			retryC = s.cycle(ctx)

		case <-debounce:
			debounce = nil
			retryC = s.cycle(ctx)

		case <-retryC:
			retryC = s.cycle(ctx)

		case <-pullTicker.C:
			s.periodicPull(ctx)
		}
	}
}

// cycle выполняет одну push-попытку и возвращает канал следующей
// попытки, если нужен retry или cooldown
func (s *Scheduler) cycle(ctx context.Context) <-chan time.Time {
	delay, again := s.attempt(ctx)
	if !again {
		return nil
	}
	return time.After(delay)
}

// attempt выполняет одну push-попытку.
// Возвращает (пауза, true), если планировщику нужно повторить.
func (s *Scheduler) attempt(ctx context.Context) (time.Duration, bool) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return 0, false
	}
	if !s.dirty {
		s.state = StateIdle
		s.mu.Unlock()
		return 0, false
	}
	if s.rollback == nil {
		// Снимок до merge: точка отката при двойном сбое конфликта
		s.rollback = s.store.Snapshot()
	}
	s.inFlight = true
	s.state = StateSyncing
	s.persistLocked(ctx)
	s.mu.Unlock()

	token, tokenErr := s.tokens.AccessToken(ctx)
	var result syncclient.PushResult
	if tokenErr == nil {
		result = s.client.Push(ctx, token)
	}

	s.mu.Lock()
	s.inFlight = false
	var delay time.Duration
	var again bool
	if tokenErr != nil {
		// Refresh внутри TokenSource уже не помог: retry без нового
		// login бессмысленен, изменения ждут локально
		s.logger.Warn("sync paused until re-login, credentials unavailable", "error", tokenErr)
		s.pendingRetry = false
		s.giveUpLocked(ctx)
	} else {
		delay, again = s.applyResultLocked(ctx, result)
	}
	drain := tokenErr == nil && result.Status == syncclient.PushOK && s.drainer != nil
	s.mu.Unlock()

	if drain {
		if err := s.drainer.Drain(ctx); err != nil {
			s.logger.Warn("queue drain after sync failed", "error", err)
		}
	}

	return delay, again
}

// applyResultLocked переводит state machine по исходу push.
// Вызывается под mu.
func (s *Scheduler) applyResultLocked(ctx context.Context, result syncclient.PushResult) (time.Duration, bool) {
	// Мутация во время push при любом сбое сворачивается в dirty-флаг,
	// который сбои и так не сбрасывают
	pending := s.pendingRetry
	s.pendingRetry = false

	switch result.Status {
	case syncclient.PushOK:
		s.resetCycleLocked()
		s.lastRevision = result.Revision
		s.lastSequence = result.Sequence
		s.lastSyncAt = s.now()
		if pending {
			// Мутация успела прийти пока push был в полете: сразу новый
			// dirty-период и ровно один следующий цикл
			s.dirty = true
			s.state = StateDirty
			s.persistLocked(ctx)
			s.logger.Info("sync cycle completed, new changes pending",
				"revision", result.Revision)
			return s.cfg.Debounce, true
		}
		s.dirty = false
		s.state = StateIdle
		s.persistLocked(ctx)
		s.logger.Info("sync cycle completed", "revision", result.Revision)
		return 0, false

	case syncclient.PushConflict:
		s.conflictStreak++
		if s.conflictStreak >= 2 {
			// Двойной сбой конфликтного цикла: откат к снимку до merge,
			// чтобы не копить полусмерженное состояние
			if err := s.store.ApplyMerged(ctx, s.rollback); err != nil {
				s.logger.Error("conflict rollback failed", "error", err)
			}
			s.logger.Warn("conflict cycle failed twice, rolled back local merge")
			s.giveUpLocked(ctx)
			return 0, false
		}
		// Конфликт: другое устройство успело записать. Push сам повторит
		// pull+merge, но лимит попыток расширяется.
		s.attemptLimit = s.cfg.MaxAttemptsAfterConflict
		return s.scheduleRetryLocked(ctx)

	case syncclient.PushRateLimited:
		s.state = StateRateLimitCooldown
		s.rateLimitedUntil = s.now().Add(s.cfg.RateLimitCooldown)
		s.persistLocked(ctx)
		s.logger.Warn("rate limited, cooling down", "until", s.rateLimitedUntil)
		return s.cfg.RateLimitCooldown, true

	case syncclient.PushAuthExpired:
		// TokenSource уже пробовал refresh; повторная попытка имеет смысл
		// только в пределах обычного retry-лимита
		return s.scheduleRetryLocked(ctx)

	case syncclient.PushFatal:
		// Поврежденные remote-данные: retry не поможет, изменения
		// остаются локально до ручного вмешательства
		s.logger.Error("sync aborted, remote snapshot is unusable", "error", result.Err)
		s.giveUpLocked(ctx)
		return 0, false

	default: // PushNetworkError
		return s.scheduleRetryLocked(ctx)
	}
}

// scheduleRetryLocked инкрементирует счетчик попыток и выдает паузу
func (s *Scheduler) scheduleRetryLocked(ctx context.Context) (time.Duration, bool) {
	s.attempts++
	if s.attempts >= s.attemptLimit {
		s.logger.Warn("retry budget exhausted, deferring sync",
			"attempts", s.attempts)
		s.giveUpLocked(ctx)
		return 0, false
	}

	if s.backoff == nil {
		b := retry.NewExponential(s.cfg.BackoffBase)
		b = retry.WithJitterPercent(50, b)
		b = retry.WithCappedDuration(s.cfg.BackoffCap, b)
		s.backoff = b
	}
	delay, _ := s.backoff.Next()

	s.state = StateRetrying
	s.persistLocked(ctx)
	return delay, true
}

// giveUpLocked завершает retry-цикл, оставляя изменения локально.
// Dirty-флаг сохраняется: следующая мутация или периодический pull
// запустят новый цикл.
func (s *Scheduler) giveUpLocked(ctx context.Context) {
	s.resetCycleLocked()
	if s.dirty {
		s.state = StateDirty
	} else {
		s.state = StateIdle
	}
	s.persistLocked(ctx)
}

// resetCycleLocked сбрасывает счетчики retry-цикла
func (s *Scheduler) resetCycleLocked() {
	s.attempts = 0
	s.attemptLimit = s.cfg.MaxAttempts
	s.conflictStreak = 0
	s.rollback = nil
	s.backoff = nil
	s.rateLimitedUntil = time.Time{}
}

// periodicPull подбирает изменения других устройств в фоне
func (s *Scheduler) periodicPull(ctx context.Context) {
	s.mu.Lock()
	busy := s.inFlight || s.state == StateRateLimitCooldown
	s.mu.Unlock()
	if busy {
		return
	}

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("periodic pull skipped, no valid token", "error", err)
		return
	}

	if _, err := s.client.Pull(ctx, token); err != nil {
		s.logger.Warn("periodic pull failed", "error", err)
		return
	}

	s.mu.Lock()
	s.lastSyncAt = s.now()
	s.persistLocked(ctx)
	s.mu.Unlock()
}

// Flush синхронно выталкивает несохраненные изменения перед завершением.
// Одна попытка без retry: при сбое изменения остаются локально и
// доедут после рестарта по сохраненному dirty-флагу.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("flushing pending changes before shutdown")
	if _, again := s.attempt(ctx); again {
		s.logger.Warn("flush push did not succeed, changes remain local")
	}
}

// persistLocked сохраняет состояние синхронизации. Вызывается под mu.
func (s *Scheduler) persistLocked(ctx context.Context) {
	state := &models.SyncState{
		Dirty:                 s.dirty,
		Sequence:              s.lastSequence,
		RetryCount:            s.attempts,
		RateLimited:           s.state == StateRateLimitCooldown,
		RateLimitedUntil:      s.rateLimitedUntil,
		InProgress:            s.inFlight,
		PendingRetryRequested: s.pendingRetry,
		LastRevision:          s.lastRevision,
		LastSyncAt:            s.lastSyncAt,
	}
	if err := s.stateStorage.SaveSyncState(ctx, state); err != nil {
		s.logger.Warn("failed to persist sync state", "error", err)
	}
}
