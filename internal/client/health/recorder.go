// Package health реализует лог здоровья синхронизации: ограниченный буфер
// последних событий плюс скользящие счетчики. Пишут сюда только sync-клиент
// и scheduler; снаружи лог read-only.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/models"
)

// Recorder накапливает события синхронизации и персистит их после каждой
// записи, чтобы история переживала перезапуск
type Recorder struct {
	storage storage.HealthStorage
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.Mutex
	state   models.Health
}

// NewRecorder создает recorder поверх хранилища
func NewRecorder(st storage.HealthStorage, logger *slog.Logger) *Recorder {
	return &Recorder{
		storage: st,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock подменяет часы (тесты)
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Load восстанавливает сохраненную историю
func (r *Recorder) Load(ctx context.Context) error {
	state, err := r.storage.GetHealth(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.state = *state
	r.mu.Unlock()
	return nil
}

// Record добавляет событие в начало буфера и обновляет счетчики.
// Средняя латентность считается только по успешным событиям.
func (r *Recorder) Record(ctx context.Context, kind models.HealthEventKind, status models.HealthEventStatus, latencyMs int64, details string) {
	r.mu.Lock()

	event := models.HealthEvent{
		Kind:      kind,
		Status:    status,
		LatencyMs: latencyMs,
		Details:   details,
		At:        r.now(),
	}
	r.state.Events = append([]models.HealthEvent{event}, r.state.Events...)
	if len(r.state.Events) > models.HealthEventLimit {
		r.state.Events = r.state.Events[:models.HealthEventLimit]
	}

	success := status == models.HealthStatusSuccess
	switch kind {
	case models.HealthEventSave:
		r.state.TotalSaves++
		if success {
			r.state.SuccessfulSaves++
		} else {
			r.state.FailedSaves++
		}
	case models.HealthEventLoad:
		r.state.TotalLoads++
		if success {
			r.state.SuccessfulLoads++
		} else {
			r.state.FailedLoads++
		}
	}

	if success {
		n := float64(r.state.SuccessfulSaves + r.state.SuccessfulLoads)
		r.state.AvgLatencyMs = (r.state.AvgLatencyMs*(n-1) + float64(latencyMs)) / n
	}

	snapshot := r.state
	r.mu.Unlock()

	if err := r.storage.SaveHealth(ctx, &snapshot); err != nil {
		// История здоровья — диагностика; ошибка персиста не фатальна
		r.logger.Warn("failed to persist sync health", "error", err)
	}
}

// State возвращает копию текущего состояния
func (r *Recorder) State() models.Health {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.state
	out.Events = make([]models.HealthEvent, len(r.state.Events))
	copy(out.Events, r.state.Events)
	return out
}
