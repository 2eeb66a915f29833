package models

import "time"

// SyncState представляет персистентное состояние синхронизации.
// Живет весь жизненный цикл процесса и переживает перезапуск:
// прерванный push возобновляется по сохраненному dirty-флагу.
// Явный объект, а не module-level globals: несколько sync-целей
// (в первую очередь тесты) работают независимо.
type SyncState struct {
	Dirty                 bool      `json:"dirty"`                   // есть незасинхронизированные локальные изменения
	Sequence              int64     `json:"sequence"`                // sequence последнего подтвержденного snapshot
	RetryCount            int       `json:"retry_count"`             // номер текущей retry-попытки
	RateLimited           bool      `json:"rate_limited"`            // действует ли rate-limit cooldown
	RateLimitedUntil      time.Time `json:"rate_limited_until"`      // конец cooldown-окна
	InProgress            bool      `json:"in_progress"`             // push сейчас в полете
	PendingRetryRequested bool      `json:"pending_retry_requested"` // мутация пришла во время push
	LastRevision          string    `json:"last_revision"`           // последний известный маркер ревизии remote
	LastSyncAt            time.Time `json:"last_sync_at"`            // время последнего успешного push
}

// QueueItem представляет отложенную side-effect операцию, которую нужно
// доставить при восстановлении связи/авторизации. At-least-once: обработчик
// обязан быть идемпотентным.
type QueueItem struct {
	ID        string    `json:"id"`         // UUID элемента
	Type      string    `json:"type"`       // тип операции (определяет обработчик)
	Payload   []byte    `json:"payload"`    // сериализованные параметры операции
	CreatedAt time.Time `json:"created_at"` // время постановки в очередь
	LastError string    `json:"last_error"` // последняя ошибка replay (пусто если не было)
}
