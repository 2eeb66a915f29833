package models

import "time"

// HealthEventKind вид операции синхронизации
type HealthEventKind string

const (
	HealthEventSave HealthEventKind = "save" // push snapshot на сервер
	HealthEventLoad HealthEventKind = "load" // pull snapshot с сервера
)

// HealthEventStatus исход операции
type HealthEventStatus string

const (
	HealthStatusSuccess HealthEventStatus = "success"
	HealthStatusFailure HealthEventStatus = "failure"
)

// HealthEvent одна запись в логе здоровья синхронизации
type HealthEvent struct {
	Kind      HealthEventKind   `json:"kind"`
	Status    HealthEventStatus `json:"status"`
	LatencyMs int64             `json:"latency_ms"`
	Details   string            `json:"details,omitempty"`
	At        time.Time         `json:"at"`
}

// HealthEventLimit размер кольцевого буфера событий
const HealthEventLimit = 20

// Health агрегированное состояние здоровья синхронизации:
// ограниченный лог событий (most-recent-first) + скользящие счетчики.
// Персистентно, чтобы история переживала перезапуск.
type Health struct {
	Events          []HealthEvent `json:"events"`
	TotalSaves      int64         `json:"total_saves"`
	SuccessfulSaves int64         `json:"successful_saves"`
	FailedSaves     int64         `json:"failed_saves"`
	TotalLoads      int64         `json:"total_loads"`
	SuccessfulLoads int64         `json:"successful_loads"`
	FailedLoads     int64         `json:"failed_loads"`

	// AvgLatencyMs скользящее среднее только по успешным событиям
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
