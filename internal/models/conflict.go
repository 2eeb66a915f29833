package models

import "time"

// ConflictMode способ разрешения конфликта при merge
type ConflictMode string

const (
	// ConflictLocalWins локальная запись оставлена: нет детерминированного
	// упорядочивания (timestamp-поля не настроены или отсутствуют)
	ConflictLocalWins ConflictMode = "local_wins"

	// ConflictLocalWinsTie локальная запись оставлена при равных timestamps
	// и расходящихся payload
	ConflictLocalWinsTie ConflictMode = "local_wins_tie"
)

// Conflict представляет запись о tie-break или недетерминированном решении
// merge. Чисто диагностическая, никогда не авторитетна.
type Conflict struct {
	EntityKind string       `json:"entity_kind"` // имя коллекции
	ItemID     string       `json:"item_id"`     // id записи
	Mode       ConflictMode `json:"mode"`        // способ разрешения
	Reason     string       `json:"reason"`      // человекочитаемая причина
	CreatedAt  time.Time    `json:"created_at"`  // момент решения
}

// DefaultConflictLogLimit размер кольцевого буфера конфликтов по умолчанию
const DefaultConflictLogLimit = 50

// ConflictLog ограниченный лог конфликтов, most-recent-first.
// Ядро только добавляет и обрезает по количеству; очистка — действие
// пользователя через UI/CLI.
type ConflictLog struct {
	items []Conflict
	limit int
}

// NewConflictLog создает лог с заданным лимитом записей
func NewConflictLog(limit int) *ConflictLog {
	if limit <= 0 {
		limit = DefaultConflictLogLimit
	}
	return &ConflictLog{limit: limit}
}

// Append добавляет конфликт в начало лога, отбрасывая самые старые записи
func (l *ConflictLog) Append(c Conflict) {
	l.items = append([]Conflict{c}, l.items...)
	if len(l.items) > l.limit {
		l.items = l.items[:l.limit]
	}
}

// Items возвращает копию содержимого лога, most-recent-first
func (l *ConflictLog) Items() []Conflict {
	out := make([]Conflict, len(l.items))
	copy(out, l.items)
	return out
}

// Len возвращает количество записей в логе
func (l *ConflictLog) Len() int {
	return len(l.items)
}

// Clear удаляет все записи
func (l *ConflictLog) Clear() {
	l.items = nil
}

// Restore заменяет содержимое лога сохраненными записями
func (l *ConflictLog) Restore(items []Conflict) {
	if len(items) > l.limit {
		items = items[:l.limit]
	}
	l.items = make([]Conflict, len(items))
	copy(l.items, items)
}
