// Package tombstone реализует реестры удалений: append-only map
// id -> время удаления на каждую коллекцию. Tombstone не дает устаревшей
// удаленной записи воскреснуть при merge со stale remote snapshot.
package tombstone

import (
	"time"
)

// RetentionWindow горизонт хранения tombstone. После prune запись старше
// окна больше не подавляет воскрешение — осознанный trade-off в обмен на
// ограниченный размер реестра.
const RetentionWindow = 180 * 24 * time.Hour

// Set реестр удалений одной коллекции: id -> deletedAt (RFC3339)
type Set = map[string]string

// Ledger реестры удалений по всем коллекциям.
// Часы инжектируются для детерминированных тестов.
type Ledger struct {
	sets map[string]Set
	now  func() time.Time
}

// NewLedger создает пустой ledger на системных часах
func NewLedger() *Ledger {
	return NewLedgerWithClock(time.Now)
}

// NewLedgerWithClock создает ledger с инжектированными часами
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{
		sets: make(map[string]Set),
		now:  now,
	}
}

// Restore заменяет содержимое ledger сохраненными реестрами.
// Вход не копируется глубоко вызывающим — копируем сами.
func (l *Ledger) Restore(sets map[string]Set) {
	l.sets = make(map[string]Set, len(sets))
	for name, set := range sets {
		entries := make(Set, len(set))
		for id, deletedAt := range set {
			entries[id] = deletedAt
		}
		l.sets[name] = entries
	}
}

// RecordDeletion фиксирует удаление id в коллекции. Идемпотентна:
// повторный вызов просто переписывает deletedAt текущим временем.
func (l *Ledger) RecordDeletion(collection, id string) {
	set, ok := l.sets[collection]
	if !ok {
		set = make(Set)
		l.sets[collection] = set
	}
	set[id] = l.now().UTC().Format(time.RFC3339)
}

// IsDeleted сообщает, есть ли действующий tombstone для id.
// Некорректный timestamp трактуется как отсутствие tombstone: fail open
// в сторону сохранения данных, никогда — в сторону тихого удаления.
func (l *Ledger) IsDeleted(collection, id string) bool {
	_, ok := l.DeletedAt(collection, id)
	return ok
}

// DeletedAt возвращает время удаления id, если tombstone действителен
func (l *Ledger) DeletedAt(collection, id string) (time.Time, bool) {
	set, ok := l.sets[collection]
	if !ok {
		return time.Time{}, false
	}
	raw, ok := set[id]
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}

// Sets возвращает глубокую копию всех реестров для сериализации в snapshot
func (l *Ledger) Sets() map[string]Set {
	out := make(map[string]Set, len(l.sets))
	for name, set := range l.sets {
		entries := make(Set, len(set))
		for id, deletedAt := range set {
			entries[id] = deletedAt
		}
		out[name] = entries
	}
	return out
}

// Merge объединяет два набора реестров: union ключей с обеих сторон,
// при совпадении id выигрывает более поздний deletedAt.
// Чистая функция, входы не мутируются.
func Merge(local, remote map[string]Set) map[string]Set {
	merged := make(map[string]Set)

	for name, set := range local {
		entries := make(Set, len(set))
		for id, deletedAt := range set {
			entries[id] = deletedAt
		}
		merged[name] = entries
	}

	for name, set := range remote {
		entries, ok := merged[name]
		if !ok {
			entries = make(Set, len(set))
			merged[name] = entries
		}
		for id, remoteAt := range set {
			localAt, exists := entries[id]
			if !exists || laterTimestamp(remoteAt, localAt) {
				entries[id] = remoteAt
			}
		}
	}

	return merged
}

// Prune отбрасывает записи старше retention-окна, а также записи
// с нераспарсиваемым или нулевым timestamp. Чистая функция.
func Prune(sets map[string]Set, retention time.Duration, now time.Time) map[string]Set {
	pruned := make(map[string]Set)

	for name, set := range sets {
		entries := make(Set)
		for id, raw := range set {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil || ts.IsZero() {
				continue
			}
			if now.Sub(ts) > retention {
				continue
			}
			entries[id] = raw
		}
		if len(entries) > 0 {
			pruned[name] = entries
		}
	}

	return pruned
}

// laterTimestamp сообщает, является ли a строго более поздним чем b.
// Нераспарсиваемый кандидат никогда не выигрывает.
func laterTimestamp(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	if errA != nil {
		return false
	}
	tb, errB := time.Parse(time.RFC3339, b)
	if errB != nil {
		return true
	}
	return ta.After(tb)
}
