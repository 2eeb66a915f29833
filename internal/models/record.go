package models

import (
	"encoding/json"
	"time"
)

// Зарезервированные поля записи. Ядро синхронизации schema-agnostic:
// доменное содержимое коллекций произвольно, контракт только на эти поля.
const (
	FieldID        = "id"
	FieldUpdatedAt = "updatedAt"
	FieldCreatedAt = "createdAt"
)

// Record представляет одну запись коллекции: произвольные доменные поля
// плюс узкий контракт зарезервированных полей (id, updatedAt/createdAt).
// Открытая map вместо закрытой структуры — оригинальный документ duck-types
// на произвольных полях, и мы сохраняем расширяемость без reflection.
type Record map[string]any

// ID возвращает стабильный идентификатор записи.
// Пустая строка означает некорректную запись (id обязателен).
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Timestamp возвращает самую позднюю из timestamp-полей записи.
// Поля проверяются в переданном порядке, некорректные значения пропускаются.
// ok == false, если ни одно поле не распарсилось.
func (r Record) Timestamp(fields []string) (time.Time, bool) {
	var newest time.Time
	found := false

	for _, field := range fields {
		raw, ok := r[field].(string)
		if !ok || raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		if !found || ts.After(newest) {
			newest = ts
			found = true
		}
	}

	return newest, found
}

// Clone создает глубокую копию записи
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = cloneValue(v)
	}
	return clone
}

// Equal сравнивает записи побайтно через канонический JSON.
// encoding/json сериализует map-ключи в отсортированном порядке,
// поэтому сравнение детерминировано.
func (r Record) Equal(other Record) bool {
	a, errA := json.Marshal(r)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// cloneValue рекурсивно копирует значение JSON-совместимого типа
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = cloneValue(item)
		}
		return s
	default:
		// Скалярные JSON типы (string, float64, bool, nil) immutable
		return val
	}
}

// Collection представляет именованный упорядоченный список записей.
// Инвариант: id уникален внутри коллекции.
type Collection []Record

// Clone создает глубокую копию коллекции
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	clone := make(Collection, len(c))
	for i, r := range c {
		clone[i] = r.Clone()
	}
	return clone
}

// Index строит индекс id -> позиция в коллекции
func (c Collection) Index() map[string]int {
	idx := make(map[string]int, len(c))
	for i, r := range c {
		idx[r.ID()] = i
	}
	return idx
}
