package models

import "time"

// SchemaVersion текущая поддерживаемая версия схемы snapshot.
// Читатель обязан отказаться мержить snapshot с большей версией.
const SchemaVersion = 3

// Стандартные коллекции органайзера. Ядро синхронизации не интерпретирует
// их содержимое — список нужен только для shape-валидации и дефолтных политик.
var KnownCollections = []string{
	"tasks", "areas", "labels", "people", "notes", "triggers",
	"weights", "achievements",
}

// Snapshot представляет полное синхронизируемое состояние приложения:
// один версионированный JSON-документ с checksum.
type Snapshot struct {
	SchemaVersion int    `json:"schemaVersion"` // версия схемы (монотонно растет)
	Sequence      int64  `json:"sequence"`      // строго растет при каждой успешной записи
	UpdatedAt     string `json:"updatedAt"`     // время последней записи (RFC3339)
	Checksum      string `json:"checksum"`      // SHA-256 канонического JSON всех полей кроме checksum

	// Collections упорядоченные списки записей по имени коллекции
	Collections map[string]Collection `json:"collections"`

	// Tracking дневные записи (привычки/здоровье) по ключу даты YYYY-MM-DD.
	// Мержатся на уровне листовых полей, а не целыми записями.
	Tracking map[string]Record `json:"tracking"`

	// Tombstones реестры удалений: имя коллекции -> id -> deletedAt (RFC3339)
	Tombstones map[string]map[string]string `json:"tombstones"`
}

// NewSnapshot создает пустой snapshot текущей версии схемы
func NewSnapshot() *Snapshot {
	return &Snapshot{
		SchemaVersion: SchemaVersion,
		Collections:   make(map[string]Collection),
		Tracking:      make(map[string]Record),
		Tombstones:    make(map[string]map[string]string),
	}
}

// Clone создает глубокую копию snapshot.
// Используется для rollback-снимка перед оптимистичным merge.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	clone := &Snapshot{
		SchemaVersion: s.SchemaVersion,
		Sequence:      s.Sequence,
		UpdatedAt:     s.UpdatedAt,
		Checksum:      s.Checksum,
		Collections:   make(map[string]Collection, len(s.Collections)),
		Tracking:      make(map[string]Record, len(s.Tracking)),
		Tombstones:    make(map[string]map[string]string, len(s.Tombstones)),
	}

	for name, coll := range s.Collections {
		clone.Collections[name] = coll.Clone()
	}
	for date, rec := range s.Tracking {
		clone.Tracking[date] = rec.Clone()
	}
	for name, set := range s.Tombstones {
		entries := make(map[string]string, len(set))
		for id, deletedAt := range set {
			entries[id] = deletedAt
		}
		clone.Tombstones[name] = entries
	}

	return clone
}

// Touch обновляет служебные поля перед записью
func (s *Snapshot) Touch(now time.Time) {
	s.Sequence++
	s.UpdatedAt = now.UTC().Format(time.RFC3339)
}
