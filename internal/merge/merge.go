// Package merge реализует чистую реконсиляцию локального и удаленного
// snapshot: newest-wins по настроенным timestamp-полям, безусловный
// приоритет tombstone над любыми правками и sparse-merge листовых полей
// для журнала трекинга. Единственный side effect — добавление
// диагностических записей в ConflictLog; входы никогда не мутируются.
package merge

import (
	"time"

	"github.com/iudanet/orgsync/internal/models"
	"github.com/iudanet/orgsync/internal/tombstone"
)

// CollectionPolicy задает политику merge для коллекции.
// Пустой TimestampFields — явная, именованная политика "нет упорядочивания,
// локальная сторона выигрывает", а не эвристика.
type CollectionPolicy struct {
	TimestampFields []string
}

// DefaultPolicies политики стандартных коллекций органайзера.
// Оригинальный документ несет updatedAt/createdAt не во всех коллекциях;
// там где их нет, merge всегда local-wins.
var DefaultPolicies = map[string]CollectionPolicy{
	"tasks":        {TimestampFields: []string{models.FieldUpdatedAt, models.FieldCreatedAt}},
	"notes":        {TimestampFields: []string{models.FieldUpdatedAt, models.FieldCreatedAt}},
	"triggers":     {TimestampFields: []string{models.FieldUpdatedAt, models.FieldCreatedAt}},
	"areas":        {TimestampFields: []string{models.FieldUpdatedAt}},
	"people":       {TimestampFields: []string{models.FieldUpdatedAt}},
	"weights":      {TimestampFields: []string{models.FieldCreatedAt}},
	"labels":       {},
	"achievements": {},
}

// Snapshots реконсилирует локальный и удаленный snapshot в новый.
// Порядок обязателен: сначала мержатся tombstone-реестры, чтобы свежие
// удаления с remote применились при merge коллекций.
func Snapshots(local, remote *models.Snapshot, policies map[string]CollectionPolicy, conflicts *models.ConflictLog, now time.Time) *models.Snapshot {
	if policies == nil {
		policies = DefaultPolicies
	}

	merged := models.NewSnapshot()
	merged.SchemaVersion = maxInt(local.SchemaVersion, remote.SchemaVersion)
	merged.Sequence = maxInt64(local.Sequence, remote.Sequence)
	merged.UpdatedAt = laterRFC3339(local.UpdatedAt, remote.UpdatedAt)

	merged.Tombstones = tombstone.Prune(
		tombstone.Merge(local.Tombstones, remote.Tombstones),
		tombstone.RetentionWindow, now)

	ledger := tombstone.NewLedger()
	ledger.Restore(merged.Tombstones)

	for _, name := range unionKeys(local.Collections, remote.Collections) {
		policy := policies[name]
		isDeleted := func(id string) bool { return ledger.IsDeleted(name, id) }
		merged.Collections[name] = Collections(name,
			local.Collections[name], remote.Collections[name],
			policy.TimestampFields, isDeleted, conflicts, now)
	}

	merged.Tracking = mergeTracking(local.Tracking, remote.Tracking)

	return merged
}

// Collections реконсилирует одну коллекцию.
//
// Правила:
//  1. tombstoned id не появляется в результате ни с какой стороны;
//  2. записи только на remote вставляются;
//  3. записи на обеих сторонах сравниваются по свежайшему из tsFields:
//     строго новее — выигрывает, иначе локальная с фиксированной политикой
//     local-wins и Conflict-уведомлением при расходящихся payload;
//  4. записи только локально сохраняются (еще не запушены).
func Collections(name string, local, remote models.Collection, tsFields []string, isDeleted func(id string) bool, conflicts *models.ConflictLog, now time.Time) models.Collection {
	result := make(models.Collection, 0, len(local)+len(remote))
	localIndex := make(map[string]models.Record, len(local))

	for _, rec := range local {
		id := rec.ID()
		if id == "" || isDeleted(id) {
			continue
		}
		localIndex[id] = rec
		result = append(result, rec.Clone())
	}

	resultIndex := result.Index()

	for _, remoteRec := range remote {
		id := remoteRec.ID()
		if id == "" || isDeleted(id) {
			// Удаление выигрывает безусловно: stale-запись не воскресает
			continue
		}

		localRec, exists := localIndex[id]
		if !exists {
			result = append(result, remoteRec.Clone())
			continue
		}

		winner := resolve(name, id, localRec, remoteRec, tsFields, conflicts, now)
		if winner != nil {
			result[resultIndex[id]] = winner.Clone()
		}
	}

	return result
}

// resolve выбирает победителя для id, присутствующего на обеих сторонах.
// Возвращает remote-запись, если она строго новее, иначе nil (локальная
// уже в результате).
func resolve(collection, id string, local, remote models.Record, tsFields []string, conflicts *models.ConflictLog, now time.Time) models.Record {
	localTS, localOK := local.Timestamp(tsFields)
	remoteTS, remoteOK := remote.Timestamp(tsFields)

	switch {
	case localOK && remoteOK && remoteTS.After(localTS):
		return remote
	case localOK && remoteOK && localTS.After(remoteTS):
		return nil
	case localOK && remoteOK:
		// Timestamps в точности равны
		if !local.Equal(remote) {
			appendConflict(conflicts, collection, id, models.ConflictLocalWinsTie,
				"identical timestamps with divergent payloads", now)
		}
		return nil
	default:
		// Timestamp-поля не настроены или не распарсились хотя бы с одной
		// стороны: детерминированного упорядочивания нет, фиксированная
		// политика local-wins
		if !local.Equal(remote) {
			appendConflict(conflicts, collection, id, models.ConflictLocalWins,
				"no deterministic ordering available", now)
		}
		return nil
	}
}

// mergeTracking мержит журнал трекинга на уровне листовых полей:
// поле перезаписывается с remote только если локальное пусто/отсутствует.
// Явные локальные правки никогда не затираются более разреженными
// remote-данными.
func mergeTracking(local, remote map[string]models.Record) map[string]models.Record {
	merged := make(map[string]models.Record, len(local)+len(remote))

	for date, rec := range local {
		merged[date] = rec.Clone()
	}

	for date, remoteRec := range remote {
		localRec, exists := merged[date]
		if !exists {
			merged[date] = remoteRec.Clone()
			continue
		}
		for field, remoteVal := range remoteRec {
			if isEmptyValue(localRec[field]) && !isEmptyValue(remoteVal) {
				localRec[field] = remoteVal
			}
		}
	}

	return merged
}

// isEmptyValue сообщает, считается ли листовое значение пустым
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}

func appendConflict(log *models.ConflictLog, collection, id string, mode models.ConflictMode, reason string, now time.Time) {
	if log == nil {
		return
	}
	log.Append(models.Conflict{
		EntityKind: collection,
		ItemID:     id,
		Mode:       mode,
		Reason:     reason,
		CreatedAt:  now,
	})
}

func unionKeys(a, b map[string]models.Collection) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for name := range a {
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	for name := range b {
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	return keys
}

func laterRFC3339(a, b string) string {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	switch {
	case errA != nil:
		return b
	case errB != nil:
		return a
	case tb.After(ta):
		return b
	default:
		return a
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
