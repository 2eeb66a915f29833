package tombstone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordDeletion_Idempotent(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedgerWithClock(fixedClock(now))

	ledger.RecordDeletion("tasks", "t1")
	ledger.RecordDeletion("tasks", "t1")

	assert.True(t, ledger.IsDeleted("tasks", "t1"))

	deletedAt, ok := ledger.DeletedAt("tasks", "t1")
	require.True(t, ok)
	assert.Equal(t, now, deletedAt)
}

func TestIsDeleted_UnknownCollection(t *testing.T) {
	ledger := NewLedger()

	assert.False(t, ledger.IsDeleted("tasks", "t1"))
	assert.False(t, ledger.IsDeleted("notes", "n1"))
}

func TestIsDeleted_MalformedTimestampFailsOpen(t *testing.T) {
	ledger := NewLedger()
	ledger.Restore(map[string]Set{
		"tasks": {
			"t1": "not-a-timestamp",
			"t2": "",
		},
	})

	// Некорректный tombstone не должен скрывать данные
	assert.False(t, ledger.IsDeleted("tasks", "t1"))
	assert.False(t, ledger.IsDeleted("tasks", "t2"))
}

func TestMerge_UnionLaterWins(t *testing.T) {
	local := map[string]Set{
		"tasks": {
			"t1": "2024-01-10T00:00:00Z",
			"t2": "2024-01-20T00:00:00Z",
		},
	}
	remote := map[string]Set{
		"tasks": {
			"t1": "2024-01-15T00:00:00Z", // позже локального
			"t3": "2024-01-05T00:00:00Z", // только на remote
		},
		"notes": {
			"n1": "2024-01-01T00:00:00Z",
		},
	}

	merged := Merge(local, remote)

	assert.Equal(t, "2024-01-15T00:00:00Z", merged["tasks"]["t1"])
	assert.Equal(t, "2024-01-20T00:00:00Z", merged["tasks"]["t2"])
	assert.Equal(t, "2024-01-05T00:00:00Z", merged["tasks"]["t3"])
	assert.Equal(t, "2024-01-01T00:00:00Z", merged["notes"]["n1"])
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	local := map[string]Set{"tasks": {"t1": "2024-01-10T00:00:00Z"}}
	remote := map[string]Set{"tasks": {"t1": "2024-01-15T00:00:00Z"}}

	_ = Merge(local, remote)

	assert.Equal(t, "2024-01-10T00:00:00Z", local["tasks"]["t1"])
}

func TestMerge_MalformedRemoteNeverWins(t *testing.T) {
	local := map[string]Set{"tasks": {"t1": "2024-01-10T00:00:00Z"}}
	remote := map[string]Set{"tasks": {"t1": "garbage"}}

	merged := Merge(local, remote)

	assert.Equal(t, "2024-01-10T00:00:00Z", merged["tasks"]["t1"])
}

func TestPrune_DropsExpiredAndMalformed(t *testing.T) {
	now := time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)
	sets := map[string]Set{
		"tasks": {
			"old":       "2023-12-01T00:00:00Z", // старше 180 дней
			"recent":    "2024-07-01T00:00:00Z",
			"malformed": "yesterday",
			"zero":      "0001-01-01T00:00:00Z",
		},
	}

	pruned := Prune(sets, RetentionWindow, now)

	require.Contains(t, pruned, "tasks")
	assert.Len(t, pruned["tasks"], 1)
	assert.Contains(t, pruned["tasks"], "recent")
}

func TestPrune_EmptyCollectionOmitted(t *testing.T) {
	now := time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)
	sets := map[string]Set{
		"tasks": {"old": "2020-01-01T00:00:00Z"},
	}

	pruned := Prune(sets, RetentionWindow, now)

	assert.NotContains(t, pruned, "tasks")
}

func TestRetention_SuppressesUntilWindowElapses(t *testing.T) {
	deletedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedgerWithClock(fixedClock(deletedAt))
	ledger.RecordDeletion("tasks", "t1")

	// Внутри retention-окна tombstone действует
	withinWindow := Prune(ledger.Sets(), RetentionWindow, deletedAt.Add(RetentionWindow-time.Hour))
	assert.Contains(t, withinWindow["tasks"], "t1")

	// После окна tombstone отброшен, воскрешение разрешено
	afterWindow := Prune(ledger.Sets(), RetentionWindow, deletedAt.Add(RetentionWindow+time.Hour))
	assert.NotContains(t, afterWindow, "tasks")
}
