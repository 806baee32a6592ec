package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func TestStoreSetAndGet(t *testing.T) {
	store := NewStore()
	assignment := domain.Assignment{RoleID: "r1", RoleCode: "厨", RoleColor: "#ef4444"}

	store.Set("2026-01-05_abcd1234_09:00", assignment)

	got, ok := store.Get("2026-01-05_abcd1234_09:00")
	require.True(t, ok)
	require.Equal(t, assignment, got)
	require.Equal(t, 1, store.Len())

	_, ok = store.Get("2026-01-05_abcd1234_09:15")
	require.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	store.Set("2026-01-05_abcd1234_09:00", domain.Assignment{RoleID: "r1"})

	store.Delete("2026-01-05_abcd1234_09:00")
	require.Equal(t, 0, store.Len())

	// 删除不存在的键是空操作
	store.Delete("2026-01-05_abcd1234_09:00")
	require.Equal(t, 0, store.Len())
}

func TestStoreSnapshotsAreNotAffectedByLaterWrites(t *testing.T) {
	store := NewStore()
	store.Set("2026-01-05_abcd1234_09:00", domain.Assignment{RoleID: "r1"})

	snapshot := store.All()

	store.Set("2026-01-05_abcd1234_09:15", domain.Assignment{RoleID: "r2"})
	store.Delete("2026-01-05_abcd1234_09:00")

	require.Len(t, snapshot, 1)
	_, ok := snapshot["2026-01-05_abcd1234_09:00"]
	require.True(t, ok)
}

func TestStoreReplaceAllWithNil(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(nil)

	require.Equal(t, 0, store.Len())
	require.NotNil(t, store.All())
}
