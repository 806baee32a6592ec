package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func stateWith(roleID string) domain.Schedule {
	return domain.Schedule{
		"2026-01-05_abcd1234_09:00": {RoleID: roleID},
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	history := NewHistory()

	initial := stateWith("r0")
	edited := stateWith("r1")

	history.Record(initial)
	history.Record(edited)

	undone, ok := history.Undo()
	require.True(t, ok)
	require.Equal(t, initial, undone)

	redone, ok := history.Redo()
	require.True(t, ok)
	require.Equal(t, edited, redone)
}

func TestHistoryBoundaryIsIdempotent(t *testing.T) {
	history := NewHistory()
	history.Record(stateWith("r0"))
	history.Record(stateWith("r1"))

	_, ok := history.Undo()
	require.True(t, ok)

	// 已经在最早的快照上，继续撤销是空操作
	_, ok = history.Undo()
	require.False(t, ok)
	require.False(t, history.CanUndo())

	_, ok = history.Redo()
	require.True(t, ok)

	// 已经在最新的快照上，继续重做是空操作
	_, ok = history.Redo()
	require.False(t, ok)
	require.False(t, history.CanRedo())
}

func TestHistoryDropsOldestBeyondCapacity(t *testing.T) {
	history := NewHistory()

	for i := 0; i <= maxSnapshots+10; i++ {
		history.Record(stateWith(fmt.Sprintf("r%d", i)))
	}

	require.Equal(t, maxSnapshots, history.Len())

	// 一路撤销到底，最旧可达的状态应当是被截断后的第一个快照
	var last domain.Schedule
	for {
		state, ok := history.Undo()
		if !ok {
			break
		}
		last = state
	}

	require.Equal(t, stateWith(fmt.Sprintf("r%d", 11)), last)
}

func TestHistoryRecordDiscardsRedoBranch(t *testing.T) {
	history := NewHistory()
	history.Record(stateWith("r0"))
	history.Record(stateWith("r1"))

	_, ok := history.Undo()
	require.True(t, ok)

	// 撤销之后的新编辑丢弃原来的重做分支
	history.Record(stateWith("r2"))
	require.False(t, history.CanRedo())

	undone, ok := history.Undo()
	require.True(t, ok)
	require.Equal(t, stateWith("r0"), undone)
}

func TestHistoryRecordClonesState(t *testing.T) {
	history := NewHistory()

	state := stateWith("r0")
	history.Record(state)
	history.Record(stateWith("r1"))

	// 修改调用方持有的 map 不应影响已记录的快照
	state["2026-01-05_abcd1234_09:15"] = domain.Assignment{RoleID: "r9"}

	undone, ok := history.Undo()
	require.True(t, ok)
	require.Equal(t, stateWith("r0"), undone)
}
