package schedule

import (
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// 最多保留 50 个快照，超过时丢弃最旧的
const maxSnapshots = 50

// History 是支撑撤销/重做的有界快照栈。
// 编辑操作在提交每个新状态时调用 Record，加载时记录初始状态，
// 因此第一次编辑也可以被撤销。Undo/Redo 在边界上是幂等的空操作
type History struct {
	snapshots []domain.Schedule
	index     int
}

func NewHistory() *History {
	return &History{
		snapshots: []domain.Schedule{},
		index:     -1,
	}
}

func (h *History) Record(state domain.Schedule) {
	// 先把当前下标之后的快照全部丢弃，新编辑发生后不允许再重做被丢弃的分支
	h.snapshots = append(h.snapshots[:h.index+1], state.Clone())
	if len(h.snapshots) > maxSnapshots {
		h.snapshots = h.snapshots[1:]
	}
	h.index = len(h.snapshots) - 1
}

func (h *History) Undo() (domain.Schedule, bool) {
	if h.index <= 0 {
		return nil, false
	}

	h.index--
	return h.snapshots[h.index].Clone(), true
}

func (h *History) Redo() (domain.Schedule, bool) {
	if h.index < 0 || h.index >= len(h.snapshots)-1 {
		return nil, false
	}

	h.index++
	return h.snapshots[h.index].Clone(), true
}

func (h *History) CanUndo() bool {
	return h.index > 0
}

func (h *History) CanRedo() bool {
	return h.index >= 0 && h.index < len(h.snapshots)-1
}

func (h *History) Len() int {
	return len(h.snapshots)
}
