package syncer

import (
	"sort"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// Delta 描述期望状态相对于基线状态的差异
type Delta struct {
	Upserts domain.Schedule
	Deletes []string
}

// Diff 计算把 baseline 变成 desired 所需的最小写操作集合：
// desired 中新增或内容不同的键进入 Upserts，baseline 中有而 desired 中没有的键进入 Deletes
func Diff(desired domain.Schedule, baseline domain.Schedule) *Delta {
	delta := &Delta{
		Upserts: domain.Schedule{},
		Deletes: []string{},
	}

	for key, assignment := range desired {
		if current, ok := baseline[key]; !ok || current != assignment {
			delta.Upserts[key] = assignment
		}
	}

	for key := range baseline {
		if _, ok := desired[key]; !ok {
			delta.Deletes = append(delta.Deletes, key)
		}
	}

	// 删除顺序保持稳定，方便重试和测试
	sort.Strings(delta.Deletes)

	return delta
}

func (d *Delta) Empty() bool {
	return len(d.Upserts) == 0 && len(d.Deletes) == 0
}
