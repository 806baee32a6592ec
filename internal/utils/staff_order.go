package utils

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// NameToPinyin 把中文姓名转成拼音串用于排序，非中文字符保持原样
func NameToPinyin(name string) string {
	args := pinyin.NewArgs()
	builder := strings.Builder{}

	for _, r := range name {
		readings := pinyin.SinglePinyin(r, args)
		if len(readings) > 0 {
			builder.WriteString(readings[0])
		} else {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// MergeStaffOrder 把还没有出现在排序列表中的在职员工按姓名拼音追加到末尾，
// 同时剔除列表中已经不存在的员工 ID。归档员工不参与排序列表
func MergeStaffOrder(order []string, staffList []*domain.Staff) []string {
	staffByID := make(map[string]*domain.Staff, len(staffList))
	for _, staff := range staffList {
		staffByID[staff.ID] = staff
	}

	merged := make([]string, 0, len(staffList))
	seen := make(map[string]bool, len(staffList))
	for _, id := range order {
		staff, ok := staffByID[id]
		if !ok || !staff.IsActive || seen[id] {
			continue
		}
		merged = append(merged, id)
		seen[id] = true
	}

	missing := []*domain.Staff{}
	for _, staff := range staffList {
		if staff.IsActive && !seen[staff.ID] {
			missing = append(missing, staff)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		return NameToPinyin(missing[i].Name) < NameToPinyin(missing[j].Name)
	})

	for _, staff := range missing {
		merged = append(merged, staff.ID)
	}

	return merged
}
