package analytics

import (
	"sort"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

type GapSeverity string

const (
	SeverityCritical     GapSeverity = "critical"
	SeverityUnderstaffed GapSeverity = "understaffed"
	SeverityOverstaffed  GapSeverity = "overstaffed"
)

type CoverageGap struct {
	DateKey  string      `json:"dateKey"`
	TimeSlot string      `json:"timeSlot"`
	Assigned int         `json:"assigned"`
	Required int         `json:"required"`
	Severity GapSeverity `json:"severity"`
}

// DetectCoverageGaps 对视图内每个日期在该星期几营业时间内的每个基准槽位统计
// 在班的在职员工数：0 人为 critical，低于最低要求为 understaffed（高峰时段用
// 更高的最低要求），明显高于要求则为 overstaffed。
// 营业时间之外以及停业日的槽位完全不参与检测
func DetectCoverageGaps(slots domain.Schedule, staffList []*domain.Staff, dateKeys []string, rules *domain.BusinessRules) ([]*CoverageGap, error) {
	activeStaff := make(map[string]bool, len(staffList))
	for _, staff := range staffList {
		if staff.IsActive {
			activeStaff[staff.ID] = true
		}
	}

	// 先一次性统计每个 (日期, 时间槽) 上在班的在职员工数
	assigned := map[string]map[string]int{}
	for key := range slots {
		ref, err := domain.DecodeSlotKey(key)
		if err != nil {
			return nil, err
		}
		if !activeStaff[ref.StaffID] {
			continue
		}

		if _, ok := assigned[ref.DateKey]; !ok {
			assigned[ref.DateKey] = map[string]int{}
		}
		assigned[ref.DateKey][ref.TimeSlot]++
	}

	peakStart, peakEnd, err := peakRange(rules)
	if err != nil {
		return nil, err
	}

	gaps := []*CoverageGap{}

	for _, dateKey := range dateKeys {
		weekday, err := domain.WeekdayOf(dateKey)
		if err != nil {
			return nil, err
		}

		hours := rules.OperatingHours[weekday]
		if hours.Closed {
			continue
		}

		open, err := domain.TimeToMinutes(hours.Open)
		if err != nil {
			return nil, err
		}
		closeAt, err := domain.TimeToMinutes(hours.Close)
		if err != nil {
			return nil, err
		}

		for m := open; m < closeAt; m += domain.SlotMinutes {
			timeSlot := domain.MinutesToTime(m)

			required := rules.MinStaff
			if m >= peakStart && m < peakEnd && rules.PeakMinStaff > required {
				required = rules.PeakMinStaff
			}

			count := assigned[dateKey][timeSlot]

			var severity GapSeverity
			switch {
			case count == 0:
				severity = SeverityCritical
			case count < required:
				severity = SeverityUnderstaffed
			case count >= required+2:
				severity = SeverityOverstaffed
			default:
				continue
			}

			gaps = append(gaps, &CoverageGap{
				DateKey:  dateKey,
				TimeSlot: timeSlot,
				Assigned: count,
				Required: required,
				Severity: severity,
			})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].DateKey != gaps[j].DateKey {
			return gaps[i].DateKey < gaps[j].DateKey
		}
		return gaps[i].TimeSlot < gaps[j].TimeSlot
	})

	return gaps, nil
}
