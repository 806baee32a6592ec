package analytics

import (
	"sort"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// 每个 15 分钟槽位折合 0.25 小时
const hoursPerSlot = 0.25

type StaffDayStat struct {
	StaffID string  `json:"staffID"`
	DateKey string  `json:"dateKey"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
}

type StaffWeekStat struct {
	StaffID      string  `json:"staffID"`
	StaffName    string  `json:"staffName"`
	Hours        float64 `json:"hours"`
	Cost         float64 `json:"cost"`
	PeakHours    float64 `json:"peakHours"`
	OffPeakHours float64 `json:"offPeakHours"`
	Utilization  float64 `json:"utilization"`
}

type DayStat struct {
	DateKey string  `json:"dateKey"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
	// LaborPct 只在当天记录了非零营业额时才有定义
	LaborPct *float64 `json:"laborPct"`
}

type Summary struct {
	Days       []*DayStat       `json:"days"`
	StaffDays  []*StaffDayStat  `json:"staffDays"`
	StaffWeeks []*StaffWeekStat `json:"staffWeeks"`
	TotalHours float64          `json:"totalHours"`
	TotalCost  float64          `json:"totalCost"`
}

// SlotRate 返回某员工在某天每小时的费率：
// 周末且定义了周末费率时用周末费率，否则用平时费率
func SlotRate(staff *domain.Staff, dateKey string) float64 {
	if domain.IsWeekend(dateKey) && staff.WeekendRate > 0 {
		return staff.WeekendRate
	}

	return staff.HourlyRate
}

// Summarize 对当前视图中的日期做一次完整的工时与成本汇总。
// 归档员工的历史排班仍然计入成本，保证历史成本归属不变。
// 所有结果都是按需从当前状态重新计算的，没有单独的统计缓存
func Summarize(slots domain.Schedule, staffList []*domain.Staff, dateKeys []string, rules *domain.BusinessRules, revenue []*domain.DailyRevenue) (*Summary, error) {
	staffByID := make(map[string]*domain.Staff, len(staffList))
	for _, staff := range staffList {
		staffByID[staff.ID] = staff
	}

	inView := make(map[string]bool, len(dateKeys))
	for _, dateKey := range dateKeys {
		inView[dateKey] = true
	}

	revenueByDate := make(map[string]*domain.DailyRevenue, len(revenue))
	for _, entry := range revenue {
		revenueByDate[entry.DateKey] = entry
	}

	peakStart, peakEnd, err := peakRange(rules)
	if err != nil {
		return nil, err
	}

	dayStats := make(map[string]*DayStat, len(dateKeys))
	for _, dateKey := range dateKeys {
		dayStats[dateKey] = &DayStat{DateKey: dateKey}
	}

	staffDayStats := map[string]*StaffDayStat{}
	staffWeekStats := map[string]*StaffWeekStat{}

	summary := &Summary{}

	for key := range slots {
		ref, err := domain.DecodeSlotKey(key)
		if err != nil {
			return nil, err
		}
		if !inView[ref.DateKey] {
			continue
		}

		staff, ok := staffByID[ref.StaffID]
		if !ok {
			// 排班指向了不存在的员工，跳过而不是失败，成本无从归属
			continue
		}

		minutes, err := domain.TimeToMinutes(ref.TimeSlot)
		if err != nil {
			return nil, err
		}

		cost := hoursPerSlot * SlotRate(staff, ref.DateKey)

		day := dayStats[ref.DateKey]
		day.Hours += hoursPerSlot
		day.Cost += cost

		sdKey := ref.StaffID + "|" + ref.DateKey
		sd, ok := staffDayStats[sdKey]
		if !ok {
			sd = &StaffDayStat{StaffID: ref.StaffID, DateKey: ref.DateKey}
			staffDayStats[sdKey] = sd
		}
		sd.Hours += hoursPerSlot
		sd.Cost += cost

		sw, ok := staffWeekStats[ref.StaffID]
		if !ok {
			sw = &StaffWeekStat{StaffID: ref.StaffID, StaffName: staff.Name}
			staffWeekStats[ref.StaffID] = sw
		}
		sw.Hours += hoursPerSlot
		sw.Cost += cost
		if minutes >= peakStart && minutes < peakEnd {
			sw.PeakHours += hoursPerSlot
		} else {
			sw.OffPeakHours += hoursPerSlot
		}

		summary.TotalHours += hoursPerSlot
		summary.TotalCost += cost
	}

	// 视图内的可排槽位总数，用于计算利用率；停业的日子不贡献可排槽位
	possibleSlots, err := possibleSlotCount(dateKeys, rules)
	if err != nil {
		return nil, err
	}
	for _, sw := range staffWeekStats {
		if possibleSlots > 0 {
			sw.Utilization = (sw.Hours / hoursPerSlot) / float64(possibleSlots)
		}
	}

	for _, dateKey := range dateKeys {
		day := dayStats[dateKey]
		if entry, ok := revenueByDate[dateKey]; ok && entry.Total() > 0 {
			pct := day.Cost / entry.Total() * 100
			day.LaborPct = &pct
		}
		summary.Days = append(summary.Days, day)
	}

	for _, sd := range staffDayStats {
		summary.StaffDays = append(summary.StaffDays, sd)
	}
	sort.Slice(summary.StaffDays, func(i, j int) bool {
		if summary.StaffDays[i].StaffID != summary.StaffDays[j].StaffID {
			return summary.StaffDays[i].StaffID < summary.StaffDays[j].StaffID
		}
		return summary.StaffDays[i].DateKey < summary.StaffDays[j].DateKey
	})

	for _, sw := range staffWeekStats {
		summary.StaffWeeks = append(summary.StaffWeeks, sw)
	}
	sort.Slice(summary.StaffWeeks, func(i, j int) bool {
		return summary.StaffWeeks[i].StaffID < summary.StaffWeeks[j].StaffID
	})

	return summary, nil
}

func peakRange(rules *domain.BusinessRules) (int, int, error) {
	if rules.PeakWindow.Start == "" || rules.PeakWindow.End == "" {
		return 0, 0, nil
	}

	start, err := domain.TimeToMinutes(rules.PeakWindow.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := domain.TimeToMinutes(rules.PeakWindow.End)
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

func possibleSlotCount(dateKeys []string, rules *domain.BusinessRules) (int, error) {
	total := 0
	for _, dateKey := range dateKeys {
		weekday, err := domain.WeekdayOf(dateKey)
		if err != nil {
			return 0, err
		}

		hours := rules.OperatingHours[weekday]
		if hours.Closed {
			continue
		}

		open, err := domain.TimeToMinutes(hours.Open)
		if err != nil {
			return 0, err
		}
		closeAt, err := domain.TimeToMinutes(hours.Close)
		if err != nil {
			return 0, err
		}
		if closeAt <= open {
			continue
		}

		total += (closeAt - open) / domain.SlotMinutes
	}

	return total, nil
}
