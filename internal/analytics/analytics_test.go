package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// 2026-01-03 是周六，2026-01-06 是周二
const (
	saturday = "2026-01-03"
	tuesday  = "2026-01-06"
)

func testStaff() []*domain.Staff {
	return []*domain.Staff{
		{
			ID:          "aaaa1111",
			Name:        "张伟",
			HourlyRate:  20,
			WeekendRate: 25,
			IsActive:    true,
		},
		{
			ID:         "bbbb2222",
			Name:       "李娜",
			HourlyRate: 18,
			IsActive:   true,
		},
	}
}

func fillDay(slots domain.Schedule, dateKey string, staffID string, startTime string, endTime string, roleID string) {
	start, _ := domain.TimeToMinutes(startTime)
	end, _ := domain.TimeToMinutes(endTime)
	for m := start; m < end; m += domain.SlotMinutes {
		slots[domain.EncodeSlotKey(dateKey, staffID, domain.MinutesToTime(m))] = domain.Assignment{RoleID: roleID}
	}
}

func TestSlotRate(t *testing.T) {
	staff := testStaff()[0]

	require.Equal(t, 25.0, SlotRate(staff, saturday))
	require.Equal(t, 20.0, SlotRate(staff, tuesday))

	// 没有定义周末费率时周末也用平时费率
	noWeekend := testStaff()[1]
	require.Equal(t, 18.0, SlotRate(noWeekend, saturday))
}

func TestSummarizeWeekendRates(t *testing.T) {
	slots := domain.Schedule{}
	// 周六和周二各 1 小时（4 个槽位）
	fillDay(slots, saturday, "aaaa1111", "09:00", "10:00", "r1")
	fillDay(slots, tuesday, "aaaa1111", "09:00", "10:00", "r1")

	summary, err := Summarize(slots, testStaff(), []string{saturday, tuesday}, domain.DefaultBusinessRules(), nil)
	require.NoError(t, err)

	require.Len(t, summary.Days, 2)
	require.Equal(t, saturday, summary.Days[0].DateKey)
	require.InDelta(t, 25.0, summary.Days[0].Cost, 1e-9)
	require.InDelta(t, 20.0, summary.Days[1].Cost, 1e-9)
	require.InDelta(t, 2.0, summary.TotalHours, 1e-9)
	require.InDelta(t, 45.0, summary.TotalCost, 1e-9)
}

func TestSummarizePeakSplit(t *testing.T) {
	slots := domain.Schedule{}
	// 11:00-15:00，默认高峰时段是 12:00-14:00
	fillDay(slots, tuesday, "aaaa1111", "11:00", "15:00", "r1")

	summary, err := Summarize(slots, testStaff(), []string{tuesday}, domain.DefaultBusinessRules(), nil)
	require.NoError(t, err)

	require.Len(t, summary.StaffWeeks, 1)
	sw := summary.StaffWeeks[0]
	require.InDelta(t, 4.0, sw.Hours, 1e-9)
	require.InDelta(t, 2.0, sw.PeakHours, 1e-9)
	require.InDelta(t, 2.0, sw.OffPeakHours, 1e-9)
}

func TestSummarizeUtilization(t *testing.T) {
	rules := domain.DefaultBusinessRules()
	// 收窄营业时间方便计算：每天 09:00-17:00 共 32 个槽位
	for weekday := range rules.OperatingHours {
		rules.OperatingHours[weekday] = domain.DayHours{Open: "09:00", Close: "17:00"}
	}

	slots := domain.Schedule{}
	fillDay(slots, tuesday, "aaaa1111", "09:00", "13:00", "r1") // 16 个槽位

	summary, err := Summarize(slots, testStaff(), []string{tuesday}, rules, nil)
	require.NoError(t, err)

	require.Len(t, summary.StaffWeeks, 1)
	require.InDelta(t, 0.5, summary.StaffWeeks[0].Utilization, 1e-9)
}

func TestSummarizeLaborPct(t *testing.T) {
	slots := domain.Schedule{}
	fillDay(slots, tuesday, "aaaa1111", "09:00", "14:00", "r1") // 5 小时 × 20 = 100

	revenue := []*domain.DailyRevenue{
		{DateKey: tuesday, ProjectedRevenue: 1600, OtherRevenue: 400},
	}

	summary, err := Summarize(slots, testStaff(), []string{tuesday, saturday}, domain.DefaultBusinessRules(), revenue)
	require.NoError(t, err)

	var tuesdayStat, saturdayStat *DayStat
	for _, day := range summary.Days {
		switch day.DateKey {
		case tuesday:
			tuesdayStat = day
		case saturday:
			saturdayStat = day
		}
	}

	require.NotNil(t, tuesdayStat.LaborPct)
	require.InDelta(t, 5.0, *tuesdayStat.LaborPct, 1e-9)

	// 没有营业额记录的日子不定义人力成本占比
	require.Nil(t, saturdayStat.LaborPct)
}

func TestSummarizeSkipsUnknownStaffAndOutOfViewDates(t *testing.T) {
	slots := domain.Schedule{}
	fillDay(slots, tuesday, "aaaa1111", "09:00", "10:00", "r1")
	// 不存在的员工和视图之外的日期都应被跳过
	fillDay(slots, tuesday, "gone0000", "09:00", "10:00", "r1")
	fillDay(slots, "2026-02-10", "aaaa1111", "09:00", "10:00", "r1")

	summary, err := Summarize(slots, testStaff(), []string{tuesday}, domain.DefaultBusinessRules(), nil)
	require.NoError(t, err)

	require.InDelta(t, 1.0, summary.TotalHours, 1e-9)
	require.Len(t, summary.StaffWeeks, 1)
	require.Equal(t, "aaaa1111", summary.StaffWeeks[0].StaffID)
}

func TestSummarizeCountsArchivedStaffCost(t *testing.T) {
	staffList := testStaff()
	staffList[0].IsActive = false

	slots := domain.Schedule{}
	fillDay(slots, tuesday, "aaaa1111", "09:00", "10:00", "r1")

	summary, err := Summarize(slots, staffList, []string{tuesday}, domain.DefaultBusinessRules(), nil)
	require.NoError(t, err)

	// 归档员工的历史排班仍然计入成本
	require.InDelta(t, 20.0, summary.TotalCost, 1e-9)
}
