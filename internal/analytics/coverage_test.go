package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func coverageRules() *domain.BusinessRules {
	rules := domain.DefaultBusinessRules()
	// 收窄营业时间，减少断言覆盖的槽位数量
	for weekday := range rules.OperatingHours {
		rules.OperatingHours[weekday] = domain.DayHours{Open: "10:00", Close: "12:00"}
	}
	rules.MinStaff = 1
	rules.PeakWindow = domain.PeakWindow{Start: "11:00", End: "12:00"}
	rules.PeakMinStaff = 2
	return rules
}

func TestDetectCoverageGaps(t *testing.T) {
	rules := coverageRules()
	staffList := testStaff()

	slots := domain.Schedule{}
	// 两个员工都排 10:00-11:00，11:00-12:00 只有一个人
	fillDay(slots, tuesday, "aaaa1111", "10:00", "12:00", "r1")
	fillDay(slots, tuesday, "bbbb2222", "10:00", "11:00", "r1")

	gaps, err := DetectCoverageGaps(slots, staffList, []string{tuesday}, rules)
	require.NoError(t, err)

	// 10:00-11:00 满足要求且未明显超员，不报告；
	// 11:00-12:00 处于高峰，1 人低于高峰最低要求 2 人
	require.Len(t, gaps, 4)
	for i, gap := range gaps {
		require.Equal(t, tuesday, gap.DateKey)
		require.Equal(t, domain.MinutesToTime(11*60+i*domain.SlotMinutes), gap.TimeSlot)
		require.Equal(t, 1, gap.Assigned)
		require.Equal(t, 2, gap.Required)
		require.Equal(t, SeverityUnderstaffed, gap.Severity)
	}
}

func TestDetectCoverageGapsCritical(t *testing.T) {
	rules := coverageRules()

	gaps, err := DetectCoverageGaps(domain.Schedule{}, testStaff(), []string{tuesday}, rules)
	require.NoError(t, err)

	// 整个营业时间都没有人，每个槽位都是 critical
	require.Len(t, gaps, 8)
	for _, gap := range gaps {
		require.Equal(t, 0, gap.Assigned)
		require.Equal(t, SeverityCritical, gap.Severity)
	}
}

func TestDetectCoverageGapsOverstaffed(t *testing.T) {
	rules := coverageRules()
	staffList := append(testStaff(), &domain.Staff{ID: "cccc3333", Name: "王芳", HourlyRate: 18, IsActive: true})

	slots := domain.Schedule{}
	for _, staff := range staffList {
		fillDay(slots, tuesday, staff.ID, "10:00", "10:15", "r1")
	}

	gaps, err := DetectCoverageGaps(slots, staffList, []string{tuesday}, rules)
	require.NoError(t, err)

	// 10:00 槽位 3 人，达到最低要求 1 人的两倍以上
	require.NotEmpty(t, gaps)
	require.Equal(t, "10:00", gaps[0].TimeSlot)
	require.Equal(t, 3, gaps[0].Assigned)
	require.Equal(t, SeverityOverstaffed, gaps[0].Severity)
}

func TestDetectCoverageGapsIgnoresOutsideOperatingHours(t *testing.T) {
	rules := coverageRules()

	slots := domain.Schedule{}
	// 营业时间之外的排班不参与检测
	fillDay(slots, tuesday, "aaaa1111", "10:00", "12:00", "r1")
	fillDay(slots, tuesday, "bbbb2222", "10:00", "12:00", "r1")
	fillDay(slots, tuesday, "aaaa1111", "22:00", "23:00", "r1")

	gaps, err := DetectCoverageGaps(slots, testStaff(), []string{tuesday}, rules)
	require.NoError(t, err)
	require.Empty(t, gaps)
}

func TestDetectCoverageGapsSkipsClosedDays(t *testing.T) {
	rules := coverageRules()
	weekday, err := domain.WeekdayOf(tuesday)
	require.NoError(t, err)
	rules.OperatingHours[weekday] = domain.DayHours{Closed: true}

	gaps, err := DetectCoverageGaps(domain.Schedule{}, testStaff(), []string{tuesday}, rules)
	require.NoError(t, err)

	// 停业日完全不参与检测，即使整天没有排班
	require.Empty(t, gaps)
}

func TestDetectCoverageGapsIgnoresArchivedStaff(t *testing.T) {
	rules := coverageRules()
	staffList := testStaff()
	staffList[1].IsActive = false

	slots := domain.Schedule{}
	fillDay(slots, tuesday, "aaaa1111", "10:00", "12:00", "r1")
	fillDay(slots, tuesday, "bbbb2222", "10:00", "12:00", "r1")

	gaps, err := DetectCoverageGaps(slots, staffList, []string{tuesday}, rules)
	require.NoError(t, err)

	// 归档员工不计入覆盖，高峰时段只剩 1 个在职员工
	require.Len(t, gaps, 4)
	require.Equal(t, SeverityUnderstaffed, gaps[0].Severity)
}
