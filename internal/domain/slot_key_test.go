package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlotKeyRoundTrip(t *testing.T) {
	tests := []struct {
		dateKey  string
		staffID  string
		timeSlot string
		want     string
	}{
		{"2026-01-05", "abcd1234", "09:00", "2026-01-05_abcd1234_09:00"},
		{"2026-01-05", "abcd1234", "23:45", "2026-01-05_abcd1234_23:45"},
		{"2026-12-31", "zzzz9999", "00:00", "2026-12-31_zzzz9999_00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			key := EncodeSlotKey(tt.dateKey, tt.staffID, tt.timeSlot)
			require.Equal(t, tt.want, key)

			ref, err := DecodeSlotKey(key)
			require.NoError(t, err)
			require.Equal(t, tt.dateKey, ref.DateKey)
			require.Equal(t, tt.staffID, ref.StaffID)
			require.Equal(t, tt.timeSlot, ref.TimeSlot)
		})
	}
}

func TestDecodeSlotKeyRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"", "2026-01-05", "2026-01-05_abcd1234", "a_b_c_d"} {
		t.Run(key, func(t *testing.T) {
			_, err := DecodeSlotKey(key)
			require.Error(t, err)
		})
	}
}

func TestTimeToMinutes(t *testing.T) {
	t.Run("valid slots", func(t *testing.T) {
		tests := []struct {
			timeSlot string
			want     int
		}{
			{"00:00", 0},
			{"09:15", 9*60 + 15},
			{"23:45", 23*60 + 45},
		}
		for _, tt := range tests {
			got, err := TimeToMinutes(tt.timeSlot)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		}
	})

	t.Run("invalid slots", func(t *testing.T) {
		for _, timeSlot := range []string{"", "9:0:0", "25:00", "09:65", "午夜"} {
			_, err := TimeToMinutes(timeSlot)
			require.Error(t, err, timeSlot)
		}
	})
}

func TestMinutesToTime(t *testing.T) {
	require.Equal(t, "00:00", MinutesToTime(0))
	require.Equal(t, "09:15", MinutesToTime(9*60+15))
	require.Equal(t, "23:45", MinutesToTime(23*60+45))
}

func TestWeekdayHelpers(t *testing.T) {
	// 2026-01-03 是周六，2026-01-04 是周日，2026-01-05 是周一
	weekday, err := WeekdayOf("2026-01-05")
	require.NoError(t, err)
	require.Equal(t, time.Monday, weekday)

	require.True(t, IsWeekend("2026-01-03"))
	require.True(t, IsWeekend("2026-01-04"))
	require.False(t, IsWeekend("2026-01-05"))
	require.False(t, IsWeekend("不是日期"))
}

func TestScheduleClone(t *testing.T) {
	original := Schedule{
		"2026-01-05_abcd1234_09:00": {RoleID: "r1", RoleCode: "厨", RoleColor: "#ef4444"},
	}

	cloned := original.Clone()
	cloned["2026-01-05_abcd1234_09:15"] = Assignment{RoleID: "r2"}

	require.Len(t, original, 1)
	require.Len(t, cloned, 2)
}
