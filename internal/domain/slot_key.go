package domain

import (
	"fmt"
	"strings"
	"time"
)

// 排班表的基准粒度为 15 分钟，30/60 分钟等更粗的显示粒度都只是基准粒度之上的投影
const SlotMinutes = 15

// 槽位键的分隔符，员工 ID 与日期中都不允许出现这个字符
const SlotKeySeparator = "_"

type SlotRef struct {
	DateKey  string `json:"dateKey"`
	StaffID  string `json:"staffID"`
	TimeSlot string `json:"timeSlot"`
}

// EncodeSlotKey 把 (日期, 员工, 时间) 三元组编码为唯一的槽位键
func EncodeSlotKey(dateKey string, staffID string, timeSlot string) string {
	return dateKey + SlotKeySeparator + staffID + SlotKeySeparator + timeSlot
}

func DecodeSlotKey(key string) (*SlotRef, error) {
	parts := strings.Split(key, SlotKeySeparator)
	if len(parts) != 3 {
		return nil, fmt.Errorf("无效的槽位键: %s", key)
	}

	return &SlotRef{
		DateKey:  parts[0],
		StaffID:  parts[1],
		TimeSlot: parts[2],
	}, nil
}

// TimeToMinutes 把 HH:MM 格式的时间槽换算成从零点开始的分钟数
func TimeToMinutes(timeSlot string) (int, error) {
	t, err := time.Parse("15:04", timeSlot)
	if err != nil {
		return 0, fmt.Errorf("无效的时间槽: %s", timeSlot)
	}

	return t.Hour()*60 + t.Minute(), nil
}

func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ParseDateKey(dateKey string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("无效的日期: %s", dateKey)
	}

	return d, nil
}

func WeekdayOf(dateKey string) (time.Weekday, error) {
	d, err := ParseDateKey(dateKey)
	if err != nil {
		return 0, err
	}

	return d.Weekday(), nil
}

func IsWeekend(dateKey string) bool {
	weekday, err := WeekdayOf(dateKey)
	if err != nil {
		return false
	}

	return weekday == time.Saturday || weekday == time.Sunday
}
