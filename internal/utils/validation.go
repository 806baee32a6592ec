package utils

import (
	"fmt"
	"strings"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// ValidateTemplateTimeRange 校验模板的时间范围：
// 必须是合法的 HH:MM、对齐到基准粒度、并且结束时间晚于开始时间
func ValidateTemplateTimeRange(template *domain.ShiftTemplate) error {
	start, err := domain.TimeToMinutes(template.StartTime)
	if err != nil {
		return err
	}
	end, err := domain.TimeToMinutes(template.EndTime)
	if err != nil {
		return err
	}

	if start%domain.SlotMinutes != 0 || end%domain.SlotMinutes != 0 {
		return fmt.Errorf("模板时间必须对齐到 %d 分钟", domain.SlotMinutes)
	}
	if end <= start {
		return fmt.Errorf("模板的结束时间必须晚于开始时间")
	}

	return nil
}

// ValidateIdentifier 拒绝包含槽位键分隔符的标识符，
// 分隔符一旦混进标识符里槽位键就无法解码了
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("标识符不能为空")
	}
	if strings.Contains(id, domain.SlotKeySeparator) {
		return fmt.Errorf("标识符不能包含 %q", domain.SlotKeySeparator)
	}

	return nil
}

// ValidateBusinessRules 校验营业规则中的各个时间字段
func ValidateBusinessRules(rules *domain.BusinessRules) error {
	for weekday, hours := range rules.OperatingHours {
		if hours.Closed {
			continue
		}

		open, err := domain.TimeToMinutes(hours.Open)
		if err != nil {
			return fmt.Errorf("星期 %d 的营业时间无效: %w", weekday, err)
		}
		closeAt, err := domain.TimeToMinutes(hours.Close)
		if err != nil {
			return fmt.Errorf("星期 %d 的营业时间无效: %w", weekday, err)
		}
		if closeAt <= open {
			return fmt.Errorf("星期 %d 的打烊时间必须晚于开门时间", weekday)
		}
	}

	if rules.PeakWindow.Start != "" || rules.PeakWindow.End != "" {
		start, err := domain.TimeToMinutes(rules.PeakWindow.Start)
		if err != nil {
			return fmt.Errorf("高峰时段无效: %w", err)
		}
		end, err := domain.TimeToMinutes(rules.PeakWindow.End)
		if err != nil {
			return fmt.Errorf("高峰时段无效: %w", err)
		}
		if end <= start {
			return fmt.Errorf("高峰时段的结束时间必须晚于开始时间")
		}
	}

	if rules.MinStaff < 0 || rules.PeakMinStaff < 0 {
		return fmt.Errorf("最低排班人数不能为负数")
	}

	return nil
}
