package domain

import "time"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "全职"
	EmploymentPartTime EmploymentType = "兼职"
)

// Staff 的 IsActive 为 false 表示已归档（软删除）：历史排班和统计仍然保留，
// 只是不再出现在新排班和员工排序列表中，并且可以恢复
type Staff struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	HourlyRate     float64        `json:"hourlyRate"`
	WeekendRate    float64        `json:"weekendRate"`
	EmploymentType EmploymentType `json:"employmentType"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}
