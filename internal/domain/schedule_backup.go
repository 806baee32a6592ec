package domain

import "time"

// ScheduleBackup 是按账户保存的本地持久备份，只用于崩溃恢复，不是主存储
type ScheduleBackup struct {
	AccountID string    `json:"accountID"`
	Slots     Schedule  `json:"slots"`
	SavedAt   time.Time `json:"savedAt"`
}
