package domain

import "time"

// ShiftTemplate 是一个可复用的时间段加角色组合，
// 盖章到某个 (日期, 员工) 上时会展开成一段连续的排班记录
type ShiftTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoleID    string    `json:"roleID"`
	RoleCode  string    `json:"roleCode"`
	RoleColor string    `json:"roleColor"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (t *ShiftTemplate) Assignment() Assignment {
	return Assignment{
		RoleID:    t.RoleID,
		RoleCode:  t.RoleCode,
		RoleColor: t.RoleColor,
	}
}
