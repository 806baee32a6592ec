package domain

import "time"

// EraserRoleID 橡皮擦伪角色的 ID，涂抹时选中它表示删除被点击的槽位
const EraserRoleID = "eraser"

type Role struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (r *Role) Assignment() Assignment {
	return Assignment{
		RoleID:    r.ID,
		RoleCode:  r.Code,
		RoleColor: r.Color,
	}
}
