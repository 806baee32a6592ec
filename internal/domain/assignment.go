package domain

// Assignment 是某个槽位上的排班记录
// 角色的编号和颜色在涂抹时就拷贝了一份，后续修改角色目录不会回溯地改变历史排班
type Assignment struct {
	RoleID    string `json:"roleID"`
	RoleCode  string `json:"roleCode"`
	RoleColor string `json:"roleColor"`
}

// Schedule 是槽位键到排班记录的稀疏映射，键不存在即表示该槽位未排班
type Schedule map[string]Assignment

func (s Schedule) Clone() Schedule {
	next := make(Schedule, len(s))
	for key, assignment := range s {
		next[key] = assignment
	}

	return next
}
