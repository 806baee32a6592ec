package schedule

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"
)

const minutesPerDay = 24 * 60

var validIntervals = []int{15, 30, 60}

var (
	ErrInvalidTimeRange = errors.New("结束时间必须晚于开始时间")
	ErrEmptyClipboard   = errors.New("请先复制某一天的排班")
)

// Cell 是一次涂抹手势中被经过的一个格子（按当前显示粒度）
type Cell struct {
	DateKey  string
	TimeSlot string
}

// Editor 实现排班表的全部编辑操作。
// 每个操作都读取当前状态、计算出新的 map、记录历史快照并通过 ReplaceAll 提交，
// 提交后通过 onChange 通知持久化同步器。校验类错误在任何修改之前返回，排班表保持不变
type Editor struct {
	store         *Store
	history       *History
	interval      int
	clipboardDate string
	onChange      func(domain.Schedule)
}

func NewEditor(store *Store, history *History, onChange func(domain.Schedule)) *Editor {
	return &Editor{
		store:    store,
		history:  history,
		interval: 30,
		onChange: onChange,
	}
}

func (e *Editor) Interval() int {
	return e.interval
}

func (e *Editor) SetInterval(minutes int) error {
	if !slices.Contains(validIntervals, minutes) {
		return fmt.Errorf("无效的显示粒度: %d", minutes)
	}

	e.interval = minutes
	return nil
}

// PaintStroke 处理一次完整的涂抹手势：按下加上拖动时经过的所有格子。
// 整个手势只记录一次历史快照。涂抹粗粒度的格子时会把其中包含的所有
// 15 分钟槽位全部落实；role 为橡皮擦时只删除被点击的那个槽位键
func (e *Editor) PaintStroke(staffID string, cells []Cell, role *domain.Role) error {
	// 员工 ID 里混入分隔符会生成无法解码的槽位键，必须在任何写入之前拒绝
	if err := utils.ValidateIdentifier(staffID); err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}

	next := e.store.All().Clone()
	changed := false

	for _, cell := range cells {
		if role == nil || role.ID == domain.EraserRoleID {
			key := domain.EncodeSlotKey(cell.DateKey, staffID, cell.TimeSlot)
			if _, ok := next[key]; ok {
				delete(next, key)
				changed = true
			}
			continue
		}

		subSlots, err := expandCell(cell.TimeSlot, e.interval)
		if err != nil {
			return err
		}

		assignment := role.Assignment()
		for _, timeSlot := range subSlots {
			key := domain.EncodeSlotKey(cell.DateKey, staffID, timeSlot)
			if current, ok := next[key]; ok && current == assignment {
				// 槽位上已经是相同的角色，跳过空写
				continue
			}
			next[key] = assignment
			changed = true
		}
	}

	if !changed {
		return nil
	}

	e.commit(next)
	return nil
}

// QuickFill 以 15 分钟为步长填充 [startTime, endTime) 中的每一个槽位
func (e *Editor) QuickFill(dateKey string, staffID string, startTime string, endTime string, role *domain.Role) error {
	if err := utils.ValidateIdentifier(staffID); err != nil {
		return err
	}
	start, end, err := parseRange(startTime, endTime)
	if err != nil {
		return err
	}

	next := e.store.All().Clone()
	changed := false

	assignment := role.Assignment()
	for m := start; m < end; m += domain.SlotMinutes {
		key := domain.EncodeSlotKey(dateKey, staffID, domain.MinutesToTime(m))
		if current, ok := next[key]; ok && current == assignment {
			continue
		}
		next[key] = assignment
		changed = true
	}

	if !changed {
		return nil
	}

	e.commit(next)
	return nil
}

// ApplyTemplate 把模板盖章到某个 (日期, 员工) 上。
// 以当前显示粒度步进生成，但写入的始终是每一步所覆盖的 15 分钟槽位；
// 模板范围之外的已有槽位不会被删除
func (e *Editor) ApplyTemplate(template *domain.ShiftTemplate, dateKey string, staffID string) error {
	if err := utils.ValidateIdentifier(staffID); err != nil {
		return err
	}
	start, end, err := parseRange(template.StartTime, template.EndTime)
	if err != nil {
		return fmt.Errorf("模板 %s 的时间范围无效: %w", template.Name, err)
	}

	next := e.store.All().Clone()
	changed := false

	assignment := template.Assignment()
	for step := start; step < end; step += e.interval {
		for m := step; m < step+e.interval && m < end && m < minutesPerDay; m += domain.SlotMinutes {
			key := domain.EncodeSlotKey(dateKey, staffID, domain.MinutesToTime(m))
			if current, ok := next[key]; ok && current == assignment {
				continue
			}
			next[key] = assignment
			changed = true
		}
	}

	if !changed {
		return nil
	}

	e.commit(next)
	return nil
}

// DeleteShift 删除被点击槽位所在的整段同角色连续排班：
// 从点击处向前向后扫描，只要相邻槽位存在且角色相同就并入删除范围。
// 中间隔着其他角色的段不会被合并；孤立的单个槽位就只删除它自己
func (e *Editor) DeleteShift(dateKey string, staffID string, timeSlot string) error {
	if err := utils.ValidateIdentifier(staffID); err != nil {
		return err
	}
	clicked, err := domain.TimeToMinutes(timeSlot)
	if err != nil {
		return err
	}

	current, ok := e.store.Get(domain.EncodeSlotKey(dateKey, staffID, timeSlot))
	if !ok {
		return nil
	}

	sameRole := func(minutes int) bool {
		assignment, ok := e.store.Get(domain.EncodeSlotKey(dateKey, staffID, domain.MinutesToTime(minutes)))
		return ok && assignment.RoleID == current.RoleID
	}

	start := clicked
	for start-domain.SlotMinutes >= 0 && sameRole(start-domain.SlotMinutes) {
		start -= domain.SlotMinutes
	}

	end := clicked
	for end+domain.SlotMinutes < minutesPerDay && sameRole(end+domain.SlotMinutes) {
		end += domain.SlotMinutes
	}

	next := e.store.All().Clone()
	for m := start; m <= end; m += domain.SlotMinutes {
		delete(next, domain.EncodeSlotKey(dateKey, staffID, domain.MinutesToTime(m)))
	}

	e.commit(next)
	return nil
}

// CopyDay 只记录源日期，不拷贝任何数据
func (e *Editor) CopyDay(dateKey string) {
	e.clipboardDate = dateKey
}

func (e *Editor) ClipboardDate() string {
	return e.clipboardDate
}

// PasteDay 把剪贴板中源日期的全部排班追加到目标日期上。
// 这是增量合并：目标日期上源日期没有对应记录的槽位保持原样，不会被清除
func (e *Editor) PasteDay(targetDateKey string) error {
	if e.clipboardDate == "" {
		return ErrEmptyClipboard
	}
	if e.clipboardDate == targetDateKey {
		return nil
	}

	next := e.store.All().Clone()
	changed := false

	for key, assignment := range e.store.All() {
		ref, err := domain.DecodeSlotKey(key)
		if err != nil {
			return err
		}
		if ref.DateKey != e.clipboardDate {
			continue
		}

		targetKey := domain.EncodeSlotKey(targetDateKey, ref.StaffID, ref.TimeSlot)
		if current, ok := next[targetKey]; ok && current == assignment {
			continue
		}
		next[targetKey] = assignment
		changed = true
	}

	if !changed {
		return nil
	}

	e.commit(next)
	return nil
}

// ClearDay 删除目标日期上所有员工的全部槽位。
// 这是破坏性操作，调用方必须先完成确认步骤再调用
func (e *Editor) ClearDay(dateKey string) error {
	return e.clearDates([]string{dateKey})
}

// ClearWeek 清空当前视图中所有日期的全部槽位，调用方必须先完成确认步骤
func (e *Editor) ClearWeek(dateKeys []string) error {
	return e.clearDates(dateKeys)
}

func (e *Editor) clearDates(dateKeys []string) error {
	next := e.store.All().Clone()
	changed := false

	for key := range e.store.All() {
		ref, err := domain.DecodeSlotKey(key)
		if err != nil {
			return err
		}
		if !slices.Contains(dateKeys, ref.DateKey) {
			continue
		}

		delete(next, key)
		changed = true
	}

	if !changed {
		return nil
	}

	e.commit(next)
	return nil
}

// Undo 回退到上一个快照，已经在最早的快照上时不做任何事
func (e *Editor) Undo() bool {
	state, ok := e.history.Undo()
	if !ok {
		return false
	}

	e.store.ReplaceAll(state)
	e.notify()
	return true
}

// Redo 前进到下一个快照，已经在最新的快照上时不做任何事
func (e *Editor) Redo() bool {
	state, ok := e.history.Redo()
	if !ok {
		return false
	}

	e.store.ReplaceAll(state)
	e.notify()
	return true
}

func (e *Editor) commit(next domain.Schedule) {
	e.history.Record(next)
	e.store.ReplaceAll(next)
	e.notify()
}

func (e *Editor) notify() {
	if e.onChange != nil {
		e.onChange(e.store.All())
	}
}

// expandCell 计算一个粗粒度格子所覆盖的全部 15 分钟槽位，
// 例如 60 分钟视图下点击 09:00 会得到 09:00、09:15、09:30、09:45
func expandCell(timeSlot string, interval int) ([]string, error) {
	base, err := domain.TimeToMinutes(timeSlot)
	if err != nil {
		return nil, err
	}
	if base%domain.SlotMinutes != 0 {
		return nil, fmt.Errorf("时间槽 %s 没有对齐到 %d 分钟", timeSlot, domain.SlotMinutes)
	}

	slots := make([]string, 0, interval/domain.SlotMinutes)
	for m := base; m < base+interval && m < minutesPerDay; m += domain.SlotMinutes {
		slots = append(slots, domain.MinutesToTime(m))
	}

	return slots, nil
}

func parseRange(startTime string, endTime string) (int, int, error) {
	start, err := domain.TimeToMinutes(startTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := domain.TimeToMinutes(endTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, ErrInvalidTimeRange
	}
	if start%domain.SlotMinutes != 0 || end%domain.SlotMinutes != 0 {
		return 0, 0, fmt.Errorf("时间范围 %s-%s 没有对齐到 %d 分钟", startTime, endTime, domain.SlotMinutes)
	}

	return start, end, nil
}
