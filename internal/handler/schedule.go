package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/engine"
	"github.com/sunny-bistro/roster-manager/backend/internal/schedule"
)

// GetSchedule 返回当前排班表快照。远端为空而本地存在崩溃恢复备份时，
// 本次会话第一次加载会在响应里附带恢复提议，由用户决定是否恢复
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	backup, err := eng.BackupOffer(r.Context(), h.engines.BackupStore())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	data := struct {
		Slots         domain.Schedule        `json:"slots"`
		Interval      int                    `json:"interval"`
		CanUndo       bool                   `json:"canUndo"`
		CanRedo       bool                   `json:"canRedo"`
		ClipboardDate string                 `json:"clipboardDate,omitempty"`
		Backup        *domain.ScheduleBackup `json:"backup,omitempty"`
	}{
		Slots:         eng.Snapshot(),
		Interval:      eng.Interval(),
		CanUndo:       eng.CanUndo(),
		CanRedo:       eng.CanRedo(),
		ClipboardDate: eng.ClipboardDate(),
		Backup:        backup,
	}

	h.successResponse(w, r, "获取排班表成功", data)
}

func (h *Handler) SetInterval(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		Interval int `json:"interval" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := eng.SetInterval(req.Interval); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "设置显示粒度成功", req.Interval)
}

// PaintStroke 处理一次完整的涂抹手势。
// 一次手势（按下加拖动）对应一次请求，整个手势只占一个撤销步骤
func (h *Handler) PaintStroke(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		StaffID string `json:"staffID" validate:"required"`
		RoleID  string `json:"roleID" validate:"required"`
		Cells   []struct {
			DateKey  string `json:"dateKey" validate:"required"`
			TimeSlot string `json:"timeSlot" validate:"required"`
		} `json:"cells" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role, ok := h.resolvePaintRole(w, r, account.ID, req.RoleID)
	if !ok {
		return
	}

	cells := make([]schedule.Cell, 0, len(req.Cells))
	for _, cell := range req.Cells {
		if _, err := domain.ParseDateKey(cell.DateKey); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		cells = append(cells, schedule.Cell{DateKey: cell.DateKey, TimeSlot: cell.TimeSlot})
	}

	if err := eng.PaintStroke(req.StaffID, cells, role); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "涂抹成功", eng.Snapshot())
}

func (h *Handler) QuickFill(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		DateKey   string `json:"dateKey" validate:"required"`
		StaffID   string `json:"staffID" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
		RoleID    string `json:"roleID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role, err := h.repository.GetRoleByID(account.ID, req.RoleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "角色不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := eng.QuickFill(req.DateKey, req.StaffID, req.StartTime, req.EndTime, role); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "快速填充成功", eng.Snapshot())
}

func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		TemplateID string `json:"templateID" validate:"required"`
		DateKey    string `json:"dateKey" validate:"required"`
		StaffID    string `json:"staffID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template, err := h.repository.GetTemplateByID(account.ID, req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "模板不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := eng.ApplyTemplate(template, req.DateKey, req.StaffID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "应用模板成功", eng.Snapshot())
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		DateKey  string `json:"dateKey" validate:"required"`
		StaffID  string `json:"staffID" validate:"required"`
		TimeSlot string `json:"timeSlot" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := eng.DeleteShift(req.DateKey, req.StaffID, req.TimeSlot); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "删除班次成功", eng.Snapshot())
}

func (h *Handler) CopyDay(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		DateKey string `json:"dateKey" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := domain.ParseDateKey(req.DateKey); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	eng.CopyDay(req.DateKey)

	h.successResponse(w, r, "复制成功", req.DateKey)
}

func (h *Handler) PasteDay(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		TargetDateKey string `json:"targetDateKey" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := eng.PasteDay(req.TargetDateKey); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "粘贴成功", eng.Snapshot())
}

// ClearDay 是破坏性操作，必须带上确认标记才会执行
func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		DateKey string `json:"dateKey" validate:"required"`
		Confirm bool   `json:"confirm"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !req.Confirm {
		h.errorResponse(w, r, "清空操作需要确认")
		return
	}

	if err := eng.ClearDay(req.DateKey); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "已清空当天排班", eng.Snapshot())
}

func (h *Handler) ClearWeek(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	var req struct {
		DateKeys []string `json:"dateKeys" validate:"required,min=1,dive,required"`
		Confirm  bool     `json:"confirm"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !req.Confirm {
		h.errorResponse(w, r, "清空操作需要确认")
		return
	}

	if err := eng.ClearWeek(req.DateKeys); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "已清空本周排班", eng.Snapshot())
}

// Undo 在已经没有更早快照时不报错，只是什么都不改
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	changed := eng.Undo()

	data := struct {
		Changed bool            `json:"changed"`
		Slots   domain.Schedule `json:"slots"`
	}{
		Changed: changed,
		Slots:   eng.Snapshot(),
	}

	h.successResponse(w, r, "撤销完成", data)
}

func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	changed := eng.Redo()

	data := struct {
		Changed bool            `json:"changed"`
		Slots   domain.Schedule `json:"slots"`
	}{
		Changed: changed,
		Slots:   eng.Snapshot(),
	}

	h.successResponse(w, r, "重做完成", data)
}

// GetSyncStatus 报告持久化同步器的状态；保存失败不会回滚本地状态，
// 用户可以继续编辑，下一轮保存会自动重试
func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	data := struct {
		SaveInProgress bool   `json:"saveInProgress"`
		LastError      string `json:"lastError,omitempty"`
	}{
		SaveInProgress: eng.SaveInProgress(),
	}
	if err := eng.SyncError(); err != nil {
		data.LastError = err.Error()
	}

	h.successResponse(w, r, "获取同步状态成功", data)
}

func (h *Handler) Resync(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	eng.Resync()

	h.successResponse(w, r, "已触发重新同步", nil)
}

func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	restored, err := eng.RestoreBackup(r.Context(), h.engines.BackupStore())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if restored == 0 {
		h.errorResponse(w, r, "没有可恢复的备份")
		return
	}

	h.successResponse(w, r, "已从本地备份恢复", eng.Snapshot())
}

// resolvePaintRole 把请求中的角色 ID 解析成可用于涂抹的角色，
// 橡皮擦是不存在于角色目录中的伪角色
func (h *Handler) resolvePaintRole(w http.ResponseWriter, r *http.Request, accountID string, roleID string) (*domain.Role, bool) {
	if roleID == domain.EraserRoleID {
		return &domain.Role{ID: domain.EraserRoleID}, true
	}

	role, err := h.repository.GetRoleByID(accountID, roleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "角色不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return nil, false
	}

	return role, true
}
