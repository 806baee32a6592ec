package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"
)

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	staffList, err := h.repository.GetAllStaff(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staffList)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	h.successResponse(w, r, "获取员工信息成功", staff)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var req struct {
		Name           string  `json:"name" validate:"required"`
		HourlyRate     float64 `json:"hourlyRate" validate:"required,gt=0"`
		WeekendRate    float64 `json:"weekendRate" validate:"gte=0"`
		EmploymentType string  `json:"employmentType" validate:"required,oneof=全职 兼职"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.Staff{
		ID:             utils.GenerateStaffID(),
		Name:           req.Name,
		HourlyRate:     req.HourlyRate,
		WeekendRate:    req.WeekendRate,
		EmploymentType: domain.EmploymentType(req.EmploymentType),
	}

	if err := h.repository.CreateStaff(account.ID, staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_pkey":
				h.errorResponse(w, r, "员工 ID 冲突，请重试")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建员工成功", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	var req struct {
		Name           *string  `json:"name"`
		HourlyRate     *float64 `json:"hourlyRate" validate:"omitempty,gt=0"`
		WeekendRate    *float64 `json:"weekendRate" validate:"omitempty,gte=0"`
		EmploymentType *string  `json:"employmentType" validate:"omitempty,oneof=全职 兼职"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.HourlyRate != nil {
		staff.HourlyRate = *req.HourlyRate
	}
	if req.WeekendRate != nil {
		staff.WeekendRate = *req.WeekendRate
	}
	if req.EmploymentType != nil {
		staff.EmploymentType = domain.EmploymentType(*req.EmploymentType)
	}

	if err := h.repository.UpdateStaff(account.ID, staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工信息成功", staff)
}

// ArchiveStaff 归档而不是删除员工，历史排班和成本统计保持不变
func (h *Handler) ArchiveStaff(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	if err := h.repository.ArchiveStaff(account.ID, staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "归档员工成功", nil)
}

func (h *Handler) RestoreStaff(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	if err := h.repository.RestoreStaff(account.ID, staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "恢复员工成功", nil)
}

// GetStaffOrder 返回排班表的员工列顺序；
// 还没有进入顺序列表的在职员工会按姓名拼音追加在末尾
func (h *Handler) GetStaffOrder(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	order, err := h.repository.LoadStaffOrder(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	staffList, err := h.repository.GetAllStaff(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工顺序成功", utils.MergeStaffOrder(order, staffList))
}

func (h *Handler) SaveStaffOrder(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var req struct {
		Order []string `json:"order" validate:"required,dive,required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SaveStaffOrder(account.ID, req.Order); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存员工顺序成功", req.Order)
}
