package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"
)

func (h *Handler) GetAllTemplates(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	templates, err := h.repository.LoadTemplates(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次模板成功", templates)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var req struct {
		Name      string `json:"name" validate:"required"`
		RoleID    string `json:"roleID" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
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

	// 模板里的编号和颜色是创建时从角色目录拷贝的快照
	template := &domain.ShiftTemplate{
		ID:        utils.GenerateID(4, 4),
		Name:      req.Name,
		RoleID:    role.ID,
		RoleCode:  role.Code,
		RoleColor: role.Color,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := utils.ValidateTemplateTimeRange(template); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveTemplate(account.ID, template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次模板成功", template)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	template := r.Context().Value(TemplateCtx).(*domain.ShiftTemplate)

	var req struct {
		Name      *string `json:"name"`
		RoleID    *string `json:"roleID"`
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.RoleID != nil {
		role, err := h.repository.GetRoleByID(account.ID, *req.RoleID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "角色不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		template.RoleID = role.ID
		template.RoleCode = role.Code
		template.RoleColor = role.Color
	}
	if req.StartTime != nil {
		template.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		template.EndTime = *req.EndTime
	}

	if err := utils.ValidateTemplateTimeRange(template); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveTemplate(account.ID, template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次模板成功", template)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	template := r.Context().Value(TemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteTemplate(account.ID, template.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次模板成功", nil)
}
