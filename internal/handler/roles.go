package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"
)

func (h *Handler) GetAllRoles(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	roles, err := h.repository.GetAllRoles(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取角色目录成功", roles)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var req struct {
		Name  string `json:"name" validate:"required"`
		Code  string `json:"code" validate:"required,max=8"`
		Color string `json:"color" validate:"required,hexcolor"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role := &domain.Role{
		ID:    utils.GenerateID(4, 4),
		Name:  req.Name,
		Code:  req.Code,
		Color: req.Color,
	}

	if err := h.repository.CreateRole(account.ID, role); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "roles_account_id_name_key":
				h.errorResponse(w, r, "角色名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建角色成功", role)
}

// UpdateRole 只影响角色目录本身；
// 历史排班里的角色编号和颜色是涂抹时拷贝的，不会被回溯修改
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	role := r.Context().Value(RoleCtx).(*domain.Role)

	var req struct {
		Name  *string `json:"name"`
		Code  *string `json:"code" validate:"omitempty,max=8"`
		Color *string `json:"color" validate:"omitempty,hexcolor"`
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
		role.Name = *req.Name
	}
	if req.Code != nil {
		role.Code = *req.Code
	}
	if req.Color != nil {
		role.Color = *req.Color
	}

	if err := h.repository.UpdateRole(account.ID, role); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新角色成功", role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	role := r.Context().Value(RoleCtx).(*domain.Role)

	if err := h.repository.DeleteRole(account.ID, role.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除角色成功", nil)
}
