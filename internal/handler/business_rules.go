package handler

import (
	"net/http"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/utils"
)

func (h *Handler) GetBusinessRules(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	rules, err := h.repository.LoadBusinessRules(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店规则成功", rules)
}

func (h *Handler) SaveBusinessRules(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var rules domain.BusinessRules
	if err := h.readJSON(r, &rules); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateBusinessRules(&rules); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SaveBusinessRules(account.ID, &rules); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存门店规则成功", &rules)
}
