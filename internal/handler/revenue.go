package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if _, err := domain.ParseDateKey(from); err != nil {
		h.errorResponse(w, r, "from 参数不是合法的日期")
		return
	}
	if _, err := domain.ParseDateKey(to); err != nil {
		h.errorResponse(w, r, "to 参数不是合法的日期")
		return
	}

	entries, err := h.repository.LoadRevenue(account.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取营业额记录成功", entries)
}

func (h *Handler) SaveRevenueEntry(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	dateKey := chi.URLParam(r, "dateKey")
	if _, err := domain.ParseDateKey(dateKey); err != nil {
		h.errorResponse(w, r, "日期格式不正确")
		return
	}

	var req struct {
		ProjectedRevenue float64 `json:"projectedRevenue" validate:"gte=0"`
		OtherRevenue     float64 `json:"otherRevenue" validate:"gte=0"`
		Notes            string  `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entry := &domain.DailyRevenue{
		DateKey:          dateKey,
		ProjectedRevenue: req.ProjectedRevenue,
		OtherRevenue:     req.OtherRevenue,
		Notes:            req.Notes,
	}

	if err := h.repository.SaveRevenueEntry(account.ID, entry); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存营业额记录成功", entry)
}

func (h *Handler) DeleteRevenueEntry(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	dateKey := chi.URLParam(r, "dateKey")
	if _, err := domain.ParseDateKey(dateKey); err != nil {
		h.errorResponse(w, r, "日期格式不正确")
		return
	}

	if err := h.repository.DeleteRevenueEntry(account.ID, dateKey); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除营业额记录成功", nil)
}
