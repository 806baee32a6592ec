package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/analytics"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/engine"
	"github.com/sunny-bistro/roster-manager/backend/internal/event"
)

// 统计视图一次最多覆盖 31 天，防止随手一个超长区间把接口拖垮
const maxAnalyticsRangeDays = 31

var (
	errInvalidDateRange = errors.New("from/to 参数不是合法的日期区间")
	errDateRangeTooLong = errors.New("统计区间不能超过 31 天")
)

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	dateKeys, err := h.analyticsDateRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	staffList, err := h.repository.GetAllStaff(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rules, err := h.repository.LoadBusinessRules(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	revenue, err := h.repository.LoadRevenue(account.ID, dateKeys[0], dateKeys[len(dateKeys)-1])
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summary, err := analytics.Summarize(eng.Snapshot(), staffList, dateKeys, rules, revenue)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工时成本汇总成功", summary)
}

func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)
	eng := r.Context().Value(EngineCtx).(*engine.Engine)

	dateKeys, err := h.analyticsDateRange(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	staffList, err := h.repository.GetAllStaff(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rules, err := h.repository.LoadBusinessRules(account.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	gaps, err := analytics.DetectCoverageGaps(eng.Snapshot(), staffList, dateKeys, rules)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取人员覆盖缺口成功", gaps)
}

func (h *Handler) RequestDigest(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountCtx).(*domain.Account)

	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if _, err := domain.ParseDateKey(req.WeekStart); err != nil {
		h.errorResponse(w, r, "weekStart 不是合法的日期")
		return
	}

	msg := &event.Message{
		Type:      event.TypeDigestRequested,
		AccountID: account.ID,
		WeekStart: req.WeekStart,
	}
	if err := h.publisher.Publish(msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "周报生成请求已加入队列", nil)
}

// analyticsDateRange 把 from/to 查询参数展开为闭区间内的日期键列表
func (h *Handler) analyticsDateRange(r *http.Request) ([]string, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	start, err := domain.ParseDateKey(from)
	if err != nil {
		return nil, errInvalidDateRange
	}
	end, err := domain.ParseDateKey(to)
	if err != nil {
		return nil, errInvalidDateRange
	}
	if end.Before(start) {
		return nil, errInvalidDateRange
	}
	if end.Sub(start) >= maxAnalyticsRangeDays*24*time.Hour {
		return nil, errDateRangeTooLong
	}

	var dateKeys []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateKeys = append(dateKeys, d.Format("2006-01-02"))
	}

	return dateKeys, nil
}
