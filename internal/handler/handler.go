package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sunny-bistro/roster-manager/backend/internal/config"
	"github.com/sunny-bistro/roster-manager/backend/internal/engine"
	"github.com/sunny-bistro/roster-manager/backend/internal/event"
	"github.com/sunny-bistro/roster-manager/backend/internal/repository"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	engines    *engine.Registry
	publisher  *event.Publisher

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, engines *engine.Registry, publisher *event.Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		engines:    engines,
		publisher:  publisher,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/accounts/{accountID}", func(r chi.Router) {
		r.Use(h.account)

		// 排班表的读取、编辑操作和撤销/重做
		r.Route("/schedule", func(r chi.Router) {
			r.Use(h.scheduleEngine)
			r.Get("/", h.GetSchedule)
			r.Patch("/interval", h.SetInterval)
			r.Post("/paint", h.PaintStroke)
			r.Post("/quick-fill", h.QuickFill)
			r.Post("/apply-template", h.ApplyTemplate)
			r.Post("/delete-shift", h.DeleteShift)
			r.Post("/copy-day", h.CopyDay)
			r.Post("/paste-day", h.PasteDay)
			r.Post("/clear-day", h.ClearDay)
			r.Post("/clear-week", h.ClearWeek)
			r.Post("/undo", h.Undo)
			r.Post("/redo", h.Redo)
			r.Get("/sync-status", h.GetSyncStatus)
			r.Post("/resync", h.Resync)
			r.Post("/restore-backup", h.RestoreBackup)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff)
			r.Get("/order", h.GetStaffOrder)
			r.Put("/order", h.SaveStaffOrder)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaff)
				r.Patch("/", h.UpdateStaff)
				r.Post("/archive", h.ArchiveStaff)
				r.Post("/restore", h.RestoreStaff)
			})
		})

		r.Route("/roles", func(r chi.Router) {
			r.Post("/", h.CreateRole)
			r.Get("/", h.GetAllRoles)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.roleInfo)
				r.Patch("/", h.UpdateRole)
				r.Delete("/", h.DeleteRole)
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", h.CreateTemplate)
			r.Get("/", h.GetAllTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.templateInfo)
				r.Put("/", h.UpdateTemplate)
				r.Delete("/", h.DeleteTemplate)
			})
		})

		r.Route("/business-rules", func(r chi.Router) {
			r.Get("/", h.GetBusinessRules)
			r.Put("/", h.SaveBusinessRules)
		})

		r.Route("/revenue", func(r chi.Router) {
			r.Get("/", h.GetRevenue)
			r.Put("/{dateKey}", h.SaveRevenueEntry)
			r.Delete("/{dateKey}", h.DeleteRevenueEntry)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(h.scheduleEngine)
			r.Get("/summary", h.GetSummary)
			r.Get("/coverage", h.GetCoverage)
			r.Post("/digest", h.RequestDigest)
		})
	})
}
