package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	requireAdmin := adminAuthMiddleware(deps.Admin)
	store := deps.Content

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Handle("/metrics", promhttp.Handler())

	// Admin auth.
	loginLimit := max(deps.LoginRateLimit, 1)
	r.With(httprate.LimitByIP(loginLimit, time.Minute)).
		Post("/api/admin/login", handleAdminLogin(logger, deps.Admin))
	r.Post("/api/admin/logout", handleAdminLogout(logger, deps.Admin))
	r.Get("/api/admin/me", handleAdminMe(deps.Admin))
	r.With(requireAdmin).Get("/api/admin/magazines", handleAdminListMagazines(logger, store))

	// Content. Reads are public; an admin session widens what they return.
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", handleListCategories(logger, store))
		r.Get("/{id}", handleGetCategory(logger, store))
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", handleCreateCategory(logger, store))
			r.Put("/reorder", handleReorderCategories(logger, store))
			r.Put("/{id}", handleUpdateCategory(logger, store))
			r.Delete("/{id}", handleDeleteCategory(logger, store))
		})
	})

	r.Route("/api/magazines", func(r chi.Router) {
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/", handleListMagazines(logger, store))
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/{id}", handleGetMagazine(logger, store))
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", handleCreateMagazine(logger, store, broker))
			r.Put("/{id}", handleUpdateMagazine(logger, store, broker))
			r.Delete("/{id}", handleDeleteMagazine(logger, store))
		})
	})

	r.Route("/api/notices", func(r chi.Router) {
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/", handleListNotices(logger, store))
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/{id}", handleGetNotice(logger, store))
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", handleCreateNotice(logger, store, broker))
			r.Put("/{id}", handleUpdateNotice(logger, store, broker))
			r.Delete("/{id}", handleDeleteNotice(logger, store))
		})
	})

	r.Route("/api/news", func(r chi.Router) {
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/", handleListBriefs(logger, store))
		r.With(optionalAdminMiddleware(deps.Admin)).Get("/{id}", handleGetBrief(logger, store))
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", handleCreateBrief(logger, store, broker))
			r.Put("/{id}", handleUpdateBrief(logger, store, broker))
			r.Delete("/{id}", handleDeleteBrief(logger, store))
		})
	})

	r.Get("/api/content/events", handleEvents(broker))

	// Localization.
	r.Get("/api/i18n/{locale}", handleMessages(deps.I18n))

	// Lifestyle quiz and destinations.
	r.With(localeMiddleware).Get("/api/{locale}/destinations", handleDestinations(deps.Catalog))
	r.With(localeMiddleware).Get("/api/{locale}/lifestyle/categories", handleLifestyleCategories(deps.Catalog))
	r.With(localeMiddleware).Get("/api/{locale}/lifestyle/sessions/{id}/result", handleQuizResult(logger, deps.Quiz))
	r.Post("/api/lifestyle/sessions", handleStartQuiz(logger, deps.Quiz))
	r.Get("/api/lifestyle/sessions/{id}", handleGetQuiz(logger, deps.Quiz))
	r.Post("/api/lifestyle/sessions/{id}/select", handleSelectQuiz(logger, deps.Quiz))
	r.Post("/api/lifestyle/sessions/{id}/restart", handleRestartQuiz(logger, deps.Quiz))

	r.Get("/", handleRootRedirect(deps.I18n))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
