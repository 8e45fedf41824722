package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/globe"
	"github.com/blueye/globalsite/internal/lifestyle"
	"github.com/blueye/globalsite/internal/quiz"
)

type FeatureResponse struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// DestinationResponse is one localized destination. Section and Hash locate
// it on the scroll page.
type DestinationResponse struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Image    string            `json:"image"`
	Color    string            `json:"color"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Section  int               `json:"section"`
	Hash     string            `json:"hash"`
	Features []FeatureResponse `json:"features"`
}

type LifestyleCategoryResponse struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// SelectRequest is the request body for POST /api/lifestyle/sessions/{id}/select.
type SelectRequest struct {
	Category string `json:"category" validate:"required"`
}

func handleDestinations(catalog *lifestyle.Catalog) http.HandlerFunc {
	layout := globe.NewLayout(catalog.EntityCount())
	return func(w http.ResponseWriter, r *http.Request) {
		locale := chi.URLParam(r, "locale")
		entities := catalog.Entities()
		out := make([]DestinationResponse, len(entities))
		for i, e := range entities {
			section := i + 1
			hash, _ := layout.HashFor(section)
			features := make([]FeatureResponse, len(e.Features))
			for j, f := range e.Features {
				features[j] = FeatureResponse{Key: f.Key, Title: f.Title.In(locale)}
			}
			out[i] = DestinationResponse{
				Code:     string(e.Code),
				Name:     e.Names.In(locale),
				Image:    e.Image,
				Color:    e.Color,
				Lat:      e.Lat,
				Lon:      e.Lon,
				Section:  section,
				Hash:     hash,
				Features: features,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleLifestyleCategories(catalog *lifestyle.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := chi.URLParam(r, "locale")
		cats := catalog.Categories()
		out := make([]LifestyleCategoryResponse, len(cats))
		for i, c := range cats {
			features := make([]string, len(c.Features))
			for j, f := range c.Features {
				features[j] = f.In(locale)
			}
			out[i] = LifestyleCategoryResponse{
				Key:         string(c.Key),
				Title:       c.Title.In(locale),
				Description: c.Description.In(locale),
				Features:    features,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeQuizError maps quiz and bracket errors onto HTTP statuses.
func writeQuizError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, quiz.ErrBusy),
		errors.Is(err, quiz.ErrNotFinished),
		errors.Is(err, lifestyle.ErrTournamentOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, lifestyle.ErrNotInMatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("quiz failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleStartQuiz(logger *slog.Logger, svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Start(r.Context())
		if err != nil {
			writeQuizError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func handleGetQuiz(logger *slog.Logger, svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeQuizError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleSelectQuiz(logger *slog.Logger, svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := svc.Select(r.Context(), chi.URLParam(r, "id"), lifestyle.CategoryKey(req.Category))
		if err != nil {
			writeQuizError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleRestartQuiz(logger *slog.Logger, svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Restart(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeQuizError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleQuizResult(logger *slog.Logger, svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Result(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locale"))
		if err != nil {
			writeQuizError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
