package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/content"
)

// ReorderCategoriesRequest is the request body for PUT /api/categories/reorder.
type ReorderCategoriesRequest struct {
	CategoryOrders []content.CategoryOrder `json:"categoryOrders" validate:"required,min=1,dive"`
}

type CategoryListResponse struct {
	Data []content.Category `json:"data"`
}

func handleListCategories(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := store.ListCategories(r.Context())
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, CategoryListResponse{Data: cats})
	}
}

func handleGetCategory(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCategory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleCreateCategory(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.CategoryInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c, err := store.CreateCategory(r.Context(), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleUpdateCategory(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.CategoryInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c, err := store.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleDeleteCategory(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentError(logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReorderCategories(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderCategoriesRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.ReorderCategories(r.Context(), req.CategoryOrders); err != nil {
			writeContentError(logger, w, err)
			return
		}
		cats, err := store.ListCategories(r.Context())
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, CategoryListResponse{Data: cats})
	}
}
