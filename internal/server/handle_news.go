package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/content"
)

// Daily briefs are served under /api/news.

func handleListBriefs(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := store.ListBriefs(r.Context(), q)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func handleGetBrief(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.GetBrief(r.Context(), chi.URLParam(r, "id"))
		if err == nil && !visible(r, b.Status) {
			err = content.ErrNotFound
		}
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func handleCreateBrief(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.BriefInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b, err := store.CreateBrief(r.Context(), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindBrief, actionCreated, b.ID, b.Locale, b.Status)
		writeJSON(w, http.StatusCreated, b)
	}
}

func handleUpdateBrief(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.BriefInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b, err := store.UpdateBrief(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindBrief, actionUpdated, b.ID, b.Locale, b.Status)
		writeJSON(w, http.StatusOK, b)
	}
}

func handleDeleteBrief(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteBrief(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentError(logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
