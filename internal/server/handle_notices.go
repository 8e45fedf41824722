package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/content"
)

func handleListNotices(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := store.ListNotices(r.Context(), q)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func handleGetNotice(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.GetNotice(r.Context(), chi.URLParam(r, "id"))
		if err == nil && !visible(r, n.Status) {
			err = content.ErrNotFound
		}
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

func handleCreateNotice(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.NoticeInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		n, err := store.CreateNotice(r.Context(), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindNotice, actionCreated, n.ID, n.Locale, n.Status)
		writeJSON(w, http.StatusCreated, n)
	}
}

func handleUpdateNotice(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.NoticeInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		n, err := store.UpdateNotice(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindNotice, actionUpdated, n.ID, n.Locale, n.Status)
		writeJSON(w, http.StatusOK, n)
	}
}

func handleDeleteNotice(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteNotice(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentError(logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
