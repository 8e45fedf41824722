package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/content"
)

const adminMagazinePageSize = 20

func handleListMagazines(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := store.ListMagazines(r.Context(), q, content.ByPublishedAt)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// handleAdminListMagazines lists every locale and status, newest first,
// unless the query narrows it.
func handleAdminListMagazines(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "" {
			v := r.URL.Query()
			v.Set("status", content.StatusAll)
			r.URL.RawQuery = v.Encode()
		}
		q, err := listQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if q.Limit == 0 {
			q.Limit = adminMagazinePageSize
		}
		page, err := store.ListMagazines(r.Context(), q, content.ByCreatedAt)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func handleGetMagazine(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := store.GetMagazine(r.Context(), chi.URLParam(r, "id"))
		if err == nil && !visible(r, m.Status) {
			err = content.ErrNotFound
		}
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleCreateMagazine(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.MagazineInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		m, err := store.CreateMagazine(r.Context(), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindMagazine, actionCreated, m.ID, m.Locale, m.Status)
		writeJSON(w, http.StatusCreated, m)
	}
}

func handleUpdateMagazine(logger *slog.Logger, store *content.Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req content.MagazineInput
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		m, err := store.UpdateMagazine(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeContentError(logger, w, err)
			return
		}
		announce(broker, kindMagazine, actionUpdated, m.ID, m.Locale, m.Status)
		writeJSON(w, http.StatusOK, m)
	}
}

func handleDeleteMagazine(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteMagazine(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeContentError(logger, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
