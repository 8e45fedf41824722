package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/i18n"
)

func handleMessages(bundle *i18n.Bundle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := bundle.Messages(chi.URLParam(r, "locale"))
		if err != nil {
			writeError(w, http.StatusNotFound, "unknown locale")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// handleRootRedirect sends / to the home page of the best locale for the
// Accept-Language header.
func handleRootRedirect(bundle *i18n.Bundle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := bundle.Negotiate(r.Header.Get("Accept-Language"))
		w.Header().Add("Vary", "Accept-Language")
		http.Redirect(w, r, "/"+locale+"/", http.StatusFound)
	}
}
