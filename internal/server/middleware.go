package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blueye/globalsite/internal/i18n"
)

type ctxKey int

const (
	ctxKeyAdmin ctxKey = iota
)

func adminAuthMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := adminFromRequest(r, admin)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// optionalAdminMiddleware attaches the admin session when the request
// carries a valid one and lets every request through.
func optionalAdminMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, err := adminFromRequest(r, admin); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKeyAdmin, sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// localeMiddleware rejects paths whose {locale} is not supported.
func localeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i18n.Supported(chi.URLParam(r, "locale")) {
			writeError(w, http.StatusNotFound, "unknown locale")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func adminFrom(r *http.Request) (adminSession, bool) {
	sess, ok := r.Context().Value(ctxKeyAdmin).(adminSession)
	return sess, ok
}
