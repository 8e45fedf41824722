package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/blueye/globalsite/internal/content"
	"github.com/blueye/globalsite/internal/i18n"
)

// writeContentError maps content store errors onto HTTP statuses.
func writeContentError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, content.ErrConflict), errors.Is(err, content.ErrInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, content.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("content store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// listQuery reads the listing filters of a request. Requests without an
// admin session only ever see published records; admins see published
// records unless they ask for another status.
func listQuery(r *http.Request) (content.ListQuery, error) {
	v := r.URL.Query()
	q := content.ListQuery{
		Locale:     v.Get("locale"),
		Status:     v.Get("status"),
		CategoryID: v.Get("categoryId"),
	}
	if q.Locale != "" && !i18n.Supported(q.Locale) {
		return q, errors.New("unknown locale")
	}
	switch q.Status {
	case "", content.StatusDraft, content.StatusPublished, content.StatusAll:
	default:
		return q, errors.New("status must be one of: draft published all")
	}
	if _, ok := adminFrom(r); !ok || q.Status == "" {
		q.Status = content.StatusPublished
	}

	var err error
	if q.Page, err = intParam(v.Get("page")); err != nil {
		return q, errors.New("page must be a number")
	}
	if q.Limit, err = intParam(v.Get("limit")); err != nil {
		return q, errors.New("limit must be a number")
	}
	return q, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// visible reports whether a record of the given status may be shown to the
// requester.
func visible(r *http.Request, status string) bool {
	if status == content.StatusPublished {
		return true
	}
	_, ok := adminFrom(r)
	return ok
}

// announce publishes an event for a record that is published.
func announce(broker *Broker, kind, action, id, locale, status string) {
	if status != content.StatusPublished {
		return
	}
	broker.Publish(ContentEvent{Kind: kind, Action: action, ID: id, Locale: locale})
}
