// Package globews serves globe sessions over WebSocket. Each connection owns
// one navigator and camera; inputs arrive as JSON messages and poses stream
// back once per frame while the camera moves.
package globews

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/blueye/globalsite/internal/globe"
	"github.com/blueye/globalsite/internal/lifestyle"
	"github.com/blueye/globalsite/internal/metrics"
)

// DefaultViewportWidth is assumed when a client connects without a usable
// width query parameter.
const DefaultViewportWidth = 1440

type Config struct {
	FrameInterval time.Duration
	Settle        time.Duration
	MaxLifetime   time.Duration
	Camera        globe.CameraConfig
	// OriginPatterns restricts cross-origin upgrades. Empty allows any origin.
	OriginPatterns []string
}

type Handler struct {
	catalog *lifestyle.Catalog
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewHandler(catalog *lifestyle.Catalog, cfg Config, logger *slog.Logger) *Handler {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 60
	}
	if cfg.MaxLifetime <= 0 {
		cfg.MaxLifetime = 10 * time.Minute
	}
	return &Handler{catalog: catalog, cfg: cfg, logger: logger, now: time.Now}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/globe", h.serve)
	return r
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.cfg.OriginPatterns,
		InsecureSkipVerify: len(h.cfg.OriginPatterns) == 0,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.MaxLifetime)
	defer cancel()

	metrics.GlobeSessionsActive.Inc()
	defer metrics.GlobeSessionsActive.Dec()

	width, err := strconv.Atoi(r.URL.Query().Get("width"))
	if err != nil || width <= 0 {
		width = DefaultViewportWidth
	}
	sess := globe.NewSession(h.catalog, globe.SessionConfig{
		Settle:        h.cfg.Settle,
		ViewportWidth: width,
		Camera:        h.cfg.Camera,
		Now:           h.now,
	})

	inbox := make(chan globe.ClientMessage)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg globe.ClientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				readErr <- err
				return
			}
			select {
			case inbox <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(h.cfg.FrameInterval)
	defer ticker.Stop()

	sess.Hello()
	for {
		if err := flush(ctx, conn, sess.Drain()); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			h.logger.Debug("websocket read ended", "error", err)
			return
		case msg := <-inbox:
			reply, ok := apply(sess, msg)
			// Moves caused by msg go out before its reply.
			if err := flush(ctx, conn, sess.Drain()); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
			if ok {
				if err := wsjson.Write(ctx, conn, reply); err != nil {
					h.logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		case <-ticker.C:
			sess.Tick()
		}
	}
}

// apply feeds msg to the session and builds the direct reply, if any: the
// interception result for input events, or the error.
func apply(sess *globe.Session, msg globe.ClientMessage) (globe.ServerMessage, bool) {
	intercepted, err := sess.Apply(msg)
	if err != nil {
		return globe.ServerMessage{Type: globe.MsgError, Error: err.Error()}, true
	}
	switch msg.Type {
	case globe.MsgWheel, globe.MsgSwipe, globe.MsgKey:
		return globe.ServerMessage{Type: globe.MsgInput, Intercepted: &intercepted}, true
	}
	return globe.ServerMessage{}, false
}

func flush(ctx context.Context, conn *websocket.Conn, msgs []globe.ServerMessage) error {
	for _, m := range msgs {
		if err := wsjson.Write(ctx, conn, m); err != nil {
			return err
		}
	}
	return nil
}
