package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alfagnish/users-api/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins (CORS is handled at the middleware level).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscriber hands out a stream of change events and a func to stop it.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// WSHandler streams user change events to WebSocket clients.
type WSHandler struct {
	sub Subscriber
	log *slog.Logger
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sub Subscriber, log *slog.Logger) *WSHandler {
	return &WSHandler{sub: sub, log: log}
}

// Routes registers the WebSocket endpoint.
func (h *WSHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleWS)
}

// HandleWS upgrades the connection and writes every published event as
// a JSON text frame until the client goes away or falls too far behind.
// Messages sent by the client are read and discarded.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	feed, cancel := h.sub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case evt, ok := <-feed:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow"))
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				h.log.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}
