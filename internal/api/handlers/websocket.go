package handlers

import (
	"net/http"

	"github.com/dom/postgram/internal/api/middleware"
	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
	log      zerolog.Logger
}

// NewWebSocketHandler accepts upgrades from allowedOrigin only. Same-origin
// requests and clients that send no Origin header are always accepted.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigin string, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
		log: log,
	}
}

// Handle runs behind the session middleware, so the user is already known.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, h.log, "ws.upgrade", domain.ErrUnauthorized)
		return
	}

	// The upgrade writes its own response, so carry over any cookies the
	// session middleware set while rotating tokens.
	header := http.Header{}
	for _, c := range w.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", c)
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
