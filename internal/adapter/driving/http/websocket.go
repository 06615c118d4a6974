package http

import (
	"net/http"

	"github.com/KolpakovK/webrtc-rooms/internal/adapter/driven/gateway/ws"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// Non-browser clients send no Origin and are always let through.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return lo.Contains(h.cfg.AllowedOrigins, origin)
}

// ServeWS upgrades the request and runs the participant's pumps. The handler
// returns once the connection is gone.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := ws.NewConn(conn, h.cfg.Conn, h.log)
	if !h.Hub.Register(client) {
		h.log.Warn().Msg("Hub stopped, refusing connection")
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(h.Hub)
}
