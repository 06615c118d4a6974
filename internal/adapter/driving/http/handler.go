package http

import (
	"encoding/json"
	"net/http"

	"github.com/KolpakovK/webrtc-rooms/internal/adapter/driven/gateway/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Config struct {
	// StaticDir is served at the root so a browser can load the room page.
	StaticDir string
	// AllowedOrigins limits websocket upgrades. Empty allows every origin.
	AllowedOrigins []string
	Conn           ws.Options
}

type Handler struct {
	Hub *ws.Hub
	cfg Config
	log zerolog.Logger
}

func NewHandler(hub *ws.Hub, cfg Config, l zerolog.Logger) *Handler {
	return &Handler{
		Hub: hub,
		cfg: cfg,
		log: l,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)
	r.Get("/healthz", h.Health)

	if h.cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(h.cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Hub.Stats(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.log.Error().Err(err).Msg("Error writing health response")
	}
}
