package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

var validate = validator.New()

// Server configures the rendezvous server.
type Server struct {
	Addr            string        `env:"RENDEZVOUS_ADDR,default=:3000" validate:"required"`
	StaticDir       string        `env:"RENDEZVOUS_STATIC_DIR,default=./public"`
	LogLevel        string        `env:"RENDEZVOUS_LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`
	LogFormat       string        `env:"RENDEZVOUS_LOG_FORMAT,default=text" validate:"oneof=text json"`
	ShutdownTimeout time.Duration `env:"RENDEZVOUS_SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	ReadLimit       int           `env:"RENDEZVOUS_READ_LIMIT,default=65536" validate:"gte=1024"`
	WriteWait       time.Duration `env:"RENDEZVOUS_WRITE_WAIT,default=10s" validate:"gt=0"`
	PongWait        time.Duration `env:"RENDEZVOUS_PONG_WAIT,default=60s" validate:"gtfield=PingPeriod"`
	PingPeriod      time.Duration `env:"RENDEZVOUS_PING_PERIOD,default=54s" validate:"gt=0"`
	SendBuffer      int           `env:"RENDEZVOUS_SEND_BUFFER,default=256" validate:"gt=0"`
	// Comma separated. Empty allows every origin.
	AllowedOrigins string `env:"RENDEZVOUS_ALLOWED_ORIGINS"`
}

func (s Server) Origins() []string {
	return splitList(s.AllowedOrigins)
}

// LoadServer reads an optional .env file, then the environment.
func LoadServer() (Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Server{}, fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Server{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Peer configures the headless participant. Flags may override it after
// loading, so validation is a separate step.
type Peer struct {
	ServerURL      string        `env:"PEER_SERVER_URL,default=ws://localhost:3000/ws" validate:"required,url"`
	Room           string        `env:"PEER_ROOM,default=conference-room" validate:"required,max=128"`
	ICEServersJSON string        `env:"PEER_ICE_SERVERS_JSON"`
	StunURLs       string        `env:"PEER_STUN_URLS,default=stun:stun.l.google.com:19302"`
	TurnURLs       string        `env:"PEER_TURN_URLS"`
	TurnUsername   string        `env:"PEER_TURN_USERNAME"`
	TurnCredential string        `env:"PEER_TURN_CREDENTIAL"`
	LinkTimeout    time.Duration `env:"PEER_LINK_TIMEOUT,default=0s" validate:"gte=0"`
	VideoFile      string        `env:"PEER_VIDEO_FILE" validate:"omitempty,file"`
	AudioFile      string        `env:"PEER_AUDIO_FILE" validate:"omitempty,file"`
	RecordDir      string        `env:"PEER_RECORD_DIR" validate:"omitempty,dir"`
	LogLevel       string        `env:"PEER_LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`
	LogFormat      string        `env:"PEER_LOG_FORMAT,default=text" validate:"oneof=text json"`
}

func LoadPeer() (Peer, error) {
	_ = godotenv.Load()

	var cfg Peer
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Peer{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func (p Peer) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := p.ICEServers(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	parts := lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}
