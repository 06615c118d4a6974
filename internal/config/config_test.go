package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadServer()

	req.NoError(err)
	req.Equal(":3000", cfg.Addr)
	req.Equal("./public", cfg.StaticDir)
	req.Equal(5*time.Second, cfg.ShutdownTimeout)
	req.Equal(54*time.Second, cfg.PingPeriod)
	req.Equal(256, cfg.SendBuffer)
	req.Empty(cfg.Origins())
}

func TestLoadServer_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("RENDEZVOUS_ADDR", ":8443")
	t.Setenv("RENDEZVOUS_LOG_FORMAT", "json")
	t.Setenv("RENDEZVOUS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadServer()

	req.NoError(err)
	req.Equal(":8443", cfg.Addr)
	req.Equal("json", cfg.LogFormat)
	req.Equal([]string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoadServer_Rejects(t *testing.T) {
	cases := map[string][2]string{
		"log level":      {"RENDEZVOUS_LOG_LEVEL", "loud"},
		"ping past pong": {"RENDEZVOUS_PING_PERIOD", "2m"},
		"send buffer":    {"RENDEZVOUS_SEND_BUFFER", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])

			_, err := LoadServer()

			require.Error(t, err)
		})
	}
}

func TestLoadPeer_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadPeer()

	req.NoError(err)
	req.Equal("ws://localhost:3000/ws", cfg.ServerURL)
	req.Equal("conference-room", cfg.Room)
	req.Zero(cfg.LinkTimeout)
	req.NoError(cfg.Validate())
}

func TestPeer_Validate(t *testing.T) {
	base, err := LoadPeer()
	require.NoError(t, err)

	cases := map[string]func(p *Peer){
		"empty room":     func(p *Peer) { p.Room = "" },
		"long room":      func(p *Peer) { p.Room = string(make([]byte, 129)) },
		"bad url":        func(p *Peer) { p.ServerURL = "not a url" },
		"missing video":  func(p *Peer) { p.VideoFile = "/does/not/exist.ivf" },
		"bad stun":       func(p *Peer) { p.StunURLs = "http://stun.example" },
		"turn w/o creds": func(p *Peer) { p.TurnURLs = "turn:turn.example:3478" },
		"negative timer": func(p *Peer) { p.LinkTimeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			require.Error(t, p.Validate())
		})
	}
}
