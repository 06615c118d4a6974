package main

import (
	"context"
	"testing"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/config"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) config.Peer {
	t.Helper()
	cfg, err := config.LoadPeer()
	require.NoError(t, err)

	var got config.Peer
	cmd := newRootCmd(&cfg, func(_ context.Context, c config.Peer) error {
		got = c
		return nil
	})
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return got
}

func TestRootCmd_FlagsOverrideEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("PEER_ROOM", "from-env")
	t.Setenv("PEER_LINK_TIMEOUT", "30s")

	got := execute(t, "--room", "from-flag", "--server", "ws://rooms.example/ws")

	req.Equal("from-flag", got.Room)
	req.Equal("ws://rooms.example/ws", got.ServerURL)
	req.Equal(30*time.Second, got.LinkTimeout)
}

func TestRootCmd_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PEER_ROOM", "from-env")

	require.Equal(t, "from-env", execute(t).Room)
}

func TestRootCmd_Defaults(t *testing.T) {
	got := execute(t)

	require.Equal(t, "conference-room", got.Room)
	require.Zero(t, got.LinkTimeout)
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	cfg, err := config.LoadPeer()
	require.NoError(t, err)
	cmd := newRootCmd(&cfg, func(context.Context, config.Peer) error { return nil })
	cmd.SetArgs([]string{"stray"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	require.Error(t, cmd.Execute())
}

func TestRunPeer_InvalidConfigFailsFast(t *testing.T) {
	cfg, err := config.LoadPeer()
	require.NoError(t, err)
	cfg.Room = ""

	require.Error(t, runPeer(context.Background(), cfg))
}
