package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/KolpakovK/webrtc-rooms/internal/adapter/driven/media/pion"
	signaling "github.com/KolpakovK/webrtc-rooms/internal/adapter/driven/signaling/ws"
	"github.com/KolpakovK/webrtc-rooms/internal/config"
	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/service"
	"github.com/KolpakovK/webrtc-rooms/internal/logging"
	"github.com/spf13/cobra"
)

type runFunc func(ctx context.Context, cfg config.Peer) error

// newRootCmd binds flags over cfg, which already holds defaults and
// environment values, so a flag wins only when it is set.
func newRootCmd(cfg *config.Peer, run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Headless room participant",
		Long: `peer joins a room on a rendezvous server, sends a local video and audio
file to every other participant and records what they send back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.ServerURL, "server", "s", cfg.ServerURL, "rendezvous websocket URL")
	f.StringVarP(&cfg.Room, "room", "r", cfg.Room, "room to join")
	f.StringVar(&cfg.ICEServersJSON, "ice-servers", cfg.ICEServersJSON, "ICE servers as an RTCIceServer JSON array")
	f.StringVar(&cfg.StunURLs, "stun", cfg.StunURLs, "comma separated STUN URLs")
	f.StringVar(&cfg.TurnURLs, "turn", cfg.TurnURLs, "comma separated TURN URLs")
	f.StringVar(&cfg.TurnUsername, "turn-username", cfg.TurnUsername, "TURN username")
	f.StringVar(&cfg.TurnCredential, "turn-credential", cfg.TurnCredential, "TURN credential")
	f.DurationVar(&cfg.LinkTimeout, "link-timeout", cfg.LinkTimeout, "close links still negotiating after this long (0 disables)")
	f.StringVar(&cfg.VideoFile, "video", cfg.VideoFile, "VP8 IVF file to send")
	f.StringVar(&cfg.AudioFile, "audio", cfg.AudioFile, "Opus OGG file to send")
	f.StringVar(&cfg.RecordDir, "record", cfg.RecordDir, "directory to record remote media into")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	return cmd
}

func runPeer(ctx context.Context, cfg config.Peer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	l, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	iceServers, err := cfg.ICEServers()
	if err != nil {
		return err
	}
	factory, err := pion.NewFactory(pion.FactoryOptions{ICEServers: iceServers}, l)
	if err != nil {
		return fmt.Errorf("peer factory: %w", err)
	}

	sig, err := signaling.Dial(ctx, cfg.ServerURL, l)
	if err != nil {
		return err
	}
	defer sig.Close()

	agent := service.NewAgent(
		factory,
		sig,
		pion.NewFileSource(cfg.VideoFile, cfg.AudioFile, l),
		pion.NewRenderer(cfg.RecordDir, l),
		service.AgentConfig{LinkTimeout: cfg.LinkTimeout},
		l,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	agentDone := make(chan error, 1)
	go func() { agentDone <- agent.Run(ctx) }()

	listenDone := make(chan error, 1)
	go func() { listenDone <- sig.Listen(ctx, agent) }()

	if err := agent.Join(ctx, domain.RoomID(cfg.Room)); err != nil {
		cancel()
		<-agentDone
		return err
	}
	l.Info().Str("server", cfg.ServerURL).Str("room", cfg.Room).Msg("Participant running")

	var listenErr error
	select {
	case <-ctx.Done():
		l.Info().Msg("Leaving room...")
	case listenErr = <-listenDone:
		if listenErr != nil && !errors.Is(listenErr, context.Canceled) {
			l.Error().Err(listenErr).Msg("Lost connection to rendezvous server")
		}
	}

	cancel()
	<-agentDone
	l.Info().Msg("Participant stopped")
	return listenErr
}
