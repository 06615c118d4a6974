package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const defaultEventBuffer = 64

type AgentConfig struct {
	// LinkTimeout closes a link that is still Linking after this long.
	// Zero disables it.
	LinkTimeout time.Duration
	EventBuffer int
}

// PeerLink is the local end of the connection to one remote participant.
type PeerLink struct {
	Remote domain.ParticipantID
	State  domain.LinkState

	conn      port.PeerConnection
	tracks    []string
	localSet  bool
	remoteSet bool
	timer     *time.Timer
}

func (l *PeerLink) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// LinkInfo is a read-only view of a PeerLink.
type LinkInfo struct {
	Remote domain.ParticipantID
	State  domain.LinkState
	Tracks []string
}

type agentEvent interface {
	agentEvent()
}

type inboundEvent struct {
	env domain.Envelope
}

type localCandidateEvent struct {
	remote domain.ParticipantID
	conn   port.PeerConnection
	cand   domain.Candidate
}

type trackEvent struct {
	remote domain.ParticipantID
	conn   port.PeerConnection
	track  port.RemoteTrack
}

type stateEvent struct {
	remote domain.ParticipantID
	conn   port.PeerConnection
	state  domain.ConnState
}

type timeoutEvent struct {
	remote domain.ParticipantID
	conn   port.PeerConnection
}

type callEvent struct {
	fn    func(ctx context.Context) error
	reply chan error
}

func (inboundEvent) agentEvent()        {}
func (localCandidateEvent) agentEvent() {}
func (trackEvent) agentEvent()          {}
func (stateEvent) agentEvent()          {}
func (timeoutEvent) agentEvent()        {}
func (callEvent) agentEvent()           {}

// Agent is the signaling state machine of one participant. It owns the peer
// links and the candidate queue of its connection; both are only touched from
// Run, and everything else (transport, capability callbacks, callers) talks to
// it by posting events.
//
// Under the adopted policy the side that observes user-joined initiates: an
// existing member offers to the newcomer, the newcomer only answers.
type Agent struct {
	factory  port.PeerFactory
	signaler port.Signaler
	media    port.MediaSource
	renderer port.Renderer
	cfg      AgentConfig

	self   domain.ParticipantID
	room   domain.RoomID
	tracks []port.LocalTrack
	links  map[domain.ParticipantID]*PeerLink
	queue  *CandidateQueue

	events  chan agentEvent
	stopped chan struct{}
	log     zerolog.Logger
}

func NewAgent(factory port.PeerFactory, signaler port.Signaler, media port.MediaSource, renderer port.Renderer, cfg AgentConfig, l zerolog.Logger) *Agent {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Agent{
		factory:  factory,
		signaler: signaler,
		media:    media,
		renderer: renderer,
		cfg:      cfg,
		links:    make(map[domain.ParticipantID]*PeerLink),
		queue:    NewCandidateQueue(),
		events:   make(chan agentEvent, cfg.EventBuffer),
		stopped:  make(chan struct{}),
		log:      l,
	}
}

// Run processes events until ctx is done, then tears down every link.
func (a *Agent) Run(ctx context.Context) error {
	defer close(a.stopped)
	defer a.closeAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.events:
			a.handle(ctx, ev)
		}
	}
}

// Deliver hands an inbound signaling message to the agent.
func (a *Agent) Deliver(ctx context.Context, env domain.Envelope) error {
	return a.postCtx(ctx, inboundEvent{env: env})
}

// Join acquires local media and asks the server to add this participant to
// room. Nothing is sent when media cannot be acquired, and media is not
// touched once a room has been joined.
func (a *Agent) Join(ctx context.Context, room domain.RoomID) error {
	if err := ValidateRoom(room); err != nil {
		return err
	}
	if err := a.call(ctx, a.notJoined); err != nil {
		return err
	}

	tracks, err := a.media.Acquire(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("Error accessing local media, not joining")
		return fmt.Errorf("%w: %w", domain.ErrNoLocalMedia, err)
	}
	if len(tracks) == 0 {
		a.log.Error().Msg("Local media has no tracks, not joining")
		return domain.ErrNoLocalMedia
	}

	return a.call(ctx, func(ctx context.Context) error {
		if err := a.notJoined(ctx); err != nil {
			return err
		}
		a.tracks = tracks
		a.room = room
		a.log.Info().Str("room", room.String()).Int("tracks", len(tracks)).Msg("Joining room")
		return a.signaler.Send(ctx, domain.NewJoin(room))
	})
}

func (a *Agent) notJoined(context.Context) error {
	if a.room != "" {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyJoined, a.room)
	}
	return nil
}

// Links returns the current links, sorted by remote identity.
func (a *Agent) Links(ctx context.Context) ([]LinkInfo, error) {
	var out []LinkInfo
	err := a.call(ctx, func(context.Context) error {
		out = lo.MapToSlice(a.links, func(_ domain.ParticipantID, l *PeerLink) LinkInfo {
			return LinkInfo{Remote: l.Remote, State: l.State, Tracks: slices.Clone(l.tracks)}
		})
		return nil
	})
	slices.SortFunc(out, func(x, y LinkInfo) int {
		return strings.Compare(x.Remote.String(), y.Remote.String())
	})
	return out, err
}

// Pending returns how many candidates are queued for remote.
func (a *Agent) Pending(ctx context.Context, remote domain.ParticipantID) (int, error) {
	var n int
	err := a.call(ctx, func(context.Context) error {
		n = a.queue.Len(remote)
		return nil
	})
	return n, err
}

func (a *Agent) call(ctx context.Context, fn func(ctx context.Context) error) error {
	reply := make(chan error, 1)
	if err := a.postCtx(ctx, callEvent{fn: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-a.stopped:
		return domain.ErrAgentStopped
	}
}

func (a *Agent) postCtx(ctx context.Context, ev agentEvent) error {
	select {
	case a.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.stopped:
		return domain.ErrAgentStopped
	}
}

// post is used by capability callbacks, which have no context of their own.
func (a *Agent) post(ev agentEvent) {
	select {
	case a.events <- ev:
	case <-a.stopped:
	}
}

func (a *Agent) handle(ctx context.Context, ev agentEvent) {
	switch ev := ev.(type) {
	case inboundEvent:
		a.handleInbound(ctx, ev.env)
	case localCandidateEvent:
		a.forwardCandidate(ctx, ev)
	case trackEvent:
		a.render(ev)
	case stateEvent:
		a.observeState(ev)
	case timeoutEvent:
		a.expire(ev)
	case callEvent:
		ev.reply <- ev.fn(ctx)
	}
}

func (a *Agent) handleInbound(ctx context.Context, env domain.Envelope) {
	if env.Sender.IsZero() {
		a.log.Warn().Str("type", string(env.Type)).Msg("Message without sender, ignoring")
		return
	}

	switch env.Type {
	case domain.KindWelcome:
		a.self = env.Sender
		a.log.Info().Str("self_id", env.Sender.String()).Msg("Connected to rendezvous server")
	case domain.KindUserJoined:
		a.initiate(ctx, env.Sender)
	case domain.KindOffer:
		a.acceptOffer(ctx, env)
	case domain.KindAnswer:
		a.applyAnswer(env)
	case domain.KindCandidate:
		a.receiveCandidate(env)
	case domain.KindUserLeft:
		a.teardown(env.Sender)
	default:
		a.log.Warn().Str("type", string(env.Type)).Msg("Unknown message type, ignoring")
	}
}

// ensureLink returns the link for remote, creating it if absent. Creation
// attaches every local track once and registers the capability callbacks.
// The caller drains the candidate queue before returning to the loop.
func (a *Agent) ensureLink(remote domain.ParticipantID) (*PeerLink, bool, error) {
	if link, ok := a.links[remote]; ok {
		return link, false, nil
	}

	conn, err := a.factory.NewPeer(remote)
	if err != nil {
		return nil, false, domain.AsOpError("create peer link", remote, err)
	}

	link := &PeerLink{Remote: remote, State: domain.LinkLinking, conn: conn}
	for _, t := range a.tracks {
		if err := conn.AddTrack(t); err != nil {
			a.log.Warn().Err(err).Str("remote_id", remote.String()).Str("track_id", t.ID()).Msg("Error attaching local track")
			continue
		}
		link.tracks = append(link.tracks, t.ID())
	}

	conn.OnICECandidate(func(c domain.Candidate) {
		a.post(localCandidateEvent{remote: remote, conn: conn, cand: c})
	})
	conn.OnTrack(func(t port.RemoteTrack) {
		a.post(trackEvent{remote: remote, conn: conn, track: t})
	})
	conn.OnStateChange(func(s domain.ConnState) {
		a.post(stateEvent{remote: remote, conn: conn, state: s})
	})

	if a.cfg.LinkTimeout > 0 {
		link.timer = time.AfterFunc(a.cfg.LinkTimeout, func() {
			a.post(timeoutEvent{remote: remote, conn: conn})
		})
	}

	a.links[remote] = link
	a.log.Debug().Str("remote_id", remote.String()).Int("tracks", len(link.tracks)).Msg("Peer link created")
	return link, true, nil
}

// drain applies queued candidates for remote in arrival order. Link presence
// is checked again here rather than assumed from the triggering event.
func (a *Agent) drain(remote domain.ParticipantID) {
	link, ok := a.links[remote]
	if !ok {
		return
	}
	cands := a.queue.Take(remote)
	for _, c := range cands {
		a.applyCandidate(link, c)
	}
	if len(cands) > 0 {
		a.log.Debug().Str("remote_id", remote.String()).Int("count", len(cands)).Msg("Drained queued candidates")
	}
}

func (a *Agent) applyCandidate(link *PeerLink, c domain.Candidate) {
	if err := link.conn.AddICECandidate(c); err != nil {
		a.log.Warn().Err(domain.AsOpError("add candidate", link.Remote, err)).Msg("Error adding ICE candidate")
	}
}

func (a *Agent) initiate(ctx context.Context, remote domain.ParticipantID) {
	l := a.log.With().Str("remote_id", remote.String()).Logger()

	link, created, err := a.ensureLink(remote)
	if err != nil {
		l.Error().Err(err).Msg("Error creating peer link")
		return
	}
	defer a.drain(remote)
	if !created {
		l.Debug().Str("state", link.State.String()).Msg("Peer link already present, not offering")
		return
	}

	offer, err := link.conn.CreateOffer()
	if err != nil {
		l.Error().Err(domain.AsOpError("create offer", remote, err)).Msg("Error creating an offer")
		return
	}
	if err := link.conn.SetLocalDescription(offer); err != nil {
		l.Error().Err(domain.AsOpError("set local description", remote, err)).Msg("Error creating an offer")
		return
	}
	link.localSet = true

	a.sendRelay(ctx, domain.KindOffer, offer, remote)
}

func (a *Agent) acceptOffer(ctx context.Context, env domain.Envelope) {
	remote := env.Sender
	l := a.log.With().Str("remote_id", remote.String()).Logger()

	offer, err := env.Description()
	if err != nil {
		l.Warn().Err(err).Msg("Malformed offer, ignoring")
		return
	}

	link, created, err := a.ensureLink(remote)
	if err != nil {
		l.Error().Err(err).Msg("Error creating peer link")
		return
	}
	if created {
		defer a.drain(remote)
	}
	if link.localSet || link.remoteSet {
		l.Warn().Str("state", link.State.String()).Msg("Offer for an already negotiated link, ignoring")
		return
	}

	if err := link.conn.SetRemoteDescription(offer); err != nil {
		l.Error().Err(domain.AsOpError("set remote description", remote, err)).Msg("Error applying offer")
		return
	}
	link.remoteSet = true
	// The capability rejects candidates before a remote description, so
	// queued ones go in now, still within this turn.
	a.drain(remote)

	answer, err := link.conn.CreateAnswer()
	if err != nil {
		l.Error().Err(domain.AsOpError("create answer", remote, err)).Msg("Error creating an answer")
		return
	}
	if err := link.conn.SetLocalDescription(answer); err != nil {
		l.Error().Err(domain.AsOpError("set local description", remote, err)).Msg("Error creating an answer")
		return
	}
	link.localSet = true
	a.markReady(link)

	a.sendRelay(ctx, domain.KindAnswer, answer, remote)
}

func (a *Agent) applyAnswer(env domain.Envelope) {
	remote := env.Sender
	l := a.log.With().Str("remote_id", remote.String()).Logger()

	link, ok := a.links[remote]
	if !ok {
		l.Warn().Msg("Answer without a peer link, dropping")
		return
	}
	if !link.localSet || link.remoteSet {
		l.Warn().Str("state", link.State.String()).Msg("Unexpected answer, dropping")
		return
	}

	answer, err := env.Description()
	if err != nil {
		l.Warn().Err(err).Msg("Malformed answer, ignoring")
		return
	}
	if err := link.conn.SetRemoteDescription(answer); err != nil {
		l.Error().Err(domain.AsOpError("set remote description", remote, err)).Msg("Error applying answer")
		return
	}
	link.remoteSet = true
	a.markReady(link)
}

func (a *Agent) markReady(link *PeerLink) {
	link.State = domain.LinkReady
	link.stopTimer()
	a.log.Info().Str("remote_id", link.Remote.String()).Msg("Peer link ready")
}

func (a *Agent) receiveCandidate(env domain.Envelope) {
	remote := env.Sender
	c, err := env.Candidate()
	if err != nil {
		a.log.Warn().Err(err).Str("remote_id", remote.String()).Msg("Malformed ICE candidate, ignoring")
		return
	}

	if link, ok := a.links[remote]; ok {
		a.applyCandidate(link, c)
		return
	}
	a.queue.Push(remote, c)
	a.log.Debug().Str("remote_id", remote.String()).Int("queued", a.queue.Len(remote)).Msg("Peer link not ready, queuing candidate")
}

// teardown moves remote to Closed. Every step runs even if an earlier one
// fails.
func (a *Agent) teardown(remote domain.ParticipantID) {
	l := a.log.With().Str("remote_id", remote.String()).Logger()

	if err := a.renderer.Detach(remote); err != nil {
		l.Warn().Err(err).Msg("Error removing remote media output")
	}
	if link, ok := a.links[remote]; ok {
		link.stopTimer()
		if err := link.conn.Close(); err != nil {
			l.Warn().Err(domain.AsOpError("close peer link", remote, err)).Msg("Error closing peer link")
		}
		link.State = domain.LinkClosed
	}
	delete(a.links, remote)
	a.queue.Drop(remote)
	l.Info().Msg("Peer link closed")
}

func (a *Agent) closeAll() {
	for remote := range a.links {
		a.teardown(remote)
	}
}

// current reports whether conn still backs the live link for remote. Events
// from a link that was closed (and maybe recreated) are stale.
func (a *Agent) current(remote domain.ParticipantID, conn port.PeerConnection) (*PeerLink, bool) {
	link, ok := a.links[remote]
	if !ok || link.conn != conn {
		return nil, false
	}
	return link, true
}

func (a *Agent) forwardCandidate(ctx context.Context, ev localCandidateEvent) {
	if _, ok := a.current(ev.remote, ev.conn); !ok {
		return
	}
	a.sendRelay(ctx, domain.KindCandidate, ev.cand, ev.remote)
}

func (a *Agent) render(ev trackEvent) {
	if _, ok := a.current(ev.remote, ev.conn); !ok {
		return
	}
	if err := a.renderer.Attach(ev.remote, ev.track); err != nil {
		a.log.Warn().Err(err).Str("remote_id", ev.remote.String()).Str("track_id", ev.track.ID()).Msg("Error rendering remote track")
	}
}

func (a *Agent) observeState(ev stateEvent) {
	link, ok := a.current(ev.remote, ev.conn)
	if !ok {
		return
	}
	e := a.log.Debug()
	if ev.state == domain.ConnFailed {
		e = a.log.Error()
	}
	e.Str("remote_id", ev.remote.String()).Str("link_state", link.State.String()).Str("conn_state", string(ev.state)).Msg("Peer connection state changed")
}

func (a *Agent) expire(ev timeoutEvent) {
	link, ok := a.current(ev.remote, ev.conn)
	if !ok || link.State != domain.LinkLinking {
		return
	}
	a.log.Error().Str("remote_id", ev.remote.String()).Dur("timeout", a.cfg.LinkTimeout).Msg("Peer link did not become ready in time")
	a.teardown(ev.remote)
}

func (a *Agent) sendRelay(ctx context.Context, kind domain.Kind, payload any, remote domain.ParticipantID) {
	env, err := domain.NewRelay(kind, payload, remote)
	if err != nil {
		a.log.Error().Err(err).Str("remote_id", remote.String()).Msg("Error building signaling message")
		return
	}
	if err := a.signaler.Send(ctx, env); err != nil {
		a.log.Error().Err(err).Str("remote_id", remote.String()).Str("type", string(kind)).Msg("Error sending signaling message")
	}
}
