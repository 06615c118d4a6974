package pion

import (
	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/transport/v4"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

type FactoryOptions struct {
	ICEServers []webrtc.ICEServer
	// Net replaces the host network, e.g. with a pion vnet in tests.
	Net transport.Net
}

// Factory builds one pion PeerConnection per remote participant. All of them
// share a single API, so codecs and settings are registered once.
type Factory struct {
	api    *webrtc.API
	config webrtc.Configuration
	log    zerolog.Logger
}

func NewFactory(opts FactoryOptions, l zerolog.Logger) (*Factory, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}

	s := webrtc.SettingEngine{
		LoggerFactory: NewLoggerFactory(l),
	}
	if opts.Net != nil {
		s.SetNet(opts.Net)
	}

	return &Factory{
		api:    webrtc.NewAPI(webrtc.WithMediaEngine(m), webrtc.WithSettingEngine(s)),
		config: webrtc.Configuration{ICEServers: opts.ICEServers},
		log:    l,
	}, nil
}

func (f *Factory) NewPeer(remote domain.ParticipantID) (port.PeerConnection, error) {
	pc, err := f.api.NewPeerConnection(f.config)
	if err != nil {
		return nil, domain.NewOpError("new peer connection", remote, err)
	}

	l := f.log.With().Str("remote_id", remote.String()).Logger()
	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		l.Debug().Str("ice_state", s.String()).Msg("ICE connection state changed")
	})

	return &peerConn{pc: pc, remote: remote, log: l}, nil
}

// peerConn adapts *webrtc.PeerConnection to port.PeerConnection.
type peerConn struct {
	pc     *webrtc.PeerConnection
	remote domain.ParticipantID
	log    zerolog.Logger
}

func (p *peerConn) AddTrack(track port.LocalTrack) error {
	local, ok := track.(webrtc.TrackLocal)
	if !ok {
		return domain.NewOpError("add track", p.remote, domain.ErrUnsupportedTrack)
	}

	sender, err := p.pc.AddTrack(local)
	if err != nil {
		return domain.NewOpError("add track", p.remote, err)
	}

	// Incoming RTCP has to be read for interceptors like NACK to work.
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()
	return nil
}

func (p *peerConn) CreateOffer() (domain.SessionDescription, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return domain.SessionDescription{}, domain.NewOpError("create offer", p.remote, err)
	}
	return fromPion(offer), nil
}

func (p *peerConn) CreateAnswer() (domain.SessionDescription, error) {
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return domain.SessionDescription{}, domain.NewOpError("create answer", p.remote, err)
	}
	return fromPion(answer), nil
}

func (p *peerConn) SetLocalDescription(desc domain.SessionDescription) error {
	if err := p.pc.SetLocalDescription(toPion(desc)); err != nil {
		return domain.NewOpError("set local description", p.remote, err)
	}
	return nil
}

func (p *peerConn) SetRemoteDescription(desc domain.SessionDescription) error {
	if err := p.pc.SetRemoteDescription(toPion(desc)); err != nil {
		return domain.NewOpError("set remote description", p.remote, err)
	}
	return nil
}

func (p *peerConn) AddICECandidate(c domain.Candidate) error {
	init := webrtc.ICECandidateInit{
		Candidate:        c.Candidate,
		SDPMid:           c.SDPMid,
		SDPMLineIndex:    c.SDPMLineIndex,
		UsernameFragment: c.UsernameFragment,
	}
	if err := p.pc.AddICECandidate(init); err != nil {
		return domain.NewOpError("add ice candidate", p.remote, err)
	}
	return nil
}

func (p *peerConn) OnICECandidate(fn func(domain.Candidate)) {
	p.pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		// nil marks the end of gathering
		if c == nil {
			return
		}
		init := c.ToJSON()
		fn(domain.Candidate{
			Candidate:        init.Candidate,
			SDPMid:           init.SDPMid,
			SDPMLineIndex:    init.SDPMLineIndex,
			UsernameFragment: init.UsernameFragment,
		})
	})
}

func (p *peerConn) OnTrack(fn func(port.RemoteTrack)) {
	p.pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		p.log.Debug().
			Str("kind", track.Kind().String()).
			Str("codec", track.Codec().MimeType).
			Msg("Received remote track")

		// Ask for a keyframe right away so recording starts decodable.
		if track.Kind() == webrtc.RTPCodecTypeVideo {
			pli := []rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: uint32(track.SSRC())}}
			if err := p.pc.WriteRTCP(pli); err != nil {
				p.log.Debug().Err(err).Msg("Error sending PLI")
			}
		}

		fn(&remoteTrack{track: track})
	})
}

func (p *peerConn) OnStateChange(fn func(domain.ConnState)) {
	p.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		fn(domain.ConnState(s.String()))
	})
}

func (p *peerConn) Close() error {
	if err := p.pc.Close(); err != nil {
		return domain.NewOpError("close", p.remote, err)
	}
	return nil
}

func toPion(desc domain.SessionDescription) webrtc.SessionDescription {
	return webrtc.SessionDescription{
		Type: webrtc.NewSDPType(string(desc.Type)),
		SDP:  desc.SDP,
	}
}

func fromPion(desc webrtc.SessionDescription) domain.SessionDescription {
	return domain.SessionDescription{
		Type: domain.SDPType(desc.Type.String()),
		SDP:  desc.SDP,
	}
}

// RTPSource is a remote track the renderer can read packets from.
type RTPSource interface {
	port.RemoteTrack
	Kind() string
	MimeType() string
	ReadRTP() (*rtp.Packet, error)
}

type remoteTrack struct {
	track *webrtc.TrackRemote
}

func (t *remoteTrack) ID() string       { return t.track.ID() }
func (t *remoteTrack) StreamID() string { return t.track.StreamID() }
func (t *remoteTrack) Kind() string     { return t.track.Kind().String() }
func (t *remoteTrack) MimeType() string { return t.track.Codec().MimeType }

func (t *remoteTrack) ReadRTP() (*rtp.Packet, error) {
	pkt, _, err := t.track.ReadRTP()
	return pkt, err
}
