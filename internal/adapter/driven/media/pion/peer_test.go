package pion

import (
	"testing"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/pion/logging"
	"github.com/pion/transport/v4/vnet"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newVNetFactories wires two factories onto one virtual LAN so peers can
// connect without touching the host network.
func newVNetFactories(t *testing.T) (*Factory, *Factory) {
	t.Helper()
	req := require.New(t)

	router, err := vnet.NewRouter(&vnet.RouterConfig{
		CIDR:          "10.0.0.0/24",
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})
	req.NoError(err)

	netA, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{"10.0.0.1"}})
	req.NoError(err)
	netB, err := vnet.NewNet(&vnet.NetConfig{StaticIPs: []string{"10.0.0.2"}})
	req.NoError(err)
	req.NoError(router.AddNet(netA))
	req.NoError(router.AddNet(netB))
	req.NoError(router.Start())
	t.Cleanup(func() { _ = router.Stop() })

	a, err := NewFactory(FactoryOptions{Net: netA}, zerolog.Nop())
	req.NoError(err)
	b, err := NewFactory(FactoryOptions{Net: netB}, zerolog.Nop())
	req.NoError(err)
	return a, b
}

// trickle applies candidates from one side to the other once released.
func trickle(from, to port.PeerConnection, release <-chan struct{}) {
	candidates := make(chan domain.Candidate, 64)
	from.OnICECandidate(func(c domain.Candidate) { candidates <- c })
	go func() {
		<-release
		for c := range candidates {
			_ = to.AddICECandidate(c)
		}
	}()
}

func waitState(t *testing.T, states <-chan domain.ConnState, want domain.ConnState) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestPeer_ConnectsAndDeliversTrack(t *testing.T) {
	req := require.New(t)
	fa, fb := newVNetFactories(t)
	idA, idB := domain.NewParticipantID(), domain.NewParticipantID()

	offerer, err := fa.NewPeer(idB)
	req.NoError(err)
	t.Cleanup(func() { _ = offerer.Close() })
	answerer, err := fb.NewPeer(idA)
	req.NoError(err)
	t.Cleanup(func() { _ = answerer.Close() })

	audio, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", "local")
	req.NoError(err)
	req.NoError(offerer.AddTrack(audio))

	statesA := make(chan domain.ConnState, 16)
	statesB := make(chan domain.ConnState, 16)
	offerer.OnStateChange(func(s domain.ConnState) { statesA <- s })
	answerer.OnStateChange(func(s domain.ConnState) { statesB <- s })

	tracks := make(chan port.RemoteTrack, 1)
	answerer.OnTrack(func(tr port.RemoteTrack) { tracks <- tr })

	release := make(chan struct{})
	trickle(offerer, answerer, release)
	trickle(answerer, offerer, release)

	offer, err := offerer.CreateOffer()
	req.NoError(err)
	req.Equal(domain.SDPTypeOffer, offer.Type)
	req.NoError(offerer.SetLocalDescription(offer))
	req.NoError(answerer.SetRemoteDescription(offer))

	answer, err := answerer.CreateAnswer()
	req.NoError(err)
	req.Equal(domain.SDPTypeAnswer, answer.Type)
	req.NoError(answerer.SetLocalDescription(answer))
	req.NoError(offerer.SetRemoteDescription(answer))
	close(release)

	waitState(t, statesA, domain.ConnConnected)
	waitState(t, statesB, domain.ConnConnected)

	// Samples only flow once the track is bound, so keep sending until it shows up.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case tr := <-tracks:
			src, ok := tr.(RTPSource)
			req.True(ok)
			req.Equal("audio", src.Kind())
			req.Equal(webrtc.MimeTypeOpus, src.MimeType())
			return
		case <-ticker.C:
			req.NoError(audio.WriteSample(media.Sample{Data: []byte{0xfc, 0xff, 0xfe}, Duration: 20 * time.Millisecond}))
		case <-timeout:
			t.Fatal("timed out waiting for remote track")
		}
	}
}

func TestPeer_AddTrackRejectsForeignTracks(t *testing.T) {
	f, err := NewFactory(FactoryOptions{}, zerolog.Nop())
	require.NoError(t, err)
	remote := domain.NewParticipantID()

	pc, err := f.NewPeer(remote)
	require.NoError(t, err)
	defer pc.Close()

	err = pc.AddTrack(plainTrack{})

	require.ErrorIs(t, err, domain.ErrUnsupportedTrack)
	var opErr *domain.OpError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, remote, opErr.Remote)
}

func TestPeer_SetRemoteDescriptionWrapsFailure(t *testing.T) {
	f, err := NewFactory(FactoryOptions{}, zerolog.Nop())
	require.NoError(t, err)

	pc, err := f.NewPeer(domain.NewParticipantID())
	require.NoError(t, err)
	defer pc.Close()

	err = pc.SetRemoteDescription(domain.SessionDescription{Type: domain.SDPTypeAnswer, SDP: "not sdp"})

	var opErr *domain.OpError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, "set remote description", opErr.Op)
}
