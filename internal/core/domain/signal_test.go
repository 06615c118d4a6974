package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelope_ForwardedAttachesSenderAndStripsTarget(t *testing.T) {
	req := require.New(t)
	sender, target := NewParticipantID(), NewParticipantID()

	env, err := NewRelay(KindCandidate, Candidate{Candidate: "candidate:1"}, target)
	req.NoError(err)
	env.Sender = NewParticipantID()
	env.Room = "spoofed"

	out := env.Forwarded(sender)

	req.Equal(sender, out.Sender)
	req.True(out.Target.IsZero())
	req.Empty(out.Room)
	c, err := out.Candidate()
	req.NoError(err)
	req.Equal("candidate:1", c.Candidate)
}

func TestNewRelay_Rejects(t *testing.T) {
	_, err := NewRelay(KindJoinRoom, nil, NewParticipantID())
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewRelay(KindOffer, SessionDescription{}, ParticipantID{})
	require.ErrorIs(t, err, ErrMissingTarget)
}

func TestEnvelope_WireShape(t *testing.T) {
	req := require.New(t)
	target := NewParticipantID()

	raw, err := json.Marshal(NewJoin("conference-room"))
	req.NoError(err)
	req.JSONEq(`{"type":"join-room","room":"conference-room"}`, string(raw))

	var in Envelope
	req.NoError(json.Unmarshal([]byte(`{"type":"offer","payload":{"type":"offer","sdp":"v=0"},"target":"`+target.String()+`","sender":""}`), &in))
	req.Equal(KindOffer, in.Type)
	req.Equal(target, in.Target)
	req.True(in.Sender.IsZero())
	desc, err := in.Description()
	req.NoError(err)
	req.Equal(SessionDescription{Type: SDPTypeOffer, SDP: "v=0"}, desc)

	req.Error(json.Unmarshal([]byte(`{"type":"offer","target":"not-a-uuid"}`), &in))
}

func TestKind_Classification(t *testing.T) {
	for _, k := range []Kind{KindOffer, KindAnswer, KindCandidate} {
		require.True(t, k.Relayed(), k)
		require.True(t, k.Valid(), k)
	}
	for _, k := range []Kind{KindWelcome, KindJoinRoom, KindUserJoined, KindUserLeft} {
		require.False(t, k.Relayed(), k)
		require.True(t, k.Valid(), k)
	}
	require.False(t, Kind("shout").Valid())
}

func TestAsOpError_DoesNotNest(t *testing.T) {
	remote := NewParticipantID()
	inner := NewOpError("create offer", remote, ErrUnsupportedTrack)

	require.Same(t, inner, AsOpError("create offer", remote, inner))

	wrapped := AsOpError("close", remote, ErrClientSlow)
	var oe *OpError
	require.ErrorAs(t, wrapped, &oe)
	require.Equal(t, "close", oe.Op)
	require.ErrorIs(t, wrapped, ErrClientSlow)
}
