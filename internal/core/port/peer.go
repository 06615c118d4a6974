//go:generate go run go.uber.org/mock/mockgen -source=peer.go -destination=mocks/mock_peer.go -package=mocks
package port

import "github.com/KolpakovK/webrtc-rooms/internal/core/domain"

type LocalTrack interface {
	ID() string
	StreamID() string
}

type RemoteTrack interface {
	ID() string
	StreamID() string
}

// PeerConnection is the platform peer-connection capability. Callbacks
// registered with On* may fire from any goroutine.
type PeerConnection interface {
	AddTrack(track LocalTrack) error
	CreateOffer() (domain.SessionDescription, error)
	CreateAnswer() (domain.SessionDescription, error)
	SetLocalDescription(desc domain.SessionDescription) error
	SetRemoteDescription(desc domain.SessionDescription) error
	AddICECandidate(c domain.Candidate) error
	OnICECandidate(fn func(domain.Candidate))
	OnTrack(fn func(RemoteTrack))
	OnStateChange(fn func(domain.ConnState))
	Close() error
}

type PeerFactory interface {
	NewPeer(remote domain.ParticipantID) (PeerConnection, error)
}
