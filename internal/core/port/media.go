//go:generate go run go.uber.org/mock/mockgen -source=media.go -destination=mocks/mock_media.go -package=mocks
package port

import (
	"context"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
)

type MediaSource interface {
	Acquire(ctx context.Context) ([]LocalTrack, error)
}

// Renderer presents remote media, one output per remote identity.
type Renderer interface {
	Attach(remote domain.ParticipantID, track RemoteTrack) error
	Detach(remote domain.ParticipantID) error
}
