//go:generate go run go.uber.org/mock/mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks
package port

import (
	"context"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
)

// Signaler carries an agent's outbound messages to the rendezvous server.
type Signaler interface {
	Send(ctx context.Context, env domain.Envelope) error
}
