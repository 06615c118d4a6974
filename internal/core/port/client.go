//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
package port

import "github.com/KolpakovK/webrtc-rooms/internal/core/domain"

// Client is one connected participant as seen by the rendezvous server.
// Send must not block and must preserve the order of successive calls.
type Client interface {
	ID() domain.ParticipantID
	Send(env domain.Envelope) error
	Close() error
}
