package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/KolpakovK/webrtc-rooms/internal/core/service"
	"github.com/rs/zerolog"
)

var ErrHubStopped = errors.New("hub stopped")

type inbound struct {
	sender domain.ParticipantID
	env    domain.Envelope
}

// Stats is a point-in-time view of the rendezvous state.
type Stats struct {
	Connected int             `json:"connected"`
	Rooms     []domain.RoomID `json:"rooms"`
}

// Hub owns the rendezvous state. Every register, inbound message and
// unregister goes through Run, one at a time, in arrival order.
type Hub struct {
	rv         *service.Rendezvous
	register   chan port.Client
	unregister chan domain.ParticipantID
	inbound    chan inbound
	queries    chan func(*service.Rendezvous)
	quit       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
	log        zerolog.Logger
}

func NewHub(l zerolog.Logger) *Hub {
	return &Hub{
		rv:         service.NewRendezvous(l),
		register:   make(chan port.Client),
		unregister: make(chan domain.ParticipantID),
		inbound:    make(chan inbound),
		queries:    make(chan func(*service.Rendezvous)),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        l,
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case <-h.quit:
			h.rv.CloseAll()
			h.log.Info().Msg("Hub stopped")
			return

		case c := <-h.register:
			h.rv.Register(c)

		case id := <-h.unregister:
			h.rv.Leave(id)

		case in := <-h.inbound:
			h.rv.Dispatch(in.sender, in.env)

		case q := <-h.queries:
			q(h.rv)
		}
	}
}

// Register hands a new connection to the hub. It reports false once the hub
// has stopped.
func (h *Hub) Register(c port.Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Unregister(id domain.ParticipantID) {
	select {
	case h.unregister <- id:
	case <-h.quit:
	}
}

// Deliver queues one message read from sender's connection.
func (h *Hub) Deliver(sender domain.ParticipantID, env domain.Envelope) bool {
	select {
	case h.inbound <- inbound{sender: sender, env: env}:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Members(ctx context.Context, room domain.RoomID) ([]domain.ParticipantID, error) {
	var out []domain.ParticipantID
	err := h.query(ctx, func(rv *service.Rendezvous) {
		out = rv.Members(room)
	})
	return out, err
}

func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := h.query(ctx, func(rv *service.Rendezvous) {
		out = Stats{Connected: rv.Connected(), Rooms: rv.Rooms()}
	})
	return out, err
}

func (h *Hub) query(ctx context.Context, fn func(*service.Rendezvous)) error {
	done := make(chan struct{})
	q := func(rv *service.Rendezvous) {
		fn(rv)
		close(done)
	}

	select {
	case h.queries <- q:
	case <-h.quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Stop disconnects every client and ends Run. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.stopped
}
