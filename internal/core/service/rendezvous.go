package service

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const roomRule = "required,max=128"

var validate = validator.New()

// ValidateRoom checks a room name before it is joined or requested.
func ValidateRoom(room domain.RoomID) error {
	if err := validate.Var(string(room), roomRule); err != nil {
		return fmt.Errorf("invalid room %q: %w", room, err)
	}
	return nil
}

// Rendezvous holds room membership and routes signaling messages between
// connected participants. It is not safe for concurrent use: every call must
// come from the same loop, which is what keeps per-sender ordering intact.
type Rendezvous struct {
	clients map[domain.ParticipantID]port.Client
	rooms   map[domain.RoomID]map[domain.ParticipantID]struct{}
	members map[domain.ParticipantID]domain.RoomID
	log     zerolog.Logger
}

func NewRendezvous(l zerolog.Logger) *Rendezvous {
	return &Rendezvous{
		clients: make(map[domain.ParticipantID]port.Client),
		rooms:   make(map[domain.RoomID]map[domain.ParticipantID]struct{}),
		members: make(map[domain.ParticipantID]domain.RoomID),
		log:     l,
	}
}

// Register records a fresh connection and tells it its own identity.
func (r *Rendezvous) Register(c port.Client) {
	r.clients[c.ID()] = c
	r.log.Info().Str("participant_id", c.ID().String()).Int("count", len(r.clients)).Msg("Participant connected")
	r.deliver(c, domain.NewWelcome(c.ID()))
}

// Dispatch routes one inbound message from sender.
func (r *Rendezvous) Dispatch(sender domain.ParticipantID, env domain.Envelope) {
	if err := r.route(sender, env); err != nil {
		r.log.Warn().Err(err).
			Str("participant_id", sender.String()).
			Str("type", string(env.Type)).
			Msg("Message rejected")
	}
}

func (r *Rendezvous) route(sender domain.ParticipantID, env domain.Envelope) error {
	switch {
	case !env.Type.Valid():
		return domain.ErrUnknownKind
	case env.Type == domain.KindJoinRoom:
		return r.Join(sender, env.Room)
	case env.Type.Relayed():
		return r.Relay(env.Type, env.Payload, sender, env.Target)
	default:
		return domain.ErrServerOnlyKind
	}
}

// Join adds id to room and announces it to every other member.
func (r *Rendezvous) Join(id domain.ParticipantID, room domain.RoomID) error {
	if _, ok := r.clients[id]; !ok {
		return fmt.Errorf("join %s: participant not connected", id)
	}
	if current, ok := r.members[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyJoined, current)
	}
	if err := ValidateRoom(room); err != nil {
		return err
	}

	set, ok := r.rooms[room]
	if !ok {
		set = make(map[domain.ParticipantID]struct{})
		r.rooms[room] = set
	}

	announce := domain.NewUserJoined(id)
	for other := range set {
		r.deliverTo(other, announce)
	}

	set[id] = struct{}{}
	r.members[id] = room
	r.log.Info().Str("participant_id", id.String()).Str("room", room.String()).Int("members", len(set)).Msg("Participant joined room")
	return nil
}

// Relay forwards payload from sender to target only. The payload is not
// inspected and the target does not have to share the sender's room. A target
// that is not connected is not an error: the message is dropped.
func (r *Rendezvous) Relay(kind domain.Kind, payload json.RawMessage, sender, target domain.ParticipantID) error {
	if !kind.Relayed() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	if _, ok := r.members[sender]; !ok {
		return domain.ErrNotJoined
	}
	if target.IsZero() {
		return domain.ErrMissingTarget
	}

	env := domain.Envelope{Type: kind, Payload: payload}
	if !r.deliverTo(target, env.Forwarded(sender)) {
		r.log.Debug().
			Str("participant_id", sender.String()).
			Str("target_id", target.String()).
			Str("type", string(kind)).
			Msg("Relay target not connected, dropping")
	}
	return nil
}

// Leave forgets id and, if it had joined a room, tells the remaining members.
// Empty rooms are removed.
func (r *Rendezvous) Leave(id domain.ParticipantID) {
	if _, ok := r.clients[id]; !ok {
		return
	}
	delete(r.clients, id)

	room, joined := r.members[id]
	delete(r.members, id)
	if !joined {
		r.log.Info().Str("participant_id", id.String()).Msg("Participant disconnected")
		return
	}

	set := r.rooms[room]
	delete(set, id)

	left := domain.NewUserLeft(id)
	for other := range set {
		r.deliverTo(other, left)
	}

	if len(set) == 0 {
		delete(r.rooms, room)
		r.log.Debug().Str("room", room.String()).Msg("Room emptied")
	}
	r.log.Info().Str("participant_id", id.String()).Str("room", room.String()).Int("members", len(set)).Msg("Participant left room")
}

// Members returns the identities in room, sorted.
func (r *Rendezvous) Members(room domain.RoomID) []domain.ParticipantID {
	ids := lo.Keys(r.rooms[room])
	slices.SortFunc(ids, func(a, b domain.ParticipantID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

func (r *Rendezvous) Rooms() []domain.RoomID {
	rooms := lo.Keys(r.rooms)
	slices.Sort(rooms)
	return rooms
}

func (r *Rendezvous) RoomOf(id domain.ParticipantID) (domain.RoomID, bool) {
	room, ok := r.members[id]
	return room, ok
}

func (r *Rendezvous) Connected() int {
	return len(r.clients)
}

// CloseAll disconnects every client and clears all state.
func (r *Rendezvous) CloseAll() {
	r.log.Info().Int("count", len(r.clients)).Msg("Disconnecting all participants")
	for id, c := range r.clients {
		if err := c.Close(); err != nil {
			r.log.Error().Err(err).Str("participant_id", id.String()).Msg("Error closing client connection")
		}
	}
	clear(r.clients)
	clear(r.rooms)
	clear(r.members)
}

func (r *Rendezvous) deliverTo(id domain.ParticipantID, env domain.Envelope) bool {
	c, ok := r.clients[id]
	if !ok {
		return false
	}
	r.deliver(c, env)
	return true
}

// deliver never retries. A client that cannot take a message is closed so
// later messages are never delivered past a gap.
func (r *Rendezvous) deliver(c port.Client, env domain.Envelope) {
	if err := c.Send(env); err != nil {
		r.log.Error().Err(err).Str("participant_id", c.ID().String()).Str("type", string(env.Type)).Msg("Error sending message")
		if err := c.Close(); err != nil {
			r.log.Debug().Err(err).Str("participant_id", c.ID().String()).Msg("Error closing client connection")
		}
	}
}
