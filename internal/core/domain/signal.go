package domain

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindWelcome    Kind = "welcome"
	KindJoinRoom   Kind = "join-room"
	KindUserJoined Kind = "user-joined"
	KindOffer      Kind = "offer"
	KindAnswer     Kind = "answer"
	KindCandidate  Kind = "ice-candidate"
	KindUserLeft   Kind = "user-left"
)

// Relayed reports whether messages of this kind are forwarded peer to peer
// through the server.
func (k Kind) Relayed() bool {
	switch k {
	case KindOffer, KindAnswer, KindCandidate:
		return true
	}
	return false
}

func (k Kind) Valid() bool {
	switch k {
	case KindWelcome, KindJoinRoom, KindUserJoined, KindUserLeft:
		return true
	}
	return k.Relayed()
}

// Envelope is one signaling message on the wire. Sender is always set by the
// server; Target is only meaningful from client to server.
type Envelope struct {
	Type    Kind            `json:"type"`
	Room    RoomID          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Sender  ParticipantID   `json:"sender,omitzero"`
	Target  ParticipantID   `json:"target,omitzero"`
}

func NewJoin(room RoomID) Envelope {
	return Envelope{Type: KindJoinRoom, Room: room}
}

func NewWelcome(self ParticipantID) Envelope {
	return Envelope{Type: KindWelcome, Sender: self}
}

func NewUserJoined(who ParticipantID) Envelope {
	return Envelope{Type: KindUserJoined, Sender: who}
}

func NewUserLeft(who ParticipantID) Envelope {
	return Envelope{Type: KindUserLeft, Sender: who}
}

// NewRelay builds a client to server message addressed to target.
func NewRelay(kind Kind, payload any, target ParticipantID) (Envelope, error) {
	if !kind.Relayed() {
		return Envelope{}, fmt.Errorf("%w: %q is not relayed", ErrUnknownKind, kind)
	}
	if target.IsZero() {
		return Envelope{}, ErrMissingTarget
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: kind, Payload: raw, Target: target}, nil
}

// Forwarded is the copy delivered to the target: sender attached, target and
// room stripped.
func (e Envelope) Forwarded(sender ParticipantID) Envelope {
	return Envelope{Type: e.Type, Payload: e.Payload, Sender: sender}
}

func (e Envelope) Description() (SessionDescription, error) {
	var desc SessionDescription
	if err := json.Unmarshal(e.Payload, &desc); err != nil {
		return SessionDescription{}, err
	}
	return desc, nil
}

func (e Envelope) Candidate() (Candidate, error) {
	var c Candidate
	if err := json.Unmarshal(e.Payload, &c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}
