package domain

import (
	"github.com/google/uuid"
)

// ParticipantID is the server-assigned identity of one connection. It doubles
// as the signaling identity.
type ParticipantID uuid.UUID

type RoomID string

func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New())
}

func ParseParticipantID(s string) (ParticipantID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ParticipantID{}, err
	}
	return ParticipantID(id), nil
}

func (id ParticipantID) String() string {
	return uuid.UUID(id).String()
}

func (id ParticipantID) IsZero() bool {
	return id == ParticipantID{}
}

func (id ParticipantID) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}
	return []byte(id.String()), nil
}

// UnmarshalText accepts the empty string as the zero identity.
func (id *ParticipantID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = ParticipantID{}
		return nil
	}
	parsed, err := ParseParticipantID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id RoomID) String() string {
	return string(id)
}
