package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("unknown message kind")
	ErrServerOnlyKind   = errors.New("message kind is only sent by the server")
	ErrMissingTarget    = errors.New("missing target identity")
	ErrAlreadyJoined    = errors.New("participant already joined a room")
	ErrNotJoined        = errors.New("participant has not joined a room")
	ErrNoLocalMedia     = errors.New("no local media")
	ErrClientSlow       = errors.New("client send buffer full")
	ErrAgentStopped     = errors.New("agent stopped")
	ErrUnsupportedTrack = errors.New("unsupported track")
)

// OpError ties a capability failure to the operation and remote identity it
// happened on.
type OpError struct {
	Op     string
	Remote ParticipantID
	Err    error
}

func (e *OpError) Error() string {
	if e.Remote.IsZero() {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Remote, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func NewOpError(op string, remote ParticipantID, err error) *OpError {
	return &OpError{Op: op, Remote: remote, Err: err}
}

// AsOpError wraps err with op unless it already names its operation.
func AsOpError(op string, remote ParticipantID, err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return NewOpError(op, remote, err)
}
