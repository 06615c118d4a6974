package domain

// LinkState is the lifecycle of one peer link as seen by the local agent.
type LinkState int

const (
	LinkUnknown LinkState = iota
	LinkLinking
	LinkReady
	LinkClosed
)

func (s LinkState) String() string {
	switch s {
	case LinkLinking:
		return "linking"
	case LinkReady:
		return "ready"
	case LinkClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ConnState is the transport-level state reported by the peer-connection
// capability. Values match the W3C RTCPeerConnectionState names.
type ConnState string

const (
	ConnNew          ConnState = "new"
	ConnConnecting   ConnState = "connecting"
	ConnConnected    ConnState = "connected"
	ConnDisconnected ConnState = "disconnected"
	ConnFailed       ConnState = "failed"
	ConnClosed       ConnState = "closed"
)
