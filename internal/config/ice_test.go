package config

import (
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

func TestICEServers_JSONWins(t *testing.T) {
	req := require.New(t)
	p := Peer{
		ICEServersJSON: `[{"urls":"stun:a.example:3478"},{"urls":["turn:b.example:3478"," turns:b.example:5349 "],"username":"u","credential":"c"}]`,
		StunURLs:       "stun:ignored.example",
	}

	servers, err := p.ICEServers()

	req.NoError(err)
	req.Equal([]webrtc.ICEServer{
		{URLs: []string{"stun:a.example:3478"}},
		{URLs: []string{"turn:b.example:3478", "turns:b.example:5349"}, Username: "u", Credential: "c"},
	}, servers)
}

func TestICEServers_Convenience(t *testing.T) {
	req := require.New(t)
	p := Peer{
		StunURLs:       "stun:a.example, stun:b.example",
		TurnURLs:       "turn:c.example",
		TurnUsername:   "user",
		TurnCredential: "secret",
	}

	servers, err := p.ICEServers()

	req.NoError(err)
	req.Equal([]webrtc.ICEServer{
		{URLs: []string{"stun:a.example", "stun:b.example"}},
		{URLs: []string{"turn:c.example"}, Username: "user", Credential: "secret"},
	}, servers)
}

func TestICEServers_EmptyIsHostOnly(t *testing.T) {
	servers, err := Peer{}.ICEServers()

	require.NoError(t, err)
	require.Empty(t, servers)
}

func TestParseICEServersJSON_Rejects(t *testing.T) {
	for _, raw := range []string{
		`{`,
		`[{"urls":[]}]`,
		`[{"urls":"https://x.example"}]`,
		`[{"urls":"turn:x.example","username":"u"}]`,
	} {
		_, err := ParseICEServersJSON(raw)
		require.Error(t, err, raw)
	}
}
