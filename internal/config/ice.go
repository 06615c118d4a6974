package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

// ICEServers builds the ICE server list. PEER_ICE_SERVERS_JSON, when set,
// wins over the STUN/TURN convenience values.
func (p Peer) ICEServers() ([]webrtc.ICEServer, error) {
	if raw := strings.TrimSpace(p.ICEServersJSON); raw != "" {
		servers, err := ParseICEServersJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("ice servers json: %w", err)
		}
		return servers, nil
	}

	var servers []webrtc.ICEServer
	if stun := splitList(p.StunURLs); len(stun) > 0 {
		s := webrtc.ICEServer{URLs: stun}
		if err := validateICEServer(s); err != nil {
			return nil, fmt.Errorf("stun urls: %w", err)
		}
		servers = append(servers, s)
	}

	if turn := splitList(p.TurnURLs); len(turn) > 0 {
		s := webrtc.ICEServer{
			URLs:       turn,
			Username:   strings.TrimSpace(p.TurnUsername),
			Credential: strings.TrimSpace(p.TurnCredential),
		}
		if err := validateICEServer(s); err != nil {
			return nil, fmt.Errorf("turn urls: %w", err)
		}
		servers = append(servers, s)
	}
	return servers, nil
}

// urlList accepts both "urls": "stun:..." and "urls": ["stun:...", ...],
// as browsers do.
type urlList []string

func (u *urlList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*u = urlList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*u = many
	return nil
}

type iceServerEntry struct {
	URLs       urlList `json:"urls"`
	Username   string  `json:"username,omitempty"`
	Credential string  `json:"credential,omitempty"`
}

// ParseICEServersJSON parses an RTCIceServer[] document.
func ParseICEServersJSON(raw string) ([]webrtc.ICEServer, error) {
	var entries []iceServerEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	out := make([]webrtc.ICEServer, 0, len(entries))
	for i, e := range entries {
		s := webrtc.ICEServer{
			URLs:     lo.Map([]string(e.URLs), func(u string, _ int) string { return strings.TrimSpace(u) }),
			Username: strings.TrimSpace(e.Username),
		}
		if e.Credential != "" {
			s.Credential = e.Credential
		}
		if err := validateICEServer(s); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

var iceSchemes = []string{"stun:", "stuns:", "turn:", "turns:"}

func validateICEServer(s webrtc.ICEServer) error {
	if len(s.URLs) == 0 {
		return errors.New("missing urls")
	}

	needsCreds := false
	for _, u := range s.URLs {
		if u == "" {
			return errors.New("empty url")
		}
		scheme, ok := lo.Find(iceSchemes, func(prefix string) bool { return strings.HasPrefix(u, prefix) })
		if !ok {
			return fmt.Errorf("unsupported url scheme: %q", u)
		}
		if strings.HasPrefix(scheme, "turn") {
			needsCreds = true
		}
	}

	if needsCreds {
		cred, _ := s.Credential.(string)
		if s.Username == "" || cred == "" {
			return errors.New("turn urls require username and credential")
		}
	}
	return nil
}
