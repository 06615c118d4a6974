package pion

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/KolpakovK/webrtc-rooms/internal/core/port"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/ivfwriter"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type rtpWriter interface {
	WriteRTP(pkt *rtp.Packet) error
	Close() error
}

// output is everything rendered for one remote participant.
type output struct {
	name    string
	mu      sync.Mutex
	writers map[string]rtpWriter
	kinds   map[string]struct{}
	closed  bool
}

func (o *output) write(kind string, pkt *rtp.Packet) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	w, ok := o.writers[kind]
	if o.closed || !ok {
		return nil
	}
	return w.WriteRTP(pkt)
}

// Renderer records each remote participant's media. VP8 video goes to
// <dir>/video-<id>.ivf and Opus audio to <dir>/video-<id>.ogg; other codecs,
// or everything when dir is empty, are read and discarded.
type Renderer struct {
	dir     string
	mu      sync.Mutex
	outputs map[domain.ParticipantID]*output
	log     zerolog.Logger
}

func NewRenderer(dir string, l zerolog.Logger) *Renderer {
	return &Renderer{
		dir:     dir,
		outputs: make(map[domain.ParticipantID]*output),
		log:     l,
	}
}

func (r *Renderer) Attach(remote domain.ParticipantID, track port.RemoteTrack) error {
	src, ok := track.(RTPSource)
	if !ok {
		return domain.NewOpError("render", remote, domain.ErrUnsupportedTrack)
	}

	r.mu.Lock()
	out, ok := r.outputs[remote]
	if !ok {
		out = &output{
			name:    "video-" + remote.String(),
			writers: make(map[string]rtpWriter),
			kinds:   make(map[string]struct{}),
		}
		r.outputs[remote] = out
	}
	r.mu.Unlock()

	l := r.log.With().Str("remote_id", remote.String()).Str("kind", src.Kind()).Str("codec", src.MimeType()).Logger()

	out.mu.Lock()
	_, seen := out.kinds[src.Kind()]
	out.kinds[src.Kind()] = struct{}{}
	if !seen {
		w, err := r.newWriter(out.name, src.MimeType())
		if err != nil {
			out.mu.Unlock()
			return domain.NewOpError("render", remote, err)
		}
		if w != nil {
			out.writers[src.Kind()] = w
		}
	}
	out.mu.Unlock()

	if seen {
		l.Debug().Msg("Already rendering this kind, discarding track")
	} else {
		l.Info().Str("output", out.name).Msg("Rendering remote track")
	}

	go r.pump(out, src, seen, l)
	return nil
}

// pump reads until the track ends. Packets are always read so the
// connection's buffers never back up, even when they are discarded.
func (r *Renderer) pump(out *output, src RTPSource, discard bool, l zerolog.Logger) {
	for {
		pkt, err := src.ReadRTP()
		if err != nil {
			l.Debug().Err(err).Msg("Remote track ended")
			return
		}
		if discard {
			continue
		}
		if err := out.write(src.Kind(), pkt); err != nil {
			l.Error().Err(err).Msg("Error writing remote media")
			discard = true
		}
	}
}

func (r *Renderer) newWriter(name, mimeType string) (rtpWriter, error) {
	if r.dir == "" {
		return nil, nil
	}
	switch {
	case strings.EqualFold(mimeType, webrtc.MimeTypeVP8):
		return ivfwriter.New(filepath.Join(r.dir, name+".ivf"))
	case strings.EqualFold(mimeType, webrtc.MimeTypeOpus):
		return oggwriter.New(filepath.Join(r.dir, name+".ogg"), opusSampleRate, 2)
	default:
		return nil, nil
	}
}

// Detach closes every writer of remote. Unknown identities are ignored.
func (r *Renderer) Detach(remote domain.ParticipantID) error {
	r.mu.Lock()
	out, ok := r.outputs[remote]
	delete(r.outputs, remote)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	out.closed = true

	var errs []error
	for kind, w := range out.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	clear(out.writers)

	r.log.Info().Str("remote_id", remote.String()).Str("output", out.name).Msg("Stopped rendering")
	if err := errors.Join(errs...); err != nil {
		return domain.NewOpError("detach", remote, err)
	}
	return nil
}

// Outputs lists the names of the outputs currently rendered.
func (r *Renderer) Outputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := lo.MapToSlice(r.outputs, func(_ domain.ParticipantID, o *output) string {
		return o.name
	})
	slices.Sort(names)
	return names
}
