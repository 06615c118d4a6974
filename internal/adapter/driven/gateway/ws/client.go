package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var ErrConnClosed = errors.New("connection closed")

type Options struct {
	// Time allowed to write a message to the peer.
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration
	// Send pings to peer with this period. Must be less than PongWait.
	PingPeriod time.Duration
	// Maximum message size allowed from peer.
	ReadLimit int64
	// Outbound messages queued per connection before it is dropped as slow.
	SendBuffer int
}

func DefaultOptions() Options {
	return Options{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
		ReadLimit:  64 * 1024,
		SendBuffer: 256,
	}
}

// Conn is one participant's websocket. It implements port.Client.
//
// Sends are queued and written by WritePump, so the hub never blocks on a
// slow socket. Reads happen in ReadPump and are handed to the hub in order.
type Conn struct {
	id        domain.ParticipantID
	ws        *websocket.Conn
	send      chan domain.Envelope
	done      chan struct{}
	closeOnce sync.Once
	opts      Options
	log       zerolog.Logger
}

func NewConn(ws *websocket.Conn, opts Options, l zerolog.Logger) *Conn {
	id := domain.NewParticipantID()
	return &Conn{
		id:   id,
		ws:   ws,
		send: make(chan domain.Envelope, opts.SendBuffer),
		done: make(chan struct{}),
		opts: opts,
		log:  l.With().Str("participant_id", id.String()).Logger(),
	}
}

func (c *Conn) ID() domain.ParticipantID {
	return c.id
}

func (c *Conn) Send(env domain.Envelope) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- env:
		return nil
	default:
		return domain.ErrClientSlow
	}
}

// Close asks WritePump to send a close frame and hang up. It never blocks.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

// ReadPump pumps messages from the websocket connection to the hub until the
// connection fails, then unregisters the participant.
func (c *Conn) ReadPump(h *Hub) {
	defer func() {
		h.Unregister(c.id)
		c.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.opts.ReadLimit)
	c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Error().Err(err).Msg("Unexpected close error")
			}
			return
		}

		var env domain.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn().Err(err).Msg("Ignoring malformed message")
			continue
		}
		if !h.Deliver(c.id, env) {
			return
		}
	}
}

// WritePump pumps queued messages to the websocket and keeps it alive with
// pings. There is at most one writer per connection.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case env := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteJSON(env); err != nil {
				c.log.Error().Err(err).Str("type", string(env.Type)).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
