package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/KolpakovK/webrtc-rooms/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	outgoingBuffer = 64
)

var ErrClosed = errors.New("signaling connection closed")

// Sink receives every message read from the server, in order.
type Sink interface {
	Deliver(ctx context.Context, env domain.Envelope) error
}

// Client is the participant side of the rendezvous websocket. It implements
// port.Signaler.
type Client struct {
	conn      *websocket.Conn
	outgoing  chan domain.Envelope
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// Dial connects to the rendezvous server and starts the write pump.
func Dial(ctx context.Context, serverURL string, l zerolog.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)

	c := &Client{
		conn:     conn,
		outgoing: make(chan domain.Envelope, outgoingBuffer),
		done:     make(chan struct{}),
		log:      l.With().Str("server", u.Host).Logger(),
	}
	go c.writePump()

	return c, nil
}

// Send queues env for the server.
func (c *Client) Send(ctx context.Context, env domain.Envelope) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.outgoing <- env:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen reads messages and hands them to sink until the connection drops,
// ctx ends or Close is called.
func (c *Client) Listen(ctx context.Context, sink Sink) error {
	defer c.Close()
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	// The server pings us too; answering keeps our own deadline moving.
	c.conn.SetPingHandler(func(data string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		err := c.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrClosed
			}
			return fmt.Errorf("read: %w", err)
		}

		var env domain.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn().Err(err).Msg("Ignoring malformed message")
			continue
		}
		if err := sink.Deliver(ctx, env); err != nil {
			return err
		}
	}
}

// Close sends a close frame and hangs up. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				c.log.Error().Err(err).Str("type", string(env.Type)).Msg("Error writing message")
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
