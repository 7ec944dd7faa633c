package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"

	"github.com/hktrpg/PlanarAlly/internal/infrastructure/config"
)

// Message types.
const (
	TypeEvent = "event"
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"
)

const sendBufferSize = 256

var (
	// ErrClosed is returned by Send once the connection is gone.
	ErrClosed = errors.New("websocket: connection closed")

	// ErrDialFailed wraps handshake failures.
	ErrDialFailed = errors.New("websocket: dial failed")
)

// Message is one frame on the session socket.
type Message struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	EventType string          `json:"event_type,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// EventHandler receives an inbound sync event. It runs on the read
// goroutine, so events arrive in the order the server sent them.
type EventHandler func(event string, payload []byte)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Client is a connected session socket.
type Client struct {
	conn    *gws.Conn
	cfg     config.WebSocketConfig
	handler EventHandler

	logger   Logger
	loggerMu sync.RWMutex

	send       chan []byte
	quit       chan struct{}
	closeOnce  sync.Once
	listenOnce sync.Once
	readDone   chan struct{}
	writeDone  chan struct{}

	errMu sync.Mutex
	err   error
}

// Dial opens the socket for session and starts the write loop. Inbound
// frames are not read until Listen is called, which lets the caller build
// the outbox on top of the client before any event can arrive.
//
// The room creator, room name and username are appended to cfg.URL as
// query parameters.
//
// Returns:
//   - *Client: connected client; Close must be called
//   - error: wraps ErrDialFailed when the URL is invalid or the handshake fails
func Dial(ctx context.Context, cfg config.WebSocketConfig, session config.SessionConfig) (*Client, error) {
	u, err := sessionURL(cfg.URL, session)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}

	dialer := gws.Dialer{HandshakeTimeout: time.Duration(cfg.HandshakeTimeout) * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck // Handshake body unused
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}

	c := &Client{
		conn:      conn,
		cfg:       cfg,
		logger:    noopLogger{},
		send:      make(chan []byte, sendBufferSize),
		quit:      make(chan struct{}),
		readDone:  make(chan struct{}),
		writeDone: make(chan struct{}),
	}
	if cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	go c.writePump()
	return c, nil
}

// Listen starts the read loop, delivering events to handler. Only the
// first call has an effect; handler may be nil.
func (c *Client) Listen(handler EventHandler) {
	c.listenOnce.Do(func() {
		c.handler = handler
		go c.readPump()
	})
}

// sessionURL adds the room and user to the server URL.
func sessionURL(raw string, session config.SessionConfig) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("room_creator", session.RoomCreator)
	q.Set("room_name", session.RoomName)
	q.Set("username", session.Username)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

func (c *Client) log() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// Send queues one sync event for the write loop. It implements
// dispatch.Sink; ctx bounds the wait for buffer space.
func (c *Client) Send(ctx context.Context, event string, payload []byte) error {
	data, err := json.Marshal(Message{
		Type:      TypeEvent,
		ID:        uuid.NewString(),
		EventType: event,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", event, err)
	}
	return c.enqueue(ctx, data)
}

func (c *Client) enqueue(ctx context.Context, data []byte) error {
	select {
	case <-c.readDone:
		return ErrClosed
	case <-c.quit:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.readDone:
		return ErrClosed
	case <-c.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the read loop has ended, by Close or by the server.
func (c *Client) Done() <-chan struct{} {
	return c.readDone
}

// Err returns why the read loop stopped; nil after a normal close.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Close sends a close frame and waits for both loops to exit. Events
// still queued are dropped.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.quit) })
	<-c.writeDone
	// Never listened: nothing will close readDone.
	c.listenOnce.Do(func() {
		c.conn.Close() //nolint:errcheck // Write loop already closed it
		close(c.readDone)
	})
	<-c.readDone
	return nil
}

func (c *Client) pingInterval() time.Duration {
	return time.Duration(c.cfg.PingInterval) * time.Second
}

func (c *Client) readWait() time.Duration {
	return c.pingInterval() + time.Duration(c.cfg.PongTimeout)*time.Second
}

func (c *Client) writeWait() time.Duration {
	return time.Duration(c.cfg.WriteTimeout) * time.Second
}

func (c *Client) readPump() {
	defer func() {
		close(c.readDone)
		c.conn.Close() //nolint:errcheck // Loop exit
	}()

	extend := func() {
		if wait := c.readWait(); wait > 0 {
			//nolint:errcheck // Best-effort deadline
			c.conn.SetReadDeadline(time.Now().Add(wait))
		}
	}
	extend()
	c.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.quit:
			default:
				if gws.IsUnexpectedCloseError(err, gws.CloseGoingAway, gws.CloseNormalClosure) {
					c.log().Warn("websocket read error", "error", err)
					c.errMu.Lock()
					c.err = err
					c.errMu.Unlock()
				} else {
					c.log().Debug("websocket closed by server", "error", err)
				}
			}
			return
		}
		extend()
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log().Warn("invalid websocket frame", "error", err)
		return
	}

	switch msg.Type {
	case TypeEvent:
		if c.handler != nil && msg.EventType != "" {
			c.handler(msg.EventType, msg.Payload)
		}
	case TypePing:
		pong, _ := json.Marshal(Message{Type: TypePong, ID: msg.ID}) //nolint:errcheck // Fixed shape
		select {
		case c.send <- pong:
		default:
		}
	case TypeError:
		c.log().Warn("session server error", "id", msg.ID, "payload", string(msg.Payload))
	default:
		c.log().Debug("ignoring websocket frame", "type", msg.Type)
	}
}

func (c *Client) writePump() {
	var tick <-chan time.Time
	if iv := c.pingInterval(); iv > 0 {
		ticker := time.NewTicker(iv)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer func() {
		close(c.writeDone)
		c.conn.Close() //nolint:errcheck // Loop exit
	}()

	write := func(kind int, data []byte) error {
		if wait := c.writeWait(); wait > 0 {
			//nolint:errcheck // Write error reported below
			c.conn.SetWriteDeadline(time.Now().Add(wait))
		}
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data := <-c.send:
			if err := write(gws.TextMessage, data); err != nil {
				c.log().Warn("websocket write failed", "error", err)
				return
			}
		case <-tick:
			if err := write(gws.PingMessage, nil); err != nil {
				return
			}
		case <-c.readDone:
			return
		case <-c.quit:
			//nolint:errcheck // Best-effort close frame
			write(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, ""))
			// Give the server a moment to answer the close frame.
			select {
			case <-c.readDone:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
