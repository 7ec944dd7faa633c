package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/hktrpg/PlanarAlly/internal/infrastructure/config"
)

// ============================================================================
// Test Helpers
// ============================================================================

// fakeServer accepts one session socket and exposes its frames.
type fakeServer struct {
	*httptest.Server

	query    chan string
	received chan Message
	conns    chan *gws.Conn
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		query:    make(chan string, 1),
		received: make(chan Message, 16),
		conns:    make(chan *gws.Conn, 1),
	}
	upgrader := gws.Upgrader{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.query <- r.URL.RawQuery
		f.conns <- conn
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg Message
			if json.Unmarshal(data, &msg) == nil {
				f.received <- msg
			}
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) wsURL() string {
	return "ws" + strings.TrimPrefix(f.URL, "http")
}

func testConfig(url string) config.WebSocketConfig {
	return config.WebSocketConfig{
		URL:              url,
		HandshakeTimeout: 5,
		WriteTimeout:     5,
		PingInterval:     30,
		PongTimeout:      60,
		MaxMessageSize:   1 << 20,
	}
}

var testSession = config.SessionConfig{RoomCreator: "alice", RoomName: "dungeon", Username: "bob"}

type eventLog struct {
	mu     sync.Mutex
	events []string
	got    chan struct{}
}

func newEventLog() *eventLog {
	return &eventLog{got: make(chan struct{}, 16)}
}

func (l *eventLog) handle(event string, payload []byte) {
	l.mu.Lock()
	l.events = append(l.events, event+" "+string(payload))
	l.mu.Unlock()
	l.got <- struct{}{}
}

func (l *eventLog) wait(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-l.got:
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of %d events", i, n)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func dial(t *testing.T, f *fakeServer, handler EventHandler) (*Client, *gws.Conn) {
	t.Helper()
	c, err := Dial(context.Background(), testConfig(f.wsURL()), testSession)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	c.Listen(handler)
	t.Cleanup(func() { c.Close() }) //nolint:errcheck // Test cleanup

	select {
	case conn := <-f.conns:
		return c, conn
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the connection")
		return nil, nil
	}
}

// ============================================================================
// Dial
// ============================================================================

func TestDial_SendsSession(t *testing.T) {
	f := newFakeServer(t)
	dial(t, f, nil)

	q := <-f.query
	for _, want := range []string{"room_creator=alice", "room_name=dungeon", "username=bob"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestDial_Failures(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad url", "ws://%zz"},
		{"refused", "ws://127.0.0.1:1/socket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Dial(context.Background(), testConfig(tt.url), testSession)
			if !errors.Is(err, ErrDialFailed) {
				t.Errorf("Dial() error = %v, want ErrDialFailed", err)
			}
		})
	}
}

func TestClose_WithoutListen(t *testing.T) {
	f := newFakeServer(t)
	c, err := Dial(context.Background(), testConfig(f.wsURL()), testSession)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		c.Close() //nolint:errcheck // Closing under test
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close() hung on a client that never listened")
	}
	select {
	case <-c.Done():
	default:
		t.Error("Done() still open after Close()")
	}
}

// ============================================================================
// Outbound
// ============================================================================

func TestSend_Envelope(t *testing.T) {
	f := newFakeServer(t)
	c, _ := dial(t, f, nil)

	ctx := context.Background()
	if err := c.Send(ctx, "Shape.Add", []byte(`{"shape":{"uuid":"a"}}`)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := c.Send(ctx, "Marker.New", []byte(`"m1"`)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	for _, want := range []struct{ event, payload string }{
		{"Shape.Add", `{"shape":{"uuid":"a"}}`},
		{"Marker.New", `"m1"`},
	} {
		select {
		case msg := <-f.received:
			if msg.Type != TypeEvent || msg.EventType != want.event || string(msg.Payload) != want.payload {
				t.Errorf("frame = %+v, want %s %s", msg, want.event, want.payload)
			}
			if msg.ID == "" || msg.Timestamp == "" {
				t.Errorf("frame missing id or timestamp: %+v", msg)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("frame %s not received", want.event)
		}
	}
}

func TestSend_AfterClose(t *testing.T) {
	f := newFakeServer(t)
	c, _ := dial(t, f, nil)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Send(context.Background(), "Shape.Add", []byte(`{}`)); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close error = %v, want ErrClosed", err)
	}
	if c.Err() != nil {
		t.Errorf("Err() after Close = %v, want nil", c.Err())
	}
	// Second Close is harmless.
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// ============================================================================
// Inbound
// ============================================================================

func TestInbound_EventsInOrder(t *testing.T) {
	f := newFakeServer(t)
	log := newEventLog()
	_, conn := dial(t, f, log.handle)

	frames := []string{
		`{"type":"event","event_type":"Marker.New","payload":"m1"}`,
		`not json`,
		`{"type":"error","id":"x","payload":"nope"}`,
		`{"type":"mystery"}`,
		`{"type":"event","event_type":"Room.Info.Set.Locked","payload":true}`,
	}
	for _, fr := range frames {
		if err := conn.WriteMessage(gws.TextMessage, []byte(fr)); err != nil {
			t.Fatal(err)
		}
	}

	got := log.wait(t, 2)
	want := []string{`Marker.New "m1"`, "Room.Info.Set.Locked true"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestInbound_PingGetsPong(t *testing.T) {
	f := newFakeServer(t)
	_, conn := dial(t, f, nil)

	if err := conn.WriteMessage(gws.TextMessage, []byte(`{"type":"ping","id":"p1"}`)); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-f.received:
		if msg.Type != TypePong || msg.ID != "p1" {
			t.Errorf("reply = %+v, want pong p1", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no pong")
	}
}

func TestServerClose_EndsClient(t *testing.T) {
	f := newFakeServer(t)
	c, conn := dial(t, f, nil)

	//nolint:errcheck // Test server shutdown
	conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseGoingAway, "bye"))
	conn.Close()

	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice the server closing")
	}
	if err := c.Send(context.Background(), "Shape.Add", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after server close error = %v, want ErrClosed", err)
	}
}
