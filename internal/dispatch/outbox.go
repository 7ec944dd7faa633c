package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrOutboxClosed is returned by Close when the outbox was already closed.
var ErrOutboxClosed = errors.New("dispatch: outbox closed")

// Default outbox settings.
const (
	DefaultBufferSize  = 256
	DefaultSendTimeout = 5 * time.Second
)

// Sink delivers one encoded event to the remote session. Transports
// (MQTT, WebSocket) implement it.
type Sink interface {
	Send(ctx context.Context, event string, payload []byte) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, event string, payload []byte) error

// Send calls f(ctx, event, payload).
func (f SinkFunc) Send(ctx context.Context, event string, payload []byte) error {
	return f(ctx, event, payload)
}

// Metrics records outbound traffic. Implementations must not block.
type Metrics interface {
	RecordSyncMessage(event string, bytes int, temporary bool)
}

// Logger defines the logging interface used by the Outbox.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// OutboxConfig configures an Outbox.
type OutboxConfig struct {
	// BufferSize is the number of queued events before new ones are dropped.
	BufferSize int

	// SendTimeout bounds a single Sink.Send call.
	SendTimeout time.Duration
}

type envelope struct {
	event     string
	payload   []byte
	temporary bool
}

// Outbox is the single ordered outbound channel of a client.
//
// Emit encodes the payload and queues it without waiting; one worker
// goroutine hands queued events to the Sink in emission order. A full queue
// drops the event with a warning rather than stalling the scene. Send
// failures are logged and never surface to the emitter.
type Outbox struct {
	sink    Sink
	cfg     OutboxConfig
	logger  Logger
	metrics Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

// NewOutbox creates an outbox delivering to sink. Call Start to begin
// delivery.
func NewOutbox(sink Sink, cfg OutboxConfig) *Outbox {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}

	return &Outbox{
		sink:   sink,
		cfg:    cfg,
		logger: noopLogger{},
		queue:  make(chan envelope, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// SetLogger sets the logger for the outbox.
func (o *Outbox) SetLogger(logger Logger) {
	o.logger = logger
}

// SetMetrics registers a traffic recorder. Must be called before Start.
func (o *Outbox) SetMetrics(m Metrics) {
	o.metrics = m
}

// Start launches the delivery worker. The worker exits once the outbox is
// closed and drained. ctx is the parent of every Send call.
func (o *Outbox) Start(ctx context.Context) {
	go o.run(ctx)
}

// Emit queues an event. It never blocks.
func (o *Outbox) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		o.logger.Error("encoding sync message", "event", event, "error", err)
		return
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		o.logger.Debug("outbox closed, dropping sync message", "event", event)
		return
	}

	select {
	case o.queue <- envelope{event: event, payload: data, temporary: commitOf(payload).IsTemporary()}:
	default:
		o.logger.Warn("outbox full, dropping sync message", "event", event, "buffer", o.cfg.BufferSize)
	}
}

// Pending returns the number of queued events.
func (o *Outbox) Pending() int {
	return len(o.queue)
}

// Close stops accepting events and waits until the queue has drained or
// ctx is done.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOutboxClosed
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Outbox) run(ctx context.Context) {
	defer close(o.done)

	for env := range o.queue {
		o.deliver(ctx, env)
	}
}

func (o *Outbox) deliver(ctx context.Context, env envelope) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.SendTimeout)
	defer cancel()

	if err := o.sink.Send(sendCtx, env.event, env.payload); err != nil {
		o.logger.Error("delivering sync message", "event", env.event, "error", err)
		return
	}

	if o.metrics != nil {
		o.metrics.RecordSyncMessage(env.event, len(env.payload), env.temporary)
	}
}
