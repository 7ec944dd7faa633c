package main

import (
	"context"
	"fmt"

	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/config"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/logging"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/mqtt"
	"github.com/hktrpg/PlanarAlly/internal/infrastructure/websocket"
)

// transport bundles whichever connection carries sync events.
type transport struct {
	sink   dispatch.Sink
	listen func(handler func(event string, payload []byte)) error
	close  func() error

	// done is closed when the connection is gone for good; nil never fires.
	done <-chan struct{}
}

// openTransport connects the configured transport. Inbound events are not
// delivered until listen is called.
func openTransport(ctx context.Context, cfg *config.Config, log *logging.Logger) (*transport, error) {
	switch cfg.Transport.Type {
	case config.TransportMQTT:
		client, err := mqtt.Connect(cfg.MQTT, cfg.Session)
		if err != nil {
			return nil, fmt.Errorf("connecting to MQTT: %w", err)
		}
		mlog := log.Component("mqtt")
		client.SetLogger(mlog)
		client.SetOnConnect(func() { mlog.Info("MQTT connected") })
		client.SetOnDisconnect(func(err error) { mlog.Warn("MQTT disconnected", "error", err) })
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", client.ClientID())

		return &transport{
			sink: client,
			listen: func(h func(string, []byte)) error {
				return client.SubscribeEvents(h)
			},
			close: client.Close,
		}, nil

	case config.TransportWebSocket:
		client, err := websocket.Dial(ctx, cfg.WebSocket, cfg.Session)
		if err != nil {
			return nil, fmt.Errorf("connecting to session server: %w", err)
		}
		client.SetLogger(log.Component("websocket"))
		log.Info("websocket connected", "url", cfg.WebSocket.URL)

		return &transport{
			sink: client,
			listen: func(h func(string, []byte)) error {
				client.Listen(h)
				return nil
			},
			close: client.Close,
			done:  client.Done(),
		}, nil

	default:
		log.Warn("no transport configured, changes stay local")
		dlog := log.Component("outbox")
		return &transport{
			sink: dispatch.SinkFunc(func(_ context.Context, event string, payload []byte) error {
				dlog.Debug("local only", "event", event, "bytes", len(payload))
				return nil
			}),
			listen: func(func(string, []byte)) error { return nil },
			close:  func() error { return nil },
		}, nil
	}
}
