//go:build integration

package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/hktrpg/PlanarAlly/internal/infrastructure/config"
)

// These tests need a broker at 127.0.0.1:1883:
//
//	go test -tags=integration ./internal/infrastructure/mqtt/...

func integrationConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker:      config.MQTTBrokerConfig{Host: "127.0.0.1", Port: 1883, ClientID: "planarally-it"},
		QoS:         1,
		Reconnect:   config.MQTTReconnectConfig{InitialDelay: 1, MaxDelay: 5},
		TopicPrefix: "planarally-test",
	}
}

var integrationSession = config.SessionConfig{RoomCreator: "alice", RoomName: "it-room", Username: "bob"}

func connect(t *testing.T) *Client {
	t.Helper()
	c, err := Connect(integrationConfig(), integrationSession)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { c.Close() }) //nolint:errcheck // Test cleanup
	return c
}

func TestIntegration_EventsReachOtherClients(t *testing.T) {
	sender := connect(t)
	receiver := connect(t)

	if sender.ClientID() == receiver.ClientID() {
		t.Fatal("two connections share a client id")
	}

	type msg struct {
		event   string
		payload string
	}
	toReceiver := make(chan msg, 4)
	toSender := make(chan msg, 4)
	if err := receiver.SubscribeEvents(func(e string, p []byte) { toReceiver <- msg{e, string(p)} }); err != nil {
		t.Fatal(err)
	}
	if err := sender.SubscribeEvents(func(e string, p []byte) { toSender <- msg{e, string(p)} }); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sender.Send(ctx, "Marker.New", []byte(`"m1"`)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case m := <-toReceiver:
		if m.event != "Marker.New" || m.payload != `"m1"` {
			t.Errorf("received %+v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case m := <-toSender:
		t.Errorf("sender received its own event %+v", m)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	c := connect(t)

	topic := c.Topics().Presence("+")
	if err := c.Subscribe(topic, 1, func(string, []byte) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if !c.HasSubscription(topic) || c.SubscriptionCount() != 1 {
		t.Error("subscription not tracked")
	}
	if err := c.Unsubscribe(topic); err != nil {
		t.Fatal(err)
	}
	if c.SubscriptionCount() != 0 {
		t.Error("subscription still tracked after Unsubscribe")
	}
}
