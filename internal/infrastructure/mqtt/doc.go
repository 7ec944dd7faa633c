// Package mqtt carries sync events between the clients of a room over an
// MQTT broker.
//
// Each client publishes the events its scene emits on
//
//	{prefix}/{creator}/{room}/events/{client-id}/{event}
//
// and subscribes to every other client's events in the same room. A
// retained presence message per client shows who is online; the broker's
// last will flips it to offline when a client disappears.
//
// Client implements dispatch.Sink, so it sits behind the outbox:
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Session)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	outbox := dispatch.NewOutbox(client, dispatch.OutboxConfig{})
//	err = client.SubscribeEvents(applier.HandleFunc(ctx))
//
// Use TLS and broker credentials (PLANARALLY_MQTT_USERNAME and
// PLANARALLY_MQTT_PASSWORD) outside local play.
package mqtt
