// Package websocket connects a PlanarAlly client to its session server
// over a single websocket.
//
// Every frame is a JSON Message. Sync events travel as
//
//	{"type":"event","id":"…","event_type":"Shape.Add","timestamp":"…","payload":{…}}
//
// in both directions. The client answers application-level pings, sends
// protocol pings on PingInterval and drops the connection when no frame
// or pong arrives within PingInterval+PongTimeout.
//
// Client implements dispatch.Sink:
//
//	ws, err := websocket.Dial(ctx, cfg.WebSocket, cfg.Session)
//	if err != nil {
//	    return err
//	}
//	defer ws.Close()
//	outbox := dispatch.NewOutbox(ws, dispatch.OutboxConfig{})
//	ws.Listen(applier.HandleFunc(ctx))
package websocket
