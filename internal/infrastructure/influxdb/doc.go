// Package influxdb records sync telemetry of a PlanarAlly client in
// InfluxDB v2.
//
// Three measurements are written, each tagged with room and user:
//
//	sync_outbound   event, temporary   bytes, count
//	sync_inbound    event, applied     bytes, count
//	prefs_autosave  saved              duration_ms
//
// Client satisfies dispatch.Metrics, remote.Metrics and prefs.Metrics, so
// it is handed to the outbox, the applier and the autosaver:
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Session)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry off
//	}
//	outbox.SetMetrics(client)
//
// Points are batched (batch_size, flush_interval) and written without
// blocking the caller.
package influxdb
