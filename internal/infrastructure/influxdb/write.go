package influxdb

import (
	"maps"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementOutbound = "sync_outbound"
	MeasurementInbound  = "sync_inbound"
	MeasurementAutosave = "prefs_autosave"
)

// RecordSyncMessage records one event delivered to the session server.
// It implements dispatch.Metrics.
func (c *Client) RecordSyncMessage(event string, bytes int, temporary bool) {
	c.writePoint(MeasurementOutbound,
		map[string]string{"event": event, "temporary": strconv.FormatBool(temporary)},
		map[string]any{"bytes": bytes, "count": 1})
}

// RecordInboundMessage records one remote event and whether it was
// applied to the local scene.
func (c *Client) RecordInboundMessage(event string, bytes int, applied bool) {
	c.writePoint(MeasurementInbound,
		map[string]string{"event": event, "applied": strconv.FormatBool(applied)},
		map[string]any{"bytes": bytes, "count": 1})
}

// RecordAutosave records one preference autosave run.
func (c *Client) RecordAutosave(saved bool, elapsed time.Duration) {
	c.writePoint(MeasurementAutosave,
		map[string]string{"saved": strconv.FormatBool(saved)},
		map[string]any{"duration_ms": float64(elapsed.Microseconds()) / 1000})
}

// writePoint adds the session tags and queues the point. Dropped once
// the client is closed.
func (c *Client) writePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	all := maps.Clone(c.tags)
	maps.Copy(all, tags)
	c.writeAPI.WritePoint(write.NewPoint(measurement, all, fields, time.Now()))
}
