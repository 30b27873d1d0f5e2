package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// telegramMeasurement is the InfluxDB measurement (table) that every
// decoded telegram is written to.
const telegramMeasurement = "enocean_telegram"

// WriteTelegram records one decoded telegram as an InfluxDB point.
//
// The write is non-blocking; data is batched and sent asynchronously by
// the underlying write API. Telegrams from unknown senders or undecodable
// profiles are still recorded (tagged by sender/RORG) so signal-strength
// and traffic history survive even before a device is taught in.
//
// Tags (indexed, low cardinality): sender_id, rorg, device_name, eep_id.
// Fields: rssi_dbm plus every numeric (float64, int, int64) entry of the
// decoded payload, whatever its field kind; non-numeric entries are skipped.
func (c *Client) WriteTelegram(entry ringbuffer.TelegramEntry) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{
		"sender_id": entry.SenderID,
		"rorg":      entry.RORG,
	}
	if entry.DeviceName != "" {
		tags["device_name"] = entry.DeviceName
	}
	if entry.EEPID != "" {
		tags["eep_id"] = entry.EEPID
	}

	fields := map[string]interface{}{
		"rssi_dbm": entry.DBm,
	}
	for k, v := range entry.Decoded {
		if f, ok := toFloat(v); ok {
			fields[k] = f
		}
	}

	point := write.NewPoint(telegramMeasurement, tags, fields, entry.Timestamp)
	c.writeAPI.WritePoint(point)
}

// toFloat extracts a numeric value from a decoded field, skipping enum
// labels and status strings which aren't meaningful as InfluxDB fields.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit WriteTelegram.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("gateway_stats",
//	    map[string]string{"host": "enoceanmqtt-01"},
//	    map[string]interface{}{"queue_depth": 3})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
