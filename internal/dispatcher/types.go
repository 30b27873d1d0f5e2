package dispatcher

import (
	"time"

	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// TeachInEvent describes a teach-in telegram observed on the bus. Func and
// Type are only populated for 4BS (0xA5) teach-ins, which advertise their
// own EEP; other rorgs leave them empty.
type TeachInEvent struct {
	ID        string
	SenderID  string
	RORG      string
	Func      string
	Type      string
	Timestamp time.Time
}

// StatePublisher is the MQTT handler's publish path, as seen by the
// dispatcher: state caching, retained publish, and discovery are all the
// publisher's concern, not the dispatcher's.
type StatePublisher interface {
	PublishState(dev *device.Device, decoded map[string]any) error
}

// TeachInNotifier is notified of every teach-in telegram, regardless of
// whether its sender is already a registered device.
type TeachInNotifier interface {
	NotifyTeachIn(event TeachInEvent)
}

// TelegramRecorder durably records every telegram entry the dispatcher
// produces, in addition to the in-memory ring buffer. Satisfied by
// *telegramlog.Writer.
type TelegramRecorder interface {
	Record(entry ringbuffer.TelegramEntry)
}

// MetricsSink records telegram telemetry for time-series storage.
// Satisfied by *influxdb.Client.
type MetricsSink interface {
	WriteTelegram(entry ringbuffer.TelegramEntry)
}

// Logger is the minimal logging interface the dispatcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}
