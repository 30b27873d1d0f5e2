package dispatcher

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/eep"
	"github.com/enoceanmqtt/core/internal/esp3"
	"github.com/enoceanmqtt/core/internal/ringbuffer"
)

// Options configures a Dispatcher. Registry, Profiles, and Ring are
// required; everything else is an optional collaborator the dispatcher
// calls when present.
type Options struct {
	Registry *device.Registry
	Profiles *eep.Store
	Ring     *ringbuffer.Buffer

	Publisher StatePublisher    // optional: nil disables MQTT publication
	TeachIn   TeachInNotifier   // optional
	Recorder  TelegramRecorder  // optional: durable telegram log
	Metrics   MetricsSink       // optional: time-series telemetry
	Logger    Logger            // optional
}

// Dispatcher implements the telegram pipeline described in the system's
// core specification: frame -> teach-in detect -> decode -> publish.
type Dispatcher struct {
	registry  *device.Registry
	profiles  *eep.Store
	ring      *ringbuffer.Buffer
	publisher StatePublisher
	teachIn   TeachInNotifier
	recorder  TelegramRecorder
	metrics   MetricsSink
	logger    Logger
}

// New returns a Dispatcher built from opts.
func New(opts Options) *Dispatcher {
	return &Dispatcher{
		registry:  opts.Registry,
		profiles:  opts.Profiles,
		ring:      opts.Ring,
		publisher: opts.Publisher,
		teachIn:   opts.TeachIn,
		recorder:  opts.Recorder,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
}

// Handle processes one frame read from the transport. Only RADIO_ERP1
// frames carry anything the dispatcher decodes; other packet types
// (RESPONSE, EVENT, COMMON_COMMAND) are logged and ignored, per the
// protocol-error policy: a well-formed frame of an unhandled type is not
// an error condition.
func (d *Dispatcher) Handle(frame esp3.Frame) {
	if frame.PacketType != esp3.PacketTypeRadioERP1 {
		d.debug("ignoring non-radio frame", "packet_type", frame.PacketType)
		return
	}

	telegram, err := esp3.DecodeRadioTelegram(frame.Data, frame.Optional)
	if err != nil {
		d.debug("dropping malformed radio telegram", "error", err)
		return
	}

	entry := ringbuffer.TelegramEntry{
		Timestamp: time.Now(),
		SenderID:  telegram.SenderHex(),
		RORG:      telegram.RORGHex(),
		DataHex:   strings.ToUpper(hex.EncodeToString(frame.Data)),
		Status:    telegram.Status,
		DBm:       telegram.RSSI,
	}

	if eep.IsTeachIn(telegram.RORG, telegram.Payload) {
		entry.IsTeachIn = true
		d.notifyTeachIn(telegram)
	}

	dev, err := d.registry.GetByAddress(telegram.SenderHex())
	if err != nil {
		// UnknownSender is not an error from the caller's perspective:
		// record it so it can be taught in, and stop.
		d.record(entry)
		return
	}
	entry.DeviceName = dev.Name

	profile, ok := d.profiles.GetByComponents(dev.RORG, dev.Func, dev.Type)
	if !ok {
		entry.EEPID = dev.EEPID()
		d.warn("no eep profile for device", "device", dev.Name, "eep", dev.EEPID())
		d.record(entry)
		return
	}
	entry.EEPID = profile.ID()

	decoded := d.decode(profile, telegram)
	entry.Decoded = decoded

	if d.publisher != nil {
		if err := d.publisher.PublishState(dev, decoded); err != nil {
			d.warn("publishing state failed", "device", dev.Name, "error", err)
		}
	}

	d.record(entry)
}

// decode runs the generic bit-field decoder and adds the two bookkeeping
// keys every decoded map carries (sender_id, rssi), plus a raw hex
// fallback when the profile has no fields of its own.
func (d *Dispatcher) decode(profile eep.Profile, telegram esp3.RadioTelegram) map[string]any {
	decoded := eep.Decode(profile, telegram.Payload)
	if len(profile.Fields) == 0 {
		decoded["raw"] = strings.ToUpper(hex.EncodeToString(telegram.Payload))
	}
	decoded["sender_id"] = telegram.SenderHex()
	decoded["rssi"] = telegram.RSSI
	return decoded
}

// record appends entry to the ring buffer (assigning it a correlation ID),
// then fans it out to the durable log and metrics sink, if configured.
func (d *Dispatcher) record(entry ringbuffer.TelegramEntry) {
	stored := d.ring.Add(entry)

	if d.recorder != nil {
		d.recorder.Record(stored)
	}
	if d.metrics != nil {
		d.metrics.WriteTelegram(stored)
	}
}

// notifyTeachIn builds a TeachInEvent from telegram and fans it out to the
// configured notifier, if any. 4BS teach-ins additionally carry the
// implicit EEP they advertise for themselves.
func (d *Dispatcher) notifyTeachIn(telegram esp3.RadioTelegram) {
	if d.teachIn == nil {
		return
	}

	event := TeachInEvent{
		ID:        uuid.New().String(),
		SenderID:  telegram.SenderHex(),
		RORG:      telegram.RORGHex(),
		Timestamp: time.Now(),
	}

	if telegram.RORG == 0xA5 {
		if fn, typ, ok := eep.ImplicitEEP(telegram.Payload); ok {
			event.Func = hexByte(fn)
			event.Type = hexByte(typ)
		}
	}

	d.teachIn.NotifyTeachIn(event)
}

func hexByte(b byte) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}

func (d *Dispatcher) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func (d *Dispatcher) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
