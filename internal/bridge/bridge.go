package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/enoceanmqtt/core/internal/command"
	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/discovery"
	"github.com/enoceanmqtt/core/internal/dispatcher"
	"github.com/enoceanmqtt/core/internal/infrastructure/mqtt"
	"github.com/enoceanmqtt/core/internal/mapping"
	"github.com/enoceanmqtt/core/internal/statecache"
	"github.com/enoceanmqtt/core/internal/teachin"
	"github.com/enoceanmqtt/core/internal/transport"
)

// Logger is the minimal logging interface Bridge depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Bridge. Registry, Mappings, Cache, MQTT, Commands,
// and Transport are required; TeachIn and Logger are optional.
type Options struct {
	Registry  *device.Registry
	Mappings  *mapping.Store
	Cache     *statecache.Cache
	MQTT      *mqtt.Client
	Commands  *command.Registry
	Transport *transport.Transport
	TeachIn   *teachin.Hub
	Logger    Logger

	// QoS is the MQTT quality of service used for state and discovery
	// publishes.
	QoS byte
}

// Bridge wires the dispatcher's decoded telegrams to MQTT (state,
// discovery) and MQTT commands back to the transport.
//
// Bridge implements dispatcher.StatePublisher and adapts dispatcher
// teach-in events to the teachin.Hub's event type; neither dispatcher nor
// teachin import each other, or this package.
type Bridge struct {
	registry  *device.Registry
	mappings  *mapping.Store
	cache     *statecache.Cache
	mqtt      *mqtt.Client
	commands  *command.Registry
	transport *transport.Transport
	teachIn   *teachin.Hub
	logger    Logger
	topics    mqtt.Topics
	qos       byte
}

// New returns a Bridge built from opts.
func New(opts Options) (*Bridge, error) {
	if opts.Registry == nil || opts.Mappings == nil || opts.Cache == nil {
		return nil, errors.New("bridge: registry, mappings, and cache are required")
	}
	if opts.MQTT == nil {
		return nil, errors.New("bridge: mqtt client is required")
	}
	if opts.Commands == nil || opts.Transport == nil {
		return nil, errors.New("bridge: command registry and transport are required")
	}

	return &Bridge{
		registry:  opts.Registry,
		mappings:  opts.Mappings,
		cache:     opts.Cache,
		mqtt:      opts.MQTT,
		commands:  opts.Commands,
		transport: opts.Transport,
		teachIn:   opts.TeachIn,
		logger:    opts.Logger,
		topics:    opts.MQTT.Topics(),
		qos:       opts.QoS,
	}, nil
}

// Start subscribes to the command surface, publishes discovery configs for
// every registered device, and republishes any cached state from disk.
func (b *Bridge) Start(_ context.Context) error {
	if err := b.mqtt.Subscribe(b.topics.AllDeviceSet(), b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to device commands: %w", err)
	}
	if err := b.mqtt.Subscribe(b.topics.AllDeviceBrightnessSet(), b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to brightness commands: %w", err)
	}
	if err := b.mqtt.Subscribe(b.topics.AllDevicePositionSet(), b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to position commands: %w", err)
	}

	b.publishAllDiscovery()

	if err := b.restoreCachedStates(); err != nil {
		b.warn("restoring cached states failed", "error", err)
	}

	b.info("bridge started", "devices", b.registry.Len())
	return nil
}

// Stop unsubscribes from the command surface. The MQTT client's own Close
// handles the graceful offline publish; the transport is closed by
// whichever goroutine owns Run.
func (b *Bridge) Stop() {
	for _, topic := range []string{b.topics.AllDeviceSet(), b.topics.AllDeviceBrightnessSet(), b.topics.AllDevicePositionSet()} {
		if err := b.mqtt.Unsubscribe(topic); err != nil {
			b.warn("unsubscribe failed", "topic", topic, "error", err)
		}
	}
}

// Run reads frames from the transport and hands each to d, until ctx is
// cancelled or the transport's frame channel closes.
func (b *Bridge) Run(ctx context.Context, d *dispatcher.Dispatcher) error {
	frames := b.transport.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			d.Handle(frame)
		}
	}
}

// PublishState implements dispatcher.StatePublisher: it persists state to
// the cache (before publishing, so a crash never leaves a retained publish
// without a matching on-disk snapshot) and publishes it retained to the
// device's state topic.
func (b *Bridge) PublishState(dev *device.Device, decoded map[string]any) error {
	stamped, err := b.cache.Put(dev.Name, statecache.State(decoded))
	if err != nil {
		b.warn("persisting state cache failed", "device", dev.Name, "error", err)
	}

	payload, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("marshaling state for %q: %w", dev.Name, err)
	}

	return b.mqtt.Publish(b.topics.DeviceState(dev.Name), payload, b.qos, true)
}

// NotifyTeachIn implements dispatcher.TeachInNotifier, adapting the
// dispatcher's event type to the one the teach-in hub broadcasts.
func (b *Bridge) NotifyTeachIn(event dispatcher.TeachInEvent) {
	if b.teachIn == nil {
		return
	}
	b.teachIn.Broadcast(teachin.Event{
		ID:        event.ID,
		SenderID:  event.SenderID,
		RORG:      event.RORG,
		Func:      event.Func,
		Type:      event.Type,
		Timestamp: event.Timestamp,
	})
}

// restoreCachedStates republishes every cached state retained, marked
// "_restored": true, so devices that transmit only every few hours remain
// observable in the UI immediately after a restart.
func (b *Bridge) restoreCachedStates() error {
	states, err := b.cache.LoadForRestore()
	if err != nil {
		return err
	}

	for name, state := range states {
		payload, err := json.Marshal(state)
		if err != nil {
			b.warn("marshaling restored state failed", "device", name, "error", err)
			continue
		}
		if err := b.mqtt.Publish(b.topics.DeviceState(name), payload, b.qos, true); err != nil {
			b.warn("republishing restored state failed", "device", name, "error", err)
		}
	}
	return nil
}

// publishAllDiscovery publishes the discovery config for every entity of
// every registered device.
func (b *Bridge) publishAllDiscovery() {
	for _, dev := range b.registry.List() {
		m := b.mappings.Get(dev.EEPID())
		for _, entry := range discovery.Build(dev, m, b.topics) {
			if err := b.mqtt.Publish(entry.Topic, entry.Payload, b.qos, true); err != nil {
				b.warn("publishing discovery config failed", "device", dev.Name, "error", err)
			}
		}
	}
}

// handleCommand routes an incoming command message to the device it
// addresses. The device name is always the topic's second segment
// ("P/<device>/set", "P/<device>/brightness/set", "P/<device>/position/set");
// the trailing segments select which symbolic command to encode.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		b.warn("malformed command topic", "topic", topic)
		return nil
	}
	deviceName := parts[1]

	dev, err := b.registry.Get(deviceName)
	if err != nil {
		b.warn("command dropped", "error", fmt.Errorf("%w: %q", ErrUnknownDevice, deviceName))
		return nil
	}

	cmd, value := commandFor(topic, payload)

	frame, err := b.commands.Encode(dev, cmd, value)
	if err != nil {
		b.warn("encoding command failed", "device", deviceName, "cmd", cmd, "error", err)
		return nil
	}

	if err := b.transport.Send(frame); err != nil {
		b.warn("sending command frame failed", "device", deviceName, "error", err)
	}
	return nil
}

// commandFor derives the symbolic command name and value from the command
// topic's shape and the raw payload.
func commandFor(topic string, payload []byte) (cmd, value string) {
	switch {
	case strings.HasSuffix(topic, "/brightness/set"):
		return "brightness", string(payload)
	case strings.HasSuffix(topic, "/position/set"):
		return "position", string(payload)
	default:
		return string(payload), ""
	}
}

func (b *Bridge) info(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Bridge) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
